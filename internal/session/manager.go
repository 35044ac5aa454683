package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/rs/zerolog"
)

// ErrExamCompleted means a completed result already exists for this
// (student, exam) pair. Re-attempts are a distinct action that must clear
// the old result first; callers redirect to the results view instead.
var ErrExamCompleted = errors.New("exam already completed")

type entry struct {
	sess *Session
	stop chan struct{}
	once sync.Once
}

func (e *entry) stopTicker() {
	e.once.Do(func() { close(e.stop) })
}

// Manager owns the live sessions of this process, one per (student, exam)
// pair, and drives each one with a 1 Hz ticker goroutine. The ticker is the
// only non-user-triggered source of mutation and serializes through the same
// session lock as user actions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry

	loader   *content.Loader
	store    store.Store
	onResult func(*model.ExamResult)
	log      zerolog.Logger
}

// NewManager creates a Manager. onResult, when non-nil, is forwarded to every
// session and fires after each successful submit.
func NewManager(loader *content.Loader, st store.Store, log zerolog.Logger, onResult func(*model.ExamResult)) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		loader:   loader,
		store:    st,
		onResult: onResult,
		log:      log.With().Str("component", "session_manager").Logger(),
	}
}

func sessionKey(studentID int, examID string) string {
	return fmt.Sprintf("%d_%s", studentID, examID)
}

// Open returns the live session for (student, exam), creating one if needed.
// A saved partial is restored; a malformed partial is discarded and the
// session starts fresh. If a completed result already exists, Open fails
// with ErrExamCompleted.
func (m *Manager) Open(ctx context.Context, studentID int, examID string) (*Session, error) {
	key := sessionKey(studentID, examID)

	m.mu.Lock()
	if e, ok := m.sessions[key]; ok && e.sess.Phase() != PhaseSubmitted {
		m.mu.Unlock()
		return e.sess, nil
	}
	m.mu.Unlock()

	if _, err := m.store.LatestResult(ctx, studentID, examID); err == nil {
		return nil, ErrExamCompleted
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check prior result: %w", err)
	}

	exam, err := m.loader.GetExam(examID)
	if err != nil {
		return nil, err
	}
	questions, err := m.loader.Questions(examID)
	if err != nil {
		return nil, err
	}

	opts := Options{
		Exam:      exam,
		Questions: questions,
		StudentID: studentID,
		Store:     m.store,
		Log:       m.log,
		OnResult:  m.onResult,
	}

	partial, err := m.store.LoadPartial(ctx, studentID, examID)
	switch {
	case err == nil:
		opts.RestoredAnswers = partial.Answers
		opts.RestoredTime = &partial.TimeRemaining
	case errors.Is(err, store.ErrNotFound):
		// First open, nothing to restore.
	case errors.Is(err, store.ErrMalformed):
		m.log.Warn().
			Int("student_id", studentID).
			Str("exam_id", examID).
			Msg("Discarding malformed partial, starting fresh")
		if clearErr := m.store.ClearPartial(ctx, studentID, examID); clearErr != nil {
			m.log.Warn().Err(clearErr).Msg("Clear malformed partial failed")
		}
	default:
		// The store is best-effort: a read failure costs saved progress,
		// never the session itself.
		m.log.Warn().Err(err).Msg("Partial load failed, starting fresh")
	}

	sess := New(opts)

	m.mu.Lock()
	// Another request may have opened the same session while we loaded.
	if e, ok := m.sessions[key]; ok && e.sess.Phase() != PhaseSubmitted {
		m.mu.Unlock()
		return e.sess, nil
	}
	e := &entry{sess: sess, stop: make(chan struct{})}
	m.sessions[key] = e
	m.mu.Unlock()

	go m.runTicker(e)

	m.log.Info().
		Int("student_id", studentID).
		Str("exam_id", examID).
		Int("time_remaining", sess.Snapshot().TimeRemaining).
		Msg("Session opened")

	return sess, nil
}

// Get returns a live session without creating one.
func (m *Manager) Get(studentID int, examID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionKey(studentID, examID)]
	if !ok {
		return nil, false
	}
	return e.sess, true
}

// Close tears down the live session for (student, exam): the ticker stops
// scheduling further ticks and the entry is dropped. The saved partial stays
// in the store so the attempt can be resumed later.
func (m *Manager) Close(studentID int, examID string) {
	key := sessionKey(studentID, examID)

	m.mu.Lock()
	e, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if ok {
		e.stopTicker()
	}
}

// Shutdown stops every ticker. Live state is abandoned; partials already in
// the store cover the next startup.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range entries {
		e.stopTicker()
	}
}

func (m *Manager) runTicker(e *entry) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.sess.Tick()
			if e.sess.Phase() == PhaseSubmitted {
				return
			}
		}
	}
}
