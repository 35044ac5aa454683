package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prepyds/ydsprep-backend/internal/config"
	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/session"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNoActiveSession means the student has no live session for this exam in
// this process. The client must start (or resume) the session first.
var ErrNoActiveSession = errors.New("no active session for this exam")

// SessionService orchestrates exam attempts: content loading, the per-attempt
// state machine, partial persistence and the durable result mirror.
type SessionService struct {
	manager *session.Manager
	loader  *content.Loader
	store   store.Store
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewSessionService creates a SessionService. rdb may be nil in demo mode;
// submitted results then live only in the in-memory store.
func NewSessionService(loader *content.Loader, st store.Store, rdb *redis.Client, log zerolog.Logger) *SessionService {
	s := &SessionService{
		loader: loader,
		store:  st,
		rdb:    rdb,
		log:    log.With().Str("component", "session_service").Logger(),
	}
	s.manager = session.NewManager(loader, st, log, s.enqueueResult)
	return s
}

// enqueueResult queues a submitted result for the persist worker. Queueing is
// best-effort: the result already lives in the session store, the durable
// mirror just lags.
func (s *SessionService) enqueueResult(r *model.ExamResult) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(r)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal result for persist queue")
		return
	}
	if err := s.rdb.RPush(context.Background(), config.WorkerKey.PersistResultsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).
			Str("result_id", r.ID.String()).
			Msg("Queue result for persistence")
	}
}

// Start opens (or resumes) a session. When the exam was already completed it
// returns session.ErrExamCompleted together with the existing result so the
// caller can redirect to the results view.
func (s *SessionService) Start(ctx context.Context, studentID int, examID string) (*session.View, *model.ExamResult, error) {
	sess, err := s.manager.Open(ctx, studentID, examID)
	if err != nil {
		if errors.Is(err, session.ErrExamCompleted) {
			prior, lerr := s.store.LatestResult(ctx, studentID, examID)
			if lerr != nil {
				return nil, nil, fmt.Errorf("load prior result: %w", lerr)
			}
			return nil, prior, err
		}
		return nil, nil, err
	}
	view := sess.Snapshot()
	return &view, nil, nil
}

// State returns a snapshot of the live session.
func (s *SessionService) State(studentID int, examID string) (*session.View, error) {
	sess, ok := s.manager.Get(studentID, examID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	view := sess.Snapshot()
	return &view, nil
}

// Paper returns the exam questions stripped of grading fields. Requires a
// live session so students cannot download papers they have not started.
func (s *SessionService) Paper(studentID int, examID string) ([]model.QuestionForStudent, error) {
	if _, ok := s.manager.Get(studentID, examID); !ok {
		return nil, ErrNoActiveSession
	}

	questions, err := s.loader.Questions(examID)
	if err != nil {
		return nil, err
	}
	out := make([]model.QuestionForStudent, len(questions))
	for i, q := range questions {
		out[i] = q.ForStudent()
	}
	return out, nil
}

// Answer records a choice on the live session.
func (s *SessionService) Answer(studentID int, examID, questionID, label string) (*session.View, error) {
	sess, ok := s.manager.Get(studentID, examID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	if err := sess.SelectAnswer(questionID, label); err != nil {
		return nil, err
	}
	view := sess.Snapshot()
	return &view, nil
}

// Flag toggles the review flag on a question.
func (s *SessionService) Flag(studentID int, examID, questionID string) (*session.View, error) {
	sess, ok := s.manager.Get(studentID, examID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	if err := sess.ToggleFlag(questionID); err != nil {
		return nil, err
	}
	view := sess.Snapshot()
	return &view, nil
}

// Navigate moves the current question pointer by delta or to an absolute
// index; out-of-range targets clamp.
func (s *SessionService) Navigate(studentID int, examID string, delta, index *int) (*session.View, error) {
	sess, ok := s.manager.Get(studentID, examID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	switch {
	case index != nil:
		sess.GoTo(*index)
	case delta != nil:
		sess.Navigate(*delta)
	}
	view := sess.Snapshot()
	return &view, nil
}

// SetReview enters or exits review mode.
func (s *SessionService) SetReview(studentID int, examID string, enter bool) (*session.View, error) {
	sess, ok := s.manager.Get(studentID, examID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	var err error
	if enter {
		err = sess.EnterReview()
	} else {
		err = sess.ExitReview()
	}
	if err != nil {
		return nil, err
	}
	view := sess.Snapshot()
	return &view, nil
}

// Submit grades and finalizes the live session.
func (s *SessionService) Submit(studentID int, examID string) (*model.ExamResult, error) {
	sess, ok := s.manager.Get(studentID, examID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	return sess.Submit()
}

// CloseSession tears down the live session without submitting; the saved
// partial remains for a later resume.
func (s *SessionService) CloseSession(studentID int, examID string) {
	s.manager.Close(studentID, examID)
}

// Session exposes the live session, mainly for the WebSocket stream.
func (s *SessionService) Session(studentID int, examID string) (*session.Session, bool) {
	return s.manager.Get(studentID, examID)
}

// Shutdown stops all live session tickers.
func (s *SessionService) Shutdown() {
	s.manager.Shutdown()
}

// History returns the student's result history from the session store.
func (s *SessionService) History(ctx context.Context, studentID int) ([]model.ExamResult, error) {
	return s.store.ListResults(ctx, studentID)
}

// ReviewEntry pairs a graded question with the student's answer for the
// post-submission answer sheet.
type ReviewEntry struct {
	Question    model.Question `json:"question"`
	GivenAnswer string         `json:"given_answer,omitempty"`
	IsCorrect   bool           `json:"is_correct"`
}

// AnswerSheet returns the full questions (correct answers and explanations
// included) with the student's answers overlaid. Only available once the
// exam is completed.
func (s *SessionService) AnswerSheet(ctx context.Context, studentID int, examID string) (*model.ExamResult, []ReviewEntry, error) {
	result, err := s.store.LatestResult(ctx, studentID, examID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.loader.Questions(examID)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]ReviewEntry, len(questions))
	for i, q := range questions {
		given := result.Answers[q.ID]
		entries[i] = ReviewEntry{
			Question:    q,
			GivenAnswer: given,
			IsCorrect:   given == q.CorrectAnswer,
		}
	}
	return result, entries, nil
}

// ExamList returns the catalog overlaid with the student's own status.
func (s *SessionService) ExamList(ctx context.Context, studentID int) ([]model.ExamSummary, error) {
	defs := s.loader.ListExams()
	results, err := s.store.ListResults(ctx, studentID)
	if err != nil {
		return nil, err
	}

	best := make(map[string]int, len(results))
	for _, r := range results {
		if b, ok := best[r.ExamID]; !ok || r.Score > b {
			best[r.ExamID] = r.Score
		}
	}

	out := make([]model.ExamSummary, 0, len(defs))
	for _, def := range defs {
		entry := model.ExamSummary{ExamDefinition: def}

		if score, ok := best[def.ID]; ok {
			entry.Completed = true
			b := score
			entry.BestScore = &b
		} else {
			// A live session or a saved partial both count as in progress.
			if _, live := s.manager.Get(studentID, def.ID); live {
				entry.InProgress = true
			} else if _, err := s.store.LoadPartial(ctx, studentID, def.ID); err == nil {
				entry.InProgress = true
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
