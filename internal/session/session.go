package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/rs/zerolog"
)

// Phase enumerates the session lifecycle states.
type Phase string

const (
	PhaseActive     Phase = "ACTIVE"
	PhaseReview     Phase = "REVIEW"
	PhaseSubmitting Phase = "SUBMITTING"
	PhaseSubmitted  Phase = "SUBMITTED"
)

// Domain errors.
var (
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrQuestionNotFound = errors.New("question not in this exam")
)

// partialSaveInterval controls how often the countdown alone refreshes the
// persisted partial. Answer selections always save immediately.
const partialSaveInterval = 15

// Session is the mutable aggregate for one attempt at one exam by one
// student. Every transition serializes through mu, so the 1 Hz ticker and
// user actions never interleave mid-update; the submit latch is checked and
// set under the same lock, which closes the tick-vs-manual-submit race.
//
// Partial-state writes are best-effort: a failed save is logged and
// swallowed, the in-memory session continues, and a later reload may lose
// unsaved progress. That trade-off is the store's documented contract.
type Session struct {
	mu sync.Mutex

	exam      *model.ExamDefinition
	questions []model.Question
	byID      map[string]*model.Question
	studentID int

	phase          Phase
	answers        map[string]string
	flagged        map[string]struct{}
	timeRemaining  int
	currentIndex   int
	startedAt      time.Time
	ticksSinceSave int

	// autoFired latches the timer-forced submit: even if the auto attempt
	// fails to persist, the timer never fires a second one.
	autoFired bool

	result *model.ExamResult

	partials store.PartialStore
	results  store.ResultStore
	onResult func(*model.ExamResult)
	log      zerolog.Logger
}

// Options configures a new Session.
type Options struct {
	Exam      *model.ExamDefinition
	Questions []model.Question
	StudentID int
	Store     store.Store
	Log       zerolog.Logger
	// OnResult is invoked after a successful submit, outside the state
	// mutation but still under the session lock's ordering.
	OnResult func(*model.ExamResult)
	// RestoredAnswers and RestoredTime come from a saved partial. Unknown
	// question ids are dropped; the time is clamped to [0, duration].
	RestoredAnswers map[string]string
	RestoredTime    *int
}

// New creates an Active session, applying any restored partial state.
func New(opts Options) *Session {
	total := opts.Exam.DurationMinutes * 60

	s := &Session{
		exam:          opts.Exam,
		questions:     opts.Questions,
		byID:          make(map[string]*model.Question, len(opts.Questions)),
		studentID:     opts.StudentID,
		phase:         PhaseActive,
		answers:       make(map[string]string, len(opts.Questions)),
		flagged:       make(map[string]struct{}),
		timeRemaining: total,
		startedAt:     time.Now(),
		partials:      opts.Store,
		results:       opts.Store,
		onResult:      opts.OnResult,
		log: opts.Log.With().
			Str("component", "exam_session").
			Int("student_id", opts.StudentID).
			Str("exam_id", opts.Exam.ID).
			Logger(),
	}

	for i := range s.questions {
		q := &s.questions[i]
		s.byID[q.ID] = q
	}

	for qid, label := range opts.RestoredAnswers {
		if _, known := s.byID[qid]; known {
			s.answers[qid] = label
		}
	}
	if opts.RestoredTime != nil {
		t := *opts.RestoredTime
		if t < 0 {
			t = 0
		}
		if t > total {
			t = total
		}
		s.timeRemaining = t
	}

	return s
}

// SelectAnswer records a choice for a question, overwriting any prior choice.
// In Review it is a silent no-op: review is read-only by intent, not an
// error. The full updated answer map is persisted without awaiting the store.
func (s *Session) SelectAnswer(questionID, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseReview:
		return nil
	case PhaseSubmitting, PhaseSubmitted:
		return ErrAlreadySubmitted
	}

	if _, ok := s.byID[questionID]; !ok {
		return ErrQuestionNotFound
	}

	s.answers[questionID] = label
	s.savePartialLocked()
	return nil
}

// ToggleFlag flips the review flag on a question. Flags live only in memory;
// they carry no scoring weight and are lost on reload.
func (s *Session) ToggleFlag(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseSubmitting || s.phase == PhaseSubmitted {
		return ErrAlreadySubmitted
	}
	if _, ok := s.byID[questionID]; !ok {
		return ErrQuestionNotFound
	}

	if _, on := s.flagged[questionID]; on {
		delete(s.flagged, questionID)
	} else {
		s.flagged[questionID] = struct{}{}
	}
	return nil
}

// Navigate moves the current question pointer by delta, clamped to the
// question range. Out-of-range requests are clamped, never rejected.
func (s *Session) Navigate(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToLocked(s.currentIndex + delta)
}

// GoTo jumps to an absolute index, clamped to the question range.
func (s *Session) GoTo(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToLocked(index)
}

func (s *Session) goToLocked(index int) int {
	if index < 0 {
		index = 0
	}
	if max := len(s.questions) - 1; index > max {
		index = max
	}
	s.currentIndex = index
	return index
}

// EnterReview switches to read-only review and pauses the countdown.
// Answers and flags are untouched.
func (s *Session) EnterReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseActive:
		s.phase = PhaseReview
		return nil
	case PhaseReview:
		return nil
	default:
		return ErrAlreadySubmitted
	}
}

// ExitReview resumes the Active phase and the countdown.
func (s *Session) ExitReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseReview:
		s.phase = PhaseActive
		return nil
	case PhaseActive:
		return nil
	default:
		return ErrAlreadySubmitted
	}
}

// Tick advances the countdown by one second. The counter never goes below
// zero; reaching zero forces a submit exactly once. In Review the timer is
// paused and Tick is a no-op. Returns the result when this tick auto-submitted.
func (s *Session) Tick() *model.ExamResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return nil
	}

	if s.timeRemaining > 0 {
		s.timeRemaining--
		s.ticksSinceSave++
		if s.ticksSinceSave >= partialSaveInterval {
			s.savePartialLocked()
		}
	}

	if s.timeRemaining == 0 && !s.autoFired {
		s.autoFired = true
		result, err := s.submitLocked(true)
		if err != nil {
			// The attempt stays open for a manual retry; the latch above
			// keeps the timer from firing again.
			s.log.Error().Err(err).Msg("Auto-submit failed")
			return nil
		}
		return result
	}

	return nil
}

// Submit grades the attempt and finalizes the session. Idempotent: a second
// call (double tap, or a manual submit racing the timer) returns
// ErrAlreadySubmitted without re-grading.
func (s *Session) Submit() (*model.ExamResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(false)
}

func (s *Session) submitLocked(auto bool) (*model.ExamResult, error) {
	if s.phase == PhaseSubmitting || s.phase == PhaseSubmitted {
		return nil, ErrAlreadySubmitted
	}
	prev := s.phase
	s.phase = PhaseSubmitting

	tally := Grade(s.questions, s.answers)

	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	result := &model.ExamResult{
		ID:               uuid.New(),
		ExamID:           s.exam.ID,
		ExamTitle:        s.exam.Title,
		StudentID:        s.studentID,
		Correct:          tally.Correct,
		Wrong:            tally.Wrong,
		Empty:            tally.Empty,
		TotalQuestions:   tally.Total,
		Score:            tally.Score,
		Answers:          answers,
		TimeSpentSeconds: s.exam.DurationMinutes*60 - s.timeRemaining,
		AutoSubmitted:    auto,
		StartedAt:        s.startedAt,
		CompletedAt:      time.Now(),
	}

	ctx := context.Background()
	if err := s.results.AppendResult(ctx, s.studentID, result); err != nil {
		// Re-enable submission: the attempt is not lost, the student (or the
		// next manual retry after an auto-submit failure) can submit again.
		s.phase = prev
		return nil, fmt.Errorf("append result: %w", err)
	}

	if err := s.partials.ClearPartial(ctx, s.studentID, s.exam.ID); err != nil {
		// Stale partials are harmless: the completed result now wins on the
		// next session open.
		s.log.Warn().Err(err).Msg("Clear partial failed")
	}

	s.result = result
	s.phase = PhaseSubmitted

	s.log.Info().
		Int("score", result.Score).
		Int("correct", result.Correct).
		Int("wrong", result.Wrong).
		Int("empty", result.Empty).
		Bool("auto", auto).
		Msg("Exam submitted")

	if s.onResult != nil {
		s.onResult(result)
	}
	return result, nil
}

// savePartialLocked persists the current answers and countdown without
// blocking the caller on failure.
func (s *Session) savePartialLocked() {
	s.ticksSinceSave = 0

	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	p := &model.PartialSession{
		Answers:       answers,
		TimeRemaining: s.timeRemaining,
		LastUpdated:   time.Now(),
	}

	if err := s.partials.SavePartial(context.Background(), s.studentID, s.exam.ID, p); err != nil {
		s.log.Warn().Err(err).Msg("Partial save failed")
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Result returns the submitted result, or nil before submission.
func (s *Session) Result() *model.ExamResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// View is a consistent snapshot of session state for transport.
type View struct {
	ExamID        string            `json:"exam_id"`
	ExamTitle     string            `json:"exam_title"`
	Phase         Phase             `json:"phase"`
	CurrentIndex  int               `json:"current_index"`
	TimeRemaining int               `json:"time_remaining"`
	QuestionCount int               `json:"question_count"`
	AnsweredCount int               `json:"answered_count"`
	Answers       map[string]string `json:"answers"`
	Flagged       []string          `json:"flagged"`
}

// Snapshot copies the session state under the lock.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	flagged := make([]string, 0, len(s.flagged))
	for qid := range s.flagged {
		flagged = append(flagged, qid)
	}
	sort.Strings(flagged)

	return View{
		ExamID:        s.exam.ID,
		ExamTitle:     s.exam.Title,
		Phase:         s.phase,
		CurrentIndex:  s.currentIndex,
		TimeRemaining: s.timeRemaining,
		QuestionCount: len(s.questions),
		AnsweredCount: len(s.answers),
		Answers:       answers,
		Flagged:       flagged,
	}
}
