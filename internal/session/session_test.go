package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/session"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/rs/zerolog"
)

func newTestSession(t *testing.T, st store.Store, questions int) *session.Session {
	t.Helper()
	return session.New(session.Options{
		Exam: &model.ExamDefinition{
			ID:              "yds-deneme-1",
			Title:           "YDS Deneme Sınavı 1",
			DurationMinutes: 1,
			QuestionCount:   questions,
		},
		Questions: makeQuestions(questions),
		StudentID: 7,
		Store:     st,
		Log:       zerolog.Nop(),
	})
}

func TestSelectAnswerOverwrites(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestSession(t, st, 3)

	if err := s.SelectAnswer("q1", "A"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := s.SelectAnswer("q1", "C"); err != nil {
		t.Fatalf("SelectAnswer overwrite: %v", err)
	}

	view := s.Snapshot()
	if view.Answers["q1"] != "C" {
		t.Fatalf("answer = %q, want C", view.Answers["q1"])
	}
	if view.AnsweredCount != 1 {
		t.Fatalf("answered count = %d, want 1", view.AnsweredCount)
	}
}

func TestSelectAnswerUnknownQuestion(t *testing.T) {
	s := newTestSession(t, store.NewMemoryStore(), 3)

	if err := s.SelectAnswer("nope", "A"); !errors.Is(err, session.ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestSelectAnswerSavesPartial(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestSession(t, st, 3)

	if err := s.SelectAnswer("q2", "B"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}

	p, err := st.LoadPartial(context.Background(), 7, "yds-deneme-1")
	if err != nil {
		t.Fatalf("LoadPartial: %v", err)
	}
	if p.Answers["q2"] != "B" {
		t.Fatalf("persisted answers = %v, want q2=B", p.Answers)
	}
}

func TestReviewIsReadOnlyNoOp(t *testing.T) {
	s := newTestSession(t, store.NewMemoryStore(), 3)

	if err := s.SelectAnswer("q1", "A"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := s.EnterReview(); err != nil {
		t.Fatalf("EnterReview: %v", err)
	}

	// Answer attempts in review are accepted but ignored.
	if err := s.SelectAnswer("q1", "D"); err != nil {
		t.Fatalf("SelectAnswer in review: %v", err)
	}
	if got := s.Snapshot().Answers["q1"]; got != "A" {
		t.Fatalf("answer changed in review: %q", got)
	}

	// The countdown pauses in review.
	before := s.Snapshot().TimeRemaining
	s.Tick()
	if after := s.Snapshot().TimeRemaining; after != before {
		t.Fatalf("timer ran in review: %d -> %d", before, after)
	}

	if err := s.ExitReview(); err != nil {
		t.Fatalf("ExitReview: %v", err)
	}
	s.Tick()
	if after := s.Snapshot().TimeRemaining; after != before-1 {
		t.Fatalf("timer did not resume: %d -> %d", before, after)
	}
}

func TestToggleFlag(t *testing.T) {
	s := newTestSession(t, store.NewMemoryStore(), 3)

	if err := s.ToggleFlag("q2"); err != nil {
		t.Fatalf("ToggleFlag: %v", err)
	}
	if got := s.Snapshot().Flagged; len(got) != 1 || got[0] != "q2" {
		t.Fatalf("flagged = %v, want [q2]", got)
	}

	if err := s.ToggleFlag("q2"); err != nil {
		t.Fatalf("ToggleFlag off: %v", err)
	}
	if got := s.Snapshot().Flagged; len(got) != 0 {
		t.Fatalf("flagged = %v, want empty", got)
	}
}

func TestNavigateClamps(t *testing.T) {
	s := newTestSession(t, store.NewMemoryStore(), 10)

	if idx := s.Navigate(-5); idx != 0 {
		t.Fatalf("Navigate(-5) = %d, want 0", idx)
	}
	if idx := s.GoTo(999); idx != 9 {
		t.Fatalf("GoTo(999) = %d, want 9", idx)
	}
	if idx := s.Navigate(-3); idx != 6 {
		t.Fatalf("Navigate(-3) from 9 = %d, want 6", idx)
	}
}

func TestTickFloorsAtZeroAndAutoSubmitsOnce(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestSession(t, st, 3)
	s.SelectAnswer("q1", "A")

	var result *model.ExamResult
	fired := 0
	for i := 0; i < 60+3; i++ { // 3 extra stale ticks past zero
		if r := s.Tick(); r != nil {
			result = r
			fired++
		}
	}

	if fired != 1 {
		t.Fatalf("auto-submit fired %d times, want exactly 1", fired)
	}
	if result.AutoSubmitted != true {
		t.Fatal("result not marked auto-submitted")
	}
	if view := s.Snapshot(); view.TimeRemaining != 0 {
		t.Fatalf("time remaining = %d, want 0", view.TimeRemaining)
	}
	if s.Phase() != session.PhaseSubmitted {
		t.Fatalf("phase = %s, want SUBMITTED", s.Phase())
	}

	results, _ := st.ListResults(context.Background(), 7)
	if len(results) != 1 {
		t.Fatalf("stored results = %d, want 1", len(results))
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestSession(t, st, 3)
	s.SelectAnswer("q1", "A")

	first, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := s.Submit(); !errors.Is(err, session.ErrAlreadySubmitted) {
		t.Fatalf("second Submit err = %v, want ErrAlreadySubmitted", err)
	}

	results, _ := st.ListResults(context.Background(), 7)
	if len(results) != 1 {
		t.Fatalf("stored results = %d, want 1", len(results))
	}
	if s.Result().ID != first.ID {
		t.Fatal("Result() does not match the submitted result")
	}
}

func TestSubmitClearsPartial(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestSession(t, st, 3)
	s.SelectAnswer("q1", "A")

	if _, err := s.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := st.LoadPartial(context.Background(), 7, "yds-deneme-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("partial still present after submit: %v", err)
	}
}

func TestSubmitScenario(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestSession(t, st, 10)

	for i := 1; i <= 7; i++ {
		s.SelectAnswer(makeQuestions(10)[i-1].ID, "A")
	}
	s.SelectAnswer("q8", "B")
	s.SelectAnswer("q9", "E")

	result, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.Correct != 7 || result.Wrong != 2 || result.Empty != 1 {
		t.Fatalf("result = %d/%d/%d, want 7/2/1", result.Correct, result.Wrong, result.Empty)
	}
	if result.Score != 70 {
		t.Fatalf("score = %d, want 70", result.Score)
	}
	if result.AutoSubmitted {
		t.Fatal("manual submit marked auto-submitted")
	}
}

// failingStore wraps a MemoryStore and refuses to append results.
type failingStore struct {
	*store.MemoryStore
	fail bool
}

func (f *failingStore) AppendResult(ctx context.Context, studentID int, r *model.ExamResult) error {
	if f.fail {
		return errors.New("append refused")
	}
	return f.MemoryStore.AppendResult(ctx, studentID, r)
}

func TestSubmitFailureLeavesAttemptOpen(t *testing.T) {
	st := &failingStore{MemoryStore: store.NewMemoryStore(), fail: true}
	s := newTestSession(t, st, 3)
	s.SelectAnswer("q1", "A")

	if _, err := s.Submit(); err == nil {
		t.Fatal("Submit succeeded against a failing store")
	}
	if s.Phase() != session.PhaseActive {
		t.Fatalf("phase = %s after failed submit, want ACTIVE", s.Phase())
	}

	// Recovered store: the retry lands.
	st.fail = false
	result, err := s.Submit()
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if result == nil {
		t.Fatal("retry returned nil result")
	}
}

func TestAutoSubmitFailureAllowsManualRetry(t *testing.T) {
	st := &failingStore{MemoryStore: store.NewMemoryStore(), fail: true}
	s := newTestSession(t, st, 3)

	var auto *model.ExamResult
	for i := 0; i < 65; i++ {
		if r := s.Tick(); r != nil {
			auto = r
		}
	}
	if auto != nil {
		t.Fatal("auto-submit reported success against a failing store")
	}
	if s.Phase() != session.PhaseActive {
		t.Fatalf("phase = %s, want ACTIVE for manual retry", s.Phase())
	}

	st.fail = false
	if _, err := s.Submit(); err != nil {
		t.Fatalf("manual retry after failed auto-submit: %v", err)
	}
}

func TestRestoreClampsTimeAndDropsUnknownAnswers(t *testing.T) {
	tooMuch := 9999
	s := session.New(session.Options{
		Exam: &model.ExamDefinition{
			ID:              "yds-deneme-1",
			Title:           "YDS Deneme Sınavı 1",
			DurationMinutes: 1,
		},
		Questions: makeQuestions(3),
		StudentID: 7,
		Store:     store.NewMemoryStore(),
		Log:       zerolog.Nop(),
		RestoredAnswers: map[string]string{
			"q1":      "B",
			"removed": "A", // question no longer in the exam
		},
		RestoredTime: &tooMuch,
	})

	view := s.Snapshot()
	if view.TimeRemaining != 60 {
		t.Fatalf("restored time = %d, want clamp to 60", view.TimeRemaining)
	}
	if _, ok := view.Answers["removed"]; ok {
		t.Fatal("unknown restored answer kept")
	}
	if view.Answers["q1"] != "B" {
		t.Fatalf("restored answer lost: %v", view.Answers)
	}
}

func TestOnResultHookFires(t *testing.T) {
	var got *model.ExamResult
	s := session.New(session.Options{
		Exam:      &model.ExamDefinition{ID: "e", Title: "E", DurationMinutes: 1},
		Questions: makeQuestions(2),
		StudentID: 7,
		Store:     store.NewMemoryStore(),
		Log:       zerolog.Nop(),
		OnResult:  func(r *model.ExamResult) { got = r },
	})

	result, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got == nil || got.ID != result.ID {
		t.Fatal("onResult hook did not receive the submitted result")
	}
}
