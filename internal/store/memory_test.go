package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/store"
)

func TestPartialRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	saved := &model.PartialSession{
		Answers:       map[string]string{"q1": "A", "q5": "D"},
		TimeRemaining: 1234,
		LastUpdated:   time.Now().UTC().Truncate(time.Second),
	}
	if err := st.SavePartial(ctx, 1, "yds-deneme-1", saved); err != nil {
		t.Fatalf("SavePartial: %v", err)
	}

	loaded, err := st.LoadPartial(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("LoadPartial: %v", err)
	}
	if !reflect.DeepEqual(loaded.Answers, saved.Answers) {
		t.Fatalf("answers = %v, want %v", loaded.Answers, saved.Answers)
	}
	if loaded.TimeRemaining != saved.TimeRemaining {
		t.Fatalf("time = %d, want %d", loaded.TimeRemaining, saved.TimeRemaining)
	}
}

func TestPartialKeysAreScoped(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	p := &model.PartialSession{Answers: map[string]string{"q1": "A"}, TimeRemaining: 10}
	if err := st.SavePartial(ctx, 1, "yds-deneme-1", p); err != nil {
		t.Fatal(err)
	}

	// Same exam, different student.
	if _, err := st.LoadPartial(ctx, 2, "yds-deneme-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	// Same student, different exam.
	if _, err := st.LoadPartial(ctx, 1, "yokdil-saglik-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClearPartial(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	p := &model.PartialSession{Answers: map[string]string{}, TimeRemaining: 10}
	if err := st.SavePartial(ctx, 1, "yds-deneme-1", p); err != nil {
		t.Fatal(err)
	}
	if err := st.ClearPartial(ctx, 1, "yds-deneme-1"); err != nil {
		t.Fatalf("ClearPartial: %v", err)
	}
	if _, err := st.LoadPartial(ctx, 1, "yds-deneme-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after clear", err)
	}

	// Clearing an absent partial is not an error.
	if err := st.ClearPartial(ctx, 1, "yds-deneme-1"); err != nil {
		t.Fatalf("ClearPartial absent: %v", err)
	}
}

func TestMalformedPartial(t *testing.T) {
	st := store.NewMemoryStore()
	st.CorruptPartial(1, "yds-deneme-1")

	if _, err := st.LoadPartial(context.Background(), 1, "yds-deneme-1"); !errors.Is(err, store.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func newResult(examID string, score int) *model.ExamResult {
	return &model.ExamResult{
		ID:             uuid.New(),
		ExamID:         examID,
		ExamTitle:      "Test",
		StudentID:      1,
		Score:          score,
		TotalQuestions: 10,
		Answers:        map[string]string{},
		StartedAt:      time.Now().Add(-time.Hour),
		CompletedAt:    time.Now(),
	}
}

func TestResultsAppendInOrder(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	first := newResult("yds-deneme-1", 40)
	second := newResult("yds-deneme-1", 70)
	if err := st.AppendResult(ctx, 1, first); err != nil {
		t.Fatal(err)
	}
	if err := st.AppendResult(ctx, 1, second); err != nil {
		t.Fatal(err)
	}

	results, err := st.ListResults(ctx, 1)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].ID != first.ID || results[1].ID != second.ID {
		t.Fatal("results out of append order")
	}
}

func TestLatestResultScansBackwards(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	st.AppendResult(ctx, 1, newResult("yds-deneme-1", 40))
	st.AppendResult(ctx, 1, newResult("yokdil-saglik-1", 55))
	want := newResult("yds-deneme-1", 70)
	st.AppendResult(ctx, 1, want)

	got, err := st.LatestResult(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("LatestResult: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("latest = score %d, want the newest attempt", got.Score)
	}

	if _, err := st.LatestResult(ctx, 1, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
