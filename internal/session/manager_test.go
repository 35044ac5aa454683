package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/prepyds/ydsprep-backend/internal/session"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/rs/zerolog"
)

const testCatalog = `{
  "yds-deneme-1": {
    "id": "yds-deneme-1",
    "title": "YDS Deneme Sınavı 1",
    "duration_minutes": 1,
    "content_file": "yds-deneme-1.json"
  }
}`

const testQuestions = `{
  "questions": [
    {"id": "q1", "question": "first", "options": ["a", "b", "c"], "correctAnswer": "A"},
    {"id": "q2", "question": "second", "options": ["a", "b", "c"], "correctAnswer": "B"},
    {"id": "q3", "question": "third", "options": ["a", "b", "c"], "correctAnswer": "C"}
  ]
}`

func newTestLoader(t *testing.T) *content.Loader {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "exams.json"), []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "yds-deneme-1.json"), []byte(testQuestions), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := content.NewLoader(dir, zerolog.Nop())
	if err := loader.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return loader
}

func TestManagerOpenReturnsSameLiveSession(t *testing.T) {
	m := session.NewManager(newTestLoader(t), store.NewMemoryStore(), zerolog.Nop(), nil)
	ctx := context.Background()

	first, err := m.Open(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	second, err := m.Open(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if first != second {
		t.Fatal("reopen created a second session for the same (student, exam)")
	}

	// A different student gets a distinct session.
	other, err := m.Open(ctx, 2, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Open other student: %v", err)
	}
	if other == first {
		t.Fatal("sessions shared across students")
	}
}

func TestManagerOpenUnknownExam(t *testing.T) {
	m := session.NewManager(newTestLoader(t), store.NewMemoryStore(), zerolog.Nop(), nil)

	if _, err := m.Open(context.Background(), 1, "missing"); !errors.Is(err, content.ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
}

func TestManagerRestoresPartial(t *testing.T) {
	st := store.NewMemoryStore()
	m := session.NewManager(newTestLoader(t), st, zerolog.Nop(), nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sess.SelectAnswer("q1", "A")
	sess.SelectAnswer("q3", "C")

	// Simulate a reload: drop the live session, reopen from the store.
	m.Close(1, "yds-deneme-1")

	restored, err := m.Open(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if restored == sess {
		t.Fatal("closed session was reused")
	}

	view := restored.Snapshot()
	if view.Answers["q1"] != "A" || view.Answers["q3"] != "C" {
		t.Fatalf("restored answers = %v", view.Answers)
	}
}

func TestManagerDiscardsMalformedPartial(t *testing.T) {
	st := store.NewMemoryStore()
	m := session.NewManager(newTestLoader(t), st, zerolog.Nop(), nil)
	ctx := context.Background()

	st.CorruptPartial(1, "yds-deneme-1")

	sess, err := m.Open(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Open with corrupt partial: %v", err)
	}

	view := sess.Snapshot()
	if len(view.Answers) != 0 {
		t.Fatalf("answers restored from corrupt blob: %v", view.Answers)
	}
	if view.TimeRemaining != 60 {
		t.Fatalf("time = %d, want full duration", view.TimeRemaining)
	}

	// The corrupt blob is cleared, not left to fail every open.
	if _, err := st.LoadPartial(ctx, 1, "yds-deneme-1"); errors.Is(err, store.ErrMalformed) {
		t.Fatal("corrupt partial not cleared")
	}
}

func TestManagerRefusesCompletedExam(t *testing.T) {
	st := store.NewMemoryStore()
	m := session.NewManager(newTestLoader(t), st, zerolog.Nop(), nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := sess.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := m.Open(ctx, 1, "yds-deneme-1"); !errors.Is(err, session.ErrExamCompleted) {
		t.Fatalf("err = %v, want ErrExamCompleted", err)
	}
}

func TestManagerCloseKeepsPartial(t *testing.T) {
	st := store.NewMemoryStore()
	m := session.NewManager(newTestLoader(t), st, zerolog.Nop(), nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sess.SelectAnswer("q2", "B")

	m.Close(1, "yds-deneme-1")

	if _, ok := m.Get(1, "yds-deneme-1"); ok {
		t.Fatal("session still live after Close")
	}
	if _, err := st.LoadPartial(ctx, 1, "yds-deneme-1"); err != nil {
		t.Fatalf("partial lost on Close: %v", err)
	}
}
