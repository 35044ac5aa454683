package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/prepyds/ydsprep-backend/internal/service"
	"github.com/prepyds/ydsprep-backend/internal/session"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/rs/zerolog"
)

const testCatalog = `{
  "yds-deneme-1": {
    "title": "YDS Deneme Sınavı 1",
    "duration_minutes": 1,
    "content_file": "yds-deneme-1.json"
  },
  "yokdil-saglik-1": {
    "title": "YÖKDİL Sağlık Deneme Sınavı 1",
    "duration_minutes": 1,
    "content_file": "yokdil-saglik-1.json"
  }
}`

const testQuestions = `{
  "questions": [
    {"id": "q1", "question": "first", "options": ["a", "b", "c"], "correctAnswer": "A", "explanation": "because"},
    {"id": "q2", "question": "second", "options": ["a", "b", "c"], "correctAnswer": "B"}
  ]
}`

func newService(t *testing.T) *service.SessionService {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"exams.json":           testCatalog,
		"yds-deneme-1.json":    testQuestions,
		"yokdil-saglik-1.json": testQuestions,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	loader := content.NewLoader(dir, zerolog.Nop())
	if err := loader.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// nil redis client: demo mode, results live in the memory store only.
	return service.NewSessionService(loader, store.NewMemoryStore(), nil, zerolog.Nop())
}

func TestStartAnswerSubmitFlow(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	view, prior, err := svc.Start(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if prior != nil {
		t.Fatal("fresh start returned a prior result")
	}
	if view.Phase != session.PhaseActive || view.QuestionCount != 2 {
		t.Fatalf("view = %+v", view)
	}

	if _, err := svc.Answer(1, "yds-deneme-1", "q1", "A"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, err := svc.Answer(1, "yds-deneme-1", "q2", "C"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	result, err := svc.Submit(1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Correct != 1 || result.Wrong != 1 || result.Score != 50 {
		t.Fatalf("result = %+v", result)
	}
}

func TestStartCompletedExamRedirects(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Start(ctx, 1, "yds-deneme-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	submitted, err := svc.Submit(1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, prior, err := svc.Start(ctx, 1, "yds-deneme-1")
	if !errors.Is(err, session.ErrExamCompleted) {
		t.Fatalf("err = %v, want ErrExamCompleted", err)
	}
	if prior == nil || prior.ID != submitted.ID {
		t.Fatal("completed start did not carry the existing result")
	}
}

func TestActionsWithoutSession(t *testing.T) {
	svc := newService(t)

	if _, err := svc.Answer(1, "yds-deneme-1", "q1", "A"); !errors.Is(err, service.ErrNoActiveSession) {
		t.Fatalf("Answer err = %v, want ErrNoActiveSession", err)
	}
	if _, err := svc.State(1, "yds-deneme-1"); !errors.Is(err, service.ErrNoActiveSession) {
		t.Fatalf("State err = %v, want ErrNoActiveSession", err)
	}
	if _, err := svc.Paper(1, "yds-deneme-1"); !errors.Is(err, service.ErrNoActiveSession) {
		t.Fatalf("Paper err = %v, want ErrNoActiveSession", err)
	}
	if _, err := svc.Submit(1, "yds-deneme-1"); !errors.Is(err, service.ErrNoActiveSession) {
		t.Fatalf("Submit err = %v, want ErrNoActiveSession", err)
	}
}

func TestPaperStripsGradingFields(t *testing.T) {
	svc := newService(t)
	if _, _, err := svc.Start(context.Background(), 1, "yds-deneme-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	questions, err := svc.Paper(1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("Paper: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}
	// QuestionForStudent carries no correct answer or explanation by type;
	// spot-check the visible fields survived.
	if questions[0].ID != "q1" || len(questions[0].Options) != 3 {
		t.Fatalf("paper question = %+v", questions[0])
	}
}

func TestAnswerSheetAfterCompletion(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Start(ctx, 1, "yds-deneme-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	svc.Answer(1, "yds-deneme-1", "q1", "A")
	svc.Answer(1, "yds-deneme-1", "q2", "C")
	if _, err := svc.Submit(1, "yds-deneme-1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result, sheet, err := svc.AnswerSheet(ctx, 1, "yds-deneme-1")
	if err != nil {
		t.Fatalf("AnswerSheet: %v", err)
	}
	if result.Score != 50 {
		t.Fatalf("score = %d", result.Score)
	}
	if len(sheet) != 2 {
		t.Fatalf("sheet = %d entries", len(sheet))
	}
	if !sheet[0].IsCorrect || sheet[1].IsCorrect {
		t.Fatalf("sheet grading = %+v", sheet)
	}
	if sheet[0].Question.Explanation != "because" {
		t.Fatal("sheet lost the explanation")
	}

	// No sheet before any completion.
	if _, _, err := svc.AnswerSheet(ctx, 2, "yds-deneme-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExamListOverlay(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Start(ctx, 1, "yds-deneme-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Submit(1, "yds-deneme-1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, _, err := svc.Start(ctx, 1, "yokdil-saglik-1"); err != nil {
		t.Fatalf("Start second exam: %v", err)
	}

	exams, err := svc.ExamList(ctx, 1)
	if err != nil {
		t.Fatalf("ExamList: %v", err)
	}
	if len(exams) != 2 {
		t.Fatalf("exams = %d, want 2", len(exams))
	}

	byID := map[string]int{}
	for i, e := range exams {
		byID[e.ID] = i
	}

	done := exams[byID["yds-deneme-1"]]
	if !done.Completed || done.BestScore == nil {
		t.Fatalf("completed exam overlay = %+v", done)
	}
	open := exams[byID["yokdil-saglik-1"]]
	if !open.InProgress || open.Completed {
		t.Fatalf("in-progress exam overlay = %+v", open)
	}
}
