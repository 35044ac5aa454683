package content_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/rs/zerolog"
)

func writeContentDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const validCatalog = `{
  "yds-deneme-1": {
    "title": "YDS Deneme Sınavı 1",
    "duration_minutes": 60,
    "content_file": "yds-deneme-1.json"
  }
}`

const validQuestions = `{
  "questions": [
    {"id": "q1", "question": "first", "options": ["a", "b", "c", "d", "e"], "correctAnswer": "C"},
    {"id": "q2", "question": "second", "options": ["a", "b"], "correctAnswer": "A"}
  ]
}`

func TestLoadValidPack(t *testing.T) {
	dir := writeContentDir(t, map[string]string{
		"exams.json":        validCatalog,
		"yds-deneme-1.json": validQuestions,
	})

	l := content.NewLoader(dir, zerolog.Nop())
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	exams := l.ListExams()
	if len(exams) != 1 {
		t.Fatalf("exams = %d, want 1", len(exams))
	}
	// The catalog key supplies the id when the entry omits it.
	if exams[0].ID != "yds-deneme-1" {
		t.Fatalf("id = %q", exams[0].ID)
	}
	if exams[0].QuestionCount != 2 {
		t.Fatalf("question count = %d, want 2", exams[0].QuestionCount)
	}

	qs, err := l.Questions("yds-deneme-1")
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	// Ordinal position is the position in the file.
	if qs[0].OrderNum != 0 || qs[1].OrderNum != 1 {
		t.Fatalf("order nums = %d, %d", qs[0].OrderNum, qs[1].OrderNum)
	}
}

func TestLoadRejectsMismatchedID(t *testing.T) {
	dir := writeContentDir(t, map[string]string{
		"exams.json": `{"yds-deneme-1": {"id": "other", "title": "T", "duration_minutes": 60, "content_file": "q.json"}}`,
		"q.json":     validQuestions,
	})

	if err := content.NewLoader(dir, zerolog.Nop()).Load(); err == nil {
		t.Fatal("Load accepted a catalog key that does not match the entry id")
	}
}

func TestLoadRejectsBadCorrectAnswer(t *testing.T) {
	// Label C names the third option but the question only has two.
	dir := writeContentDir(t, map[string]string{
		"exams.json": validCatalog,
		"yds-deneme-1.json": `{"questions": [
			{"id": "q1", "question": "x", "options": ["a", "b"], "correctAnswer": "C"}
		]}`,
	})

	if err := content.NewLoader(dir, zerolog.Nop()).Load(); err == nil {
		t.Fatal("Load accepted a correctAnswer outside the option range")
	}
}

func TestLoadRejectsDuplicateQuestionIDs(t *testing.T) {
	dir := writeContentDir(t, map[string]string{
		"exams.json": validCatalog,
		"yds-deneme-1.json": `{"questions": [
			{"id": "q1", "question": "x", "options": ["a", "b"], "correctAnswer": "A"},
			{"id": "q1", "question": "y", "options": ["a", "b"], "correctAnswer": "B"}
		]}`,
	})

	if err := content.NewLoader(dir, zerolog.Nop()).Load(); err == nil {
		t.Fatal("Load accepted duplicate question ids")
	}
}

func TestLoadMissingContentFileFails(t *testing.T) {
	dir := writeContentDir(t, map[string]string{
		"exams.json": validCatalog,
	})

	if err := content.NewLoader(dir, zerolog.Nop()).Load(); err == nil {
		t.Fatal("Load accepted a catalog referencing a missing question file")
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	dir := writeContentDir(t, map[string]string{
		"exams.json":        validCatalog,
		"yds-deneme-1.json": validQuestions,
	})
	l := content.NewLoader(dir, zerolog.Nop())
	if err := l.Load(); err != nil {
		t.Fatal(err)
	}

	qs, _ := l.Questions("yds-deneme-1")
	qs[0].CorrectAnswer = "B"

	again, _ := l.Questions("yds-deneme-1")
	if again[0].CorrectAnswer != "C" {
		t.Fatal("caller mutation leaked into loaded content")
	}
}

func TestUnknownExam(t *testing.T) {
	dir := writeContentDir(t, map[string]string{
		"exams.json":        validCatalog,
		"yds-deneme-1.json": validQuestions,
	})
	l := content.NewLoader(dir, zerolog.Nop())
	if err := l.Load(); err != nil {
		t.Fatal(err)
	}

	if _, err := l.GetExam("missing"); !errors.Is(err, content.ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
	if _, err := l.Questions("missing"); !errors.Is(err, content.ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
}

func TestTopicsOptionalAndLessonLoads(t *testing.T) {
	dir := writeContentDir(t, map[string]string{
		"exams.json":        validCatalog,
		"yds-deneme-1.json": validQuestions,
	})
	l := content.NewLoader(dir, zerolog.Nop())
	if err := l.Load(); err != nil {
		t.Fatalf("Load without topics.json: %v", err)
	}
	if got := l.ListTopics(); len(got) != 0 {
		t.Fatalf("topics = %d, want 0", len(got))
	}

	dir = writeContentDir(t, map[string]string{
		"exams.json":        validCatalog,
		"yds-deneme-1.json": validQuestions,
		"topics.json": `[
			{"id": "connectors", "title": "Bağlaçlar", "category": "grammar", "order_num": 2, "lesson_file": "lessons/connectors.md"},
			{"id": "tenses", "title": "Zamanlar", "category": "grammar", "order_num": 1, "lesson_file": "lessons/tenses.md"}
		]`,
		"lessons/connectors.md": "# Bağlaçlar\n",
		"lessons/tenses.md":     "# Zamanlar\n",
	})
	l = content.NewLoader(dir, zerolog.Nop())
	if err := l.Load(); err != nil {
		t.Fatalf("Load with topics: %v", err)
	}

	topics := l.ListTopics()
	if len(topics) != 2 || topics[0].ID != "tenses" {
		t.Fatalf("topics order = %v", topics)
	}

	lesson, err := l.GetLesson("connectors")
	if err != nil {
		t.Fatalf("GetLesson: %v", err)
	}
	if lesson.Body != "# Bağlaçlar\n" {
		t.Fatalf("body = %q", lesson.Body)
	}

	if _, err := l.GetLesson("missing"); !errors.Is(err, content.ErrTopicNotFound) {
		t.Fatalf("err = %v, want ErrTopicNotFound", err)
	}
}
