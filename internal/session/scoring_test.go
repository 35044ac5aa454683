package session_test

import (
	"fmt"
	"testing"

	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/session"
)

func makeQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			Text:          fmt.Sprintf("question %d", i+1),
			Options:       []string{"opt a", "opt b", "opt c", "opt d", "opt e"},
			CorrectAnswer: "A",
			OrderNum:      i,
		}
	}
	return qs
}

func TestGradeCounts(t *testing.T) {
	qs := makeQuestions(10)

	// 7 correct, 2 wrong, 1 left empty.
	answers := map[string]string{}
	for i := 0; i < 7; i++ {
		answers[qs[i].ID] = "A"
	}
	answers[qs[7].ID] = "B"
	answers[qs[8].ID] = "C"

	tally := session.Grade(qs, answers)

	if tally.Correct != 7 || tally.Wrong != 2 || tally.Empty != 1 {
		t.Fatalf("tally = %+v, want 7/2/1", tally)
	}
	if tally.Score != 70 {
		t.Fatalf("score = %d, want 70", tally.Score)
	}
	if tally.Correct+tally.Wrong+tally.Empty != tally.Total {
		t.Fatalf("counts do not sum to total: %+v", tally)
	}
}

func TestGradeEmptyStringIsEmptyNotWrong(t *testing.T) {
	qs := makeQuestions(2)
	tally := session.Grade(qs, map[string]string{qs[0].ID: ""})

	if tally.Empty != 2 || tally.Wrong != 0 {
		t.Fatalf("tally = %+v, want 2 empty 0 wrong", tally)
	}
}

func TestGradeCaseSensitive(t *testing.T) {
	qs := makeQuestions(1)
	tally := session.Grade(qs, map[string]string{qs[0].ID: "a"})

	if tally.Correct != 0 || tally.Wrong != 1 {
		t.Fatalf("lowercase label graded as correct: %+v", tally)
	}
}

func TestGradeScoreRounding(t *testing.T) {
	qs := makeQuestions(3)
	// 2/3 = 66.67 rounds to 67.
	tally := session.Grade(qs, map[string]string{qs[0].ID: "A", qs[1].ID: "A"})

	if tally.Score != 67 {
		t.Fatalf("score = %d, want 67", tally.Score)
	}
}

func TestGradeNoQuestions(t *testing.T) {
	tally := session.Grade(nil, nil)
	if tally.Score != 0 || tally.Total != 0 {
		t.Fatalf("tally = %+v, want zero value", tally)
	}
}
