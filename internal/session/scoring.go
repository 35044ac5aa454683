package session

import (
	"math"

	"github.com/prepyds/ydsprep-backend/internal/model"
)

// Tally is the outcome of grading one answer map against a question list.
// Correct+Wrong+Empty always equals Total.
type Tally struct {
	Correct int
	Wrong   int
	Empty   int
	Total   int
	Score   int
}

// Grade compares answers against each question's correct label. Matching is
// case-sensitive and exact; an absent or empty-string answer counts as empty,
// not wrong. Score is round(correct/total*100).
func Grade(questions []model.Question, answers map[string]string) Tally {
	t := Tally{Total: len(questions)}

	for _, q := range questions {
		a, ok := answers[q.ID]
		switch {
		case !ok || a == "":
			t.Empty++
		case a == q.CorrectAnswer:
			t.Correct++
		default:
			t.Wrong++
		}
	}

	if t.Total > 0 {
		t.Score = int(math.Round(float64(t.Correct) / float64(t.Total) * 100))
	}
	return t
}
