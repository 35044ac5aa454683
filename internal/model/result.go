package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamResult is the immutable outcome of one submitted attempt. Created
// exactly once per submission and appended to the student's history,
// never updated.
type ExamResult struct {
	ID               uuid.UUID         `json:"id"`
	ExamID           string            `json:"exam_id"`
	ExamTitle        string            `json:"exam_title"`
	StudentID        int               `json:"student_id"`
	Correct          int               `json:"correct"`
	Wrong            int               `json:"wrong"`
	Empty            int               `json:"empty"`
	TotalQuestions   int               `json:"total_questions"`
	Score            int               `json:"score"`
	Answers          map[string]string `json:"answers"`
	TimeSpentSeconds int               `json:"time_spent_seconds"`
	AutoSubmitted    bool              `json:"auto_submitted"`
	StartedAt        time.Time         `json:"started_at"`
	CompletedAt      time.Time         `json:"completed_at"`
}

// ProgressStats aggregates a student's result history for the dashboard.
type ProgressStats struct {
	ExamsTaken   int        `json:"exams_taken"`
	AverageScore float64    `json:"average_score"`
	BestScore    int        `json:"best_score"`
	TotalCorrect int        `json:"total_correct"`
	TotalWrong   int        `json:"total_wrong"`
	TotalEmpty   int        `json:"total_empty"`
	LastExamAt   *time.Time `json:"last_exam_at,omitempty"`
}
