package model

import (
	"time"

	"github.com/google/uuid"
)

// StudyGoal is a student-defined target tracked on the dashboard.
type StudyGoal struct {
	ID          uuid.UUID  `json:"id"`
	StudentID   int        `json:"student_id"`
	Title       string     `json:"title"`
	TargetExams int        `json:"target_exams"`
	TargetScore int        `json:"target_score"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateGoalRequest is the payload for creating a study goal.
type CreateGoalRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	TargetExams int        `json:"target_exams" binding:"min=0,max=1000"`
	TargetScore int        `json:"target_score" binding:"min=0,max=100"`
	Deadline    *time.Time `json:"deadline" binding:"omitempty"`
}

// UpdateGoalRequest marks a goal completed or adjusts its targets.
type UpdateGoalRequest struct {
	Title       string     `json:"title" binding:"omitempty,min=3,max=200"`
	TargetExams *int       `json:"target_exams" binding:"omitempty,min=0,max=1000"`
	TargetScore *int       `json:"target_score" binding:"omitempty,min=0,max=100"`
	Deadline    *time.Time `json:"deadline" binding:"omitempty"`
	Completed   *bool      `json:"completed" binding:"omitempty"`
}
