package model

import "time"

// PartialSession is the persisted subset of an in-progress attempt, enough to
// survive a reload before submission. Key layout: exam_session_<user>_<exam>.
// The field names are the stored wire format — do not rename.
type PartialSession struct {
	Answers       map[string]string `json:"answers"`
	TimeRemaining int               `json:"timeRemaining"`
	LastUpdated   time.Time         `json:"lastUpdated"`
}

// AnswerRequest selects a choice for one question.
type AnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required,max=64"`
	Label      string `json:"label" binding:"required,oneof=A B C D E"`
}

// FlagRequest toggles the review flag on one question.
type FlagRequest struct {
	QuestionID string `json:"question_id" binding:"required,max=64"`
}

// NavigateRequest moves the current question pointer. Exactly one of Delta or
// Index is expected; out-of-range targets are clamped, not rejected.
type NavigateRequest struct {
	Delta *int `json:"delta" binding:"omitempty"`
	Index *int `json:"index" binding:"omitempty"`
}
