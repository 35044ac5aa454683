package model

import (
	"time"

	"github.com/google/uuid"
)

// TutorQuestionStatus enumerates the states of an ask-the-tutor thread.
type TutorQuestionStatus string

const (
	TutorQuestionOpen     TutorQuestionStatus = "OPEN"
	TutorQuestionAnswered TutorQuestionStatus = "ANSWERED"
)

// TutorQuestion is a student's question to the tutor, optionally tied to a topic.
type TutorQuestion struct {
	ID         uuid.UUID           `json:"id"`
	StudentID  int                 `json:"student_id"`
	Topic      string              `json:"topic,omitempty"`
	Question   string              `json:"question"`
	Answer     *string             `json:"answer,omitempty"`
	Status     TutorQuestionStatus `json:"status"`
	AnsweredAt *time.Time          `json:"answered_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Tutor is a staff account that answers student questions.
type Tutor struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TutorLoginRequest is the payload for tutor authentication.
type TutorLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// TutorLoginResponse is returned after successful tutor login.
type TutorLoginResponse struct {
	Token string `json:"token"`
	Tutor Tutor  `json:"tutor"`
}

// AskTutorRequest is the payload for submitting a question to the tutor.
type AskTutorRequest struct {
	Topic    string `json:"topic" binding:"omitempty,max=120"`
	Question string `json:"question" binding:"required,min=10,max=4000"`
}

// AnswerTutorRequest is the tutor's reply payload.
type AnswerTutorRequest struct {
	Answer string `json:"answer" binding:"required,min=1,max=8000"`
}
