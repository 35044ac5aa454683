package model

import "time"

// ExamTrack is the proficiency exam a student is preparing for.
type ExamTrack string

const (
	TrackYDS    ExamTrack = "YDS"
	TrackYOKDIL ExamTrack = "YOKDIL"
)

// Student represents a student user.
type Student struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Track        ExamTrack `json:"track"`
	TargetScore  int       `json:"target_score"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}

// CreateStudentRequest is the payload for creating a new student account.
type CreateStudentRequest struct {
	Email       string    `json:"email" binding:"required,email"`
	Name        string    `json:"name" binding:"required,min=2,max=100"`
	Track       ExamTrack `json:"track" binding:"required,oneof=YDS YOKDIL"`
	TargetScore int       `json:"target_score" binding:"min=0,max=100"`
	Password    string    `json:"password" binding:"required,min=6,max=128"`
}
