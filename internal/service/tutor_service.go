package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/repository"
)

// Tutor errors.
var (
	ErrTutorQuestionNotFound = errors.New("tutor question not found")
	ErrQuestionClosed        = errors.New("question already answered")
)

// TutorService handles the ask-the-tutor flow on both sides: students
// submitting questions and tutors answering them.
type TutorService struct {
	tutors    *repository.TutorRepository
	questions *repository.TutorQuestionRepository
	auth      *AuthService
}

// NewTutorService creates a new TutorService.
func NewTutorService(tutors *repository.TutorRepository, questions *repository.TutorQuestionRepository, auth *AuthService) *TutorService {
	return &TutorService{tutors: tutors, questions: questions, auth: auth}
}

// Login verifies tutor credentials and issues a token.
func (s *TutorService) Login(ctx context.Context, req *model.TutorLoginRequest) (*model.TutorLoginResponse, error) {
	tutor, err := s.tutors.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup tutor: %w", err)
	}

	if err := s.auth.CheckPassword(tutor.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateTutorToken(tutor.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &model.TutorLoginResponse{Token: token, Tutor: *tutor}, nil
}

// Ask submits a student question to the tutor inbox.
func (s *TutorService) Ask(ctx context.Context, studentID int, req *model.AskTutorRequest) (*model.TutorQuestion, error) {
	q := &model.TutorQuestion{
		StudentID: studentID,
		Topic:     req.Topic,
		Question:  req.Question,
		Status:    model.TutorQuestionOpen,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// MyQuestions returns the student's own questions, newest first.
func (s *TutorService) MyQuestions(ctx context.Context, studentID int) ([]model.TutorQuestion, error) {
	return s.questions.ListByStudent(ctx, studentID)
}

// Inbox returns all open questions, oldest first.
func (s *TutorService) Inbox(ctx context.Context) ([]model.TutorQuestion, error) {
	return s.questions.ListOpen(ctx)
}

// Answer records the tutor's reply and closes the question.
func (s *TutorService) Answer(ctx context.Context, id uuid.UUID, req *model.AnswerTutorRequest) (*model.TutorQuestion, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTutorQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}
	if q.Status == model.TutorQuestionAnswered {
		return nil, ErrQuestionClosed
	}

	if err := s.questions.Answer(ctx, id, req.Answer); err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}
	return s.questions.GetByID(ctx, id)
}
