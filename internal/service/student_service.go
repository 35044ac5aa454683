package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/repository"
)

// ErrEmailTaken means the registration email already has an account.
var ErrEmailTaken = errors.New("email already registered")

// StudentService handles student account management.
type StudentService struct {
	students *repository.StudentRepository
	auth     *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(students *repository.StudentRepository, auth *AuthService) *StudentService {
	return &StudentService{students: students, auth: auth}
}

// Register creates a new student account.
func (s *StudentService) Register(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	if _, err := s.students.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Email:        req.Email,
		Name:         req.Name,
		Track:        req.Track,
		TargetScore:  req.TargetScore,
		PasswordHash: hash,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// Login verifies credentials and issues a token. A successful login
// supersedes any existing login session on another device.
func (s *StudentService) Login(ctx context.Context, req *model.StudentLoginRequest) (*model.StudentLoginResponse, error) {
	student, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}

	if err := s.auth.CheckPassword(student.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateStudentToken(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &model.StudentLoginResponse{Token: token, Student: *student}, nil
}

// Get retrieves one student account.
func (s *StudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	return s.students.GetByID(ctx, id)
}
