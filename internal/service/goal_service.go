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

// Goal errors.
var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalService handles study goal management. Every operation checks goal
// ownership so students cannot touch each other's goals.
type GoalService struct {
	goals *repository.GoalRepository
}

// NewGoalService creates a new GoalService.
func NewGoalService(goals *repository.GoalRepository) *GoalService {
	return &GoalService{goals: goals}
}

// Create adds a goal for the student.
func (s *GoalService) Create(ctx context.Context, studentID int, req *model.CreateGoalRequest) (*model.StudyGoal, error) {
	goal := &model.StudyGoal{
		StudentID:   studentID,
		Title:       req.Title,
		TargetExams: req.TargetExams,
		TargetScore: req.TargetScore,
		Deadline:    req.Deadline,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

// List returns the student's goals.
func (s *GoalService) List(ctx context.Context, studentID int) ([]model.StudyGoal, error) {
	return s.goals.ListByStudent(ctx, studentID)
}

// Update modifies a goal the student owns.
func (s *GoalService) Update(ctx context.Context, studentID int, id uuid.UUID, req *model.UpdateGoalRequest) (*model.StudyGoal, error) {
	goal, err := s.ownedGoal(ctx, studentID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		goal.Title = req.Title
	}
	if req.TargetExams != nil {
		goal.TargetExams = *req.TargetExams
	}
	if req.TargetScore != nil {
		goal.TargetScore = *req.TargetScore
	}
	if req.Deadline != nil {
		goal.Deadline = req.Deadline
	}
	if req.Completed != nil {
		goal.Completed = *req.Completed
	}

	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return goal, nil
}

// Delete removes a goal the student owns.
func (s *GoalService) Delete(ctx context.Context, studentID int, id uuid.UUID) error {
	if _, err := s.ownedGoal(ctx, studentID, id); err != nil {
		return err
	}
	return s.goals.Delete(ctx, id)
}

func (s *GoalService) ownedGoal(ctx context.Context, studentID int, id uuid.UUID) (*model.StudyGoal, error) {
	goal, err := s.goals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if goal.StudentID != studentID {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}
