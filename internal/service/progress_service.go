package service

import (
	"context"
	"fmt"

	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/repository"
)

// ProgressOverview is the dashboard payload: aggregate stats, the latest
// attempts and goal progress in one response.
type ProgressOverview struct {
	Stats         model.ProgressStats `json:"stats"`
	RecentResults []model.ExamResult  `json:"recent_results"`
	Goals         []GoalProgress      `json:"goals"`
}

// GoalProgress overlays live counters on a stored goal.
type GoalProgress struct {
	Goal          model.StudyGoal `json:"goal"`
	ExamsTaken    int             `json:"exams_taken"`
	BestScore     int             `json:"best_score"`
	TargetReached bool            `json:"target_reached"`
}

// ProgressService builds the student dashboard from the durable result
// mirror and the goal table.
type ProgressService struct {
	results *repository.ResultRepository
	goals   *repository.GoalRepository
}

// NewProgressService creates a new ProgressService.
func NewProgressService(results *repository.ResultRepository, goals *repository.GoalRepository) *ProgressService {
	return &ProgressService{results: results, goals: goals}
}

const recentResultLimit = 10

// Overview assembles the full dashboard for one student.
func (s *ProgressService) Overview(ctx context.Context, studentID int) (*ProgressOverview, error) {
	stats, err := s.results.Stats(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	history, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	recent := history
	if len(recent) > recentResultLimit {
		recent = recent[:recentResultLimit]
	}

	goals, err := s.goals.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}

	progress := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		gp := GoalProgress{
			Goal:       g,
			ExamsTaken: stats.ExamsTaken,
			BestScore:  stats.BestScore,
		}
		gp.TargetReached = stats.ExamsTaken >= g.TargetExams && stats.BestScore >= g.TargetScore
		progress = append(progress, gp)
	}

	return &ProgressOverview{
		Stats:         *stats,
		RecentResults: recent,
		Goals:         progress,
	}, nil
}

// ExamHistory returns every attempt at one exam, newest first.
func (s *ProgressService) ExamHistory(ctx context.Context, studentID int, examID string) ([]model.ExamResult, error) {
	return s.results.ListByStudentAndExam(ctx, studentID, examID)
}
