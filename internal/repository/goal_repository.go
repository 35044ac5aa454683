package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepyds/ydsprep-backend/internal/model"
)

// GoalRepository handles study goal data access.
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

// Create inserts a new study goal.
func (r *GoalRepository) Create(ctx context.Context, g *model.StudyGoal) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO study_goals (student_id, title, target_exams, target_score, deadline)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		g.StudentID, g.Title, g.TargetExams, g.TargetScore, g.Deadline,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// GetByID retrieves one goal.
func (r *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StudyGoal, error) {
	g := &model.StudyGoal{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, title, target_exams, target_score, deadline, completed, created_at, updated_at
		 FROM study_goals
		 WHERE id = $1`, id,
	).Scan(&g.ID, &g.StudentID, &g.Title, &g.TargetExams, &g.TargetScore, &g.Deadline, &g.Completed, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListByStudent retrieves a student's goals, open goals first.
func (r *GoalRepository) ListByStudent(ctx context.Context, studentID int) ([]model.StudyGoal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, title, target_exams, target_score, deadline, completed, created_at, updated_at
		 FROM study_goals
		 WHERE student_id = $1
		 ORDER BY completed ASC, created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []model.StudyGoal
	for rows.Next() {
		var g model.StudyGoal
		if err := rows.Scan(&g.ID, &g.StudentID, &g.Title, &g.TargetExams, &g.TargetScore, &g.Deadline, &g.Completed, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Update persists the mutable fields of a goal.
func (r *GoalRepository) Update(ctx context.Context, g *model.StudyGoal) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE study_goals
		 SET title = $1, target_exams = $2, target_score = $3, deadline = $4, completed = $5, updated_at = NOW()
		 WHERE id = $6`,
		g.Title, g.TargetExams, g.TargetScore, g.Deadline, g.Completed, g.ID)
	return err
}

// Delete removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM study_goals WHERE id = $1`, id)
	return err
}
