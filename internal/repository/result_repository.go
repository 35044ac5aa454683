package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepyds/ydsprep-backend/internal/model"
)

// ResultRepository is the durable mirror of the result history. Rows are
// append-only: there is no update or delete path.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Insert appends one result row. ON CONFLICT DO NOTHING makes the persist
// worker's retry path idempotent.
func (r *ResultRepository) Insert(ctx context.Context, res *model.ExamResult) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO exam_results
		   (id, exam_id, exam_title, student_id, correct_count, wrong_count, empty_count,
		    total_questions, score, answers, time_spent_seconds, auto_submitted, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO NOTHING`,
		res.ID, res.ExamID, res.ExamTitle, res.StudentID, res.Correct, res.Wrong, res.Empty,
		res.TotalQuestions, res.Score, answers, res.TimeSpentSeconds, res.AutoSubmitted,
		res.StartedAt, res.CompletedAt)
	return err
}

// ListByStudent retrieves a student's full result history, newest first.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID int) ([]model.ExamResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, exam_title, student_id, correct_count, wrong_count, empty_count,
		        total_questions, score, answers, time_spent_seconds, auto_submitted, started_at, completed_at
		 FROM exam_results
		 WHERE student_id = $1
		 ORDER BY completed_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

// ListByStudentAndExam retrieves every attempt at one exam, newest first.
func (r *ResultRepository) ListByStudentAndExam(ctx context.Context, studentID int, examID string) ([]model.ExamResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, exam_title, student_id, correct_count, wrong_count, empty_count,
		        total_questions, score, answers, time_spent_seconds, auto_submitted, started_at, completed_at
		 FROM exam_results
		 WHERE student_id = $1 AND exam_id = $2
		 ORDER BY completed_at DESC`, studentID, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

// Stats aggregates a student's history for the progress dashboard.
func (r *ResultRepository) Stats(ctx context.Context, studentID int) (*model.ProgressStats, error) {
	stats := &model.ProgressStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(score), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(SUM(correct_count), 0),
		        COALESCE(SUM(wrong_count), 0),
		        COALESCE(SUM(empty_count), 0),
		        MAX(completed_at)
		 FROM exam_results
		 WHERE student_id = $1`, studentID,
	).Scan(&stats.ExamsTaken, &stats.AverageScore, &stats.BestScore,
		&stats.TotalCorrect, &stats.TotalWrong, &stats.TotalEmpty, &stats.LastExamAt)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

type resultRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanResults(rows resultRows) ([]model.ExamResult, error) {
	var results []model.ExamResult
	for rows.Next() {
		var res model.ExamResult
		var answers []byte
		if err := rows.Scan(
			&res.ID, &res.ExamID, &res.ExamTitle, &res.StudentID,
			&res.Correct, &res.Wrong, &res.Empty, &res.TotalQuestions,
			&res.Score, &answers, &res.TimeSpentSeconds, &res.AutoSubmitted,
			&res.StartedAt, &res.CompletedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &res.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
