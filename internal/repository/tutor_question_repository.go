package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepyds/ydsprep-backend/internal/model"
)

// TutorQuestionRepository handles ask-the-tutor data access.
type TutorQuestionRepository struct {
	pool *pgxpool.Pool
}

// NewTutorQuestionRepository creates a new TutorQuestionRepository.
func NewTutorQuestionRepository(pool *pgxpool.Pool) *TutorQuestionRepository {
	return &TutorQuestionRepository{pool: pool}
}

// Create inserts a new open question.
func (r *TutorQuestionRepository) Create(ctx context.Context, q *model.TutorQuestion) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tutor_questions (student_id, topic, question, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		q.StudentID, q.Topic, q.Question, model.TutorQuestionOpen,
	).Scan(&q.ID, &q.CreatedAt)
}

// GetByID retrieves one question.
func (r *TutorQuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TutorQuestion, error) {
	q := &model.TutorQuestion{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, topic, question, answer, status, answered_at, created_at
		 FROM tutor_questions
		 WHERE id = $1`, id,
	).Scan(&q.ID, &q.StudentID, &q.Topic, &q.Question, &q.Answer, &q.Status, &q.AnsweredAt, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByStudent retrieves a student's questions, newest first.
func (r *TutorQuestionRepository) ListByStudent(ctx context.Context, studentID int) ([]model.TutorQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, topic, question, answer, status, answered_at, created_at
		 FROM tutor_questions
		 WHERE student_id = $1
		 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTutorQuestions(rows)
}

// ListOpen retrieves all unanswered questions, oldest first, for the tutor inbox.
func (r *TutorQuestionRepository) ListOpen(ctx context.Context) ([]model.TutorQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, topic, question, answer, status, answered_at, created_at
		 FROM tutor_questions
		 WHERE status = $1
		 ORDER BY created_at ASC`, model.TutorQuestionOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTutorQuestions(rows)
}

// Answer records the tutor's reply and closes the question.
func (r *TutorQuestionRepository) Answer(ctx context.Context, id uuid.UUID, answer string) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE tutor_questions
		 SET answer = $1, status = $2, answered_at = $3
		 WHERE id = $4`,
		answer, model.TutorQuestionAnswered, now, id)
	return err
}

type tutorRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTutorQuestions(rows tutorRows) ([]model.TutorQuestion, error) {
	var questions []model.TutorQuestion
	for rows.Next() {
		var q model.TutorQuestion
		if err := rows.Scan(&q.ID, &q.StudentID, &q.Topic, &q.Question, &q.Answer, &q.Status, &q.AnsweredAt, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
