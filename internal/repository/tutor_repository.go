package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepyds/ydsprep-backend/internal/model"
)

// TutorRepository handles tutor account data access.
type TutorRepository struct {
	pool *pgxpool.Pool
}

// NewTutorRepository creates a new TutorRepository.
func NewTutorRepository(pool *pgxpool.Pool) *TutorRepository {
	return &TutorRepository{pool: pool}
}

// GetByEmail retrieves a tutor by email.
func (r *TutorRepository) GetByEmail(ctx context.Context, email string) (*model.Tutor, error) {
	t := &model.Tutor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at
		 FROM tutors
		 WHERE email = $1`, email,
	).Scan(&t.ID, &t.Email, &t.Name, &t.PasswordHash, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a tutor by id.
func (r *TutorRepository) GetByID(ctx context.Context, id int) (*model.Tutor, error) {
	t := &model.Tutor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at
		 FROM tutors
		 WHERE id = $1`, id,
	).Scan(&t.ID, &t.Email, &t.Name, &t.PasswordHash, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new tutor account.
func (r *TutorRepository) Create(ctx context.Context, t *model.Tutor) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tutors (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.Email, t.Name, t.PasswordHash,
	).Scan(&t.ID, &t.CreatedAt)
}
