// Package store is the local persistence adapter for exam sessions and
// result history. It is a convenience cache, not a durability layer: writes
// for the same (student, exam) key follow last-write-wins, there is no
// cross-device consistency, and callers must treat every write as
// best-effort. Durable history lives in PostgreSQL via the result worker.
package store

import (
	"context"
	"errors"

	"github.com/prepyds/ydsprep-backend/internal/model"
)

var (
	// ErrNotFound means no blob exists for the requested key.
	ErrNotFound = errors.New("not found in session store")
	// ErrMalformed means a stored blob could not be decoded. Callers discard
	// the blob and start fresh rather than failing the session.
	ErrMalformed = errors.New("malformed session blob")
)

// PartialStore persists in-progress attempt state across reloads.
type PartialStore interface {
	// LoadPartial returns the saved partial for (student, exam),
	// ErrNotFound when absent, or ErrMalformed when undecodable.
	LoadPartial(ctx context.Context, studentID int, examID string) (*model.PartialSession, error)
	// SavePartial overwrites any prior partial for (student, exam).
	SavePartial(ctx context.Context, studentID int, examID string, p *model.PartialSession) error
	// ClearPartial removes the partial; clearing an absent key is not an error.
	ClearPartial(ctx context.Context, studentID int, examID string) error
}

// ResultStore keeps each student's append-only result history.
type ResultStore interface {
	// AppendResult appends to the student's history; prior results are
	// never overwritten.
	AppendResult(ctx context.Context, studentID int, r *model.ExamResult) error
	// ListResults returns the history in append order.
	ListResults(ctx context.Context, studentID int) ([]model.ExamResult, error)
	// LatestResult returns the most recent result for (student, exam),
	// or ErrNotFound.
	LatestResult(ctx context.Context, studentID int, examID string) (*model.ExamResult, error)
}

// Store combines both adapters behind one injection point.
type Store interface {
	PartialStore
	ResultStore
}
