package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prepyds/ydsprep-backend/internal/config"
	"github.com/prepyds/ydsprep-backend/internal/model"
)

// MemoryStore is the demo-mode fallback: the same contract as RedisStore over
// process-local maps. It is an explicitly constructed instance, not package
// state, so tests and demo deployments can run isolated copies side by side.
// Blobs are kept as marshaled JSON to mirror the real store's round-trip
// semantics.
type MemoryStore struct {
	mu       sync.RWMutex
	partials map[string][]byte
	results  map[string][][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		partials: make(map[string][]byte),
		results:  make(map[string][][]byte),
	}
}

var _ Store = (*MemoryStore)(nil)

// LoadPartial implements PartialStore.
func (s *MemoryStore) LoadPartial(_ context.Context, studentID int, examID string) (*model.PartialSession, error) {
	s.mu.RLock()
	raw, ok := s.partials[config.CacheKey.PartialSessionKey(studentID, examID)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var p model.PartialSession
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.Answers == nil {
		p.Answers = map[string]string{}
	}
	return &p, nil
}

// SavePartial implements PartialStore.
func (s *MemoryStore) SavePartial(_ context.Context, studentID int, examID string, p *model.PartialSession) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal partial: %w", err)
	}
	s.mu.Lock()
	s.partials[config.CacheKey.PartialSessionKey(studentID, examID)] = raw
	s.mu.Unlock()
	return nil
}

// ClearPartial implements PartialStore.
func (s *MemoryStore) ClearPartial(_ context.Context, studentID int, examID string) error {
	s.mu.Lock()
	delete(s.partials, config.CacheKey.PartialSessionKey(studentID, examID))
	s.mu.Unlock()
	return nil
}

// AppendResult implements ResultStore.
func (s *MemoryStore) AppendResult(_ context.Context, studentID int, r *model.ExamResult) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	key := config.CacheKey.ResultHistoryKey(studentID)
	s.mu.Lock()
	s.results[key] = append(s.results[key], raw)
	s.mu.Unlock()
	return nil
}

// ListResults implements ResultStore.
func (s *MemoryStore) ListResults(_ context.Context, studentID int) ([]model.ExamResult, error) {
	key := config.CacheKey.ResultHistoryKey(studentID)
	s.mu.RLock()
	items := s.results[key]
	s.mu.RUnlock()

	results := make([]model.ExamResult, 0, len(items))
	for _, raw := range items {
		var r model.ExamResult
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// LatestResult implements ResultStore.
func (s *MemoryStore) LatestResult(ctx context.Context, studentID int, examID string) (*model.ExamResult, error) {
	results, err := s.ListResults(ctx, studentID)
	if err != nil {
		return nil, err
	}
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].ExamID == examID {
			return &results[i], nil
		}
	}
	return nil, ErrNotFound
}

// CorruptPartial overwrites a stored partial with an undecodable blob.
// Test hook for the malformed-blob recovery path.
func (s *MemoryStore) CorruptPartial(studentID int, examID string) {
	s.mu.Lock()
	s.partials[config.CacheKey.PartialSessionKey(studentID, examID)] = []byte("{not json")
	s.mu.Unlock()
}
