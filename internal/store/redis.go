package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prepyds/ydsprep-backend/internal/config"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisStore is the primary session store. Partial blobs are plain JSON
// strings; result history is an RPUSH-only list per student.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore over an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

var _ Store = (*RedisStore)(nil)

// LoadPartial implements PartialStore.
func (s *RedisStore) LoadPartial(ctx context.Context, studentID int, examID string) (*model.PartialSession, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.PartialSessionKey(studentID, examID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get partial: %w", err)
	}

	var p model.PartialSession
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.Answers == nil {
		p.Answers = map[string]string{}
	}
	return &p, nil
}

// SavePartial implements PartialStore.
func (s *RedisStore) SavePartial(ctx context.Context, studentID int, examID string, p *model.PartialSession) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal partial: %w", err)
	}
	key := config.CacheKey.PartialSessionKey(studentID, examID)
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set partial: %w", err)
	}
	return nil
}

// ClearPartial implements PartialStore.
func (s *RedisStore) ClearPartial(ctx context.Context, studentID int, examID string) error {
	key := config.CacheKey.PartialSessionKey(studentID, examID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del partial: %w", err)
	}
	return nil
}

// AppendResult implements ResultStore.
func (s *RedisStore) AppendResult(ctx context.Context, studentID int, r *model.ExamResult) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	key := config.CacheKey.ResultHistoryKey(studentID)
	if err := s.rdb.RPush(ctx, key, raw).Err(); err != nil {
		return fmt.Errorf("rpush result: %w", err)
	}
	return nil
}

// ListResults implements ResultStore.
func (s *RedisStore) ListResults(ctx context.Context, studentID int) ([]model.ExamResult, error) {
	key := config.CacheKey.ResultHistoryKey(studentID)
	items, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange results: %w", err)
	}

	results := make([]model.ExamResult, 0, len(items))
	for _, raw := range items {
		var r model.ExamResult
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			// A single corrupt entry must not hide the rest of the history.
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// LatestResult implements ResultStore.
func (s *RedisStore) LatestResult(ctx context.Context, studentID int, examID string) (*model.ExamResult, error) {
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
