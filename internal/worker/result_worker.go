package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prepyds/ydsprep-backend/internal/config"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ResultWorker consumes persist_results_queue and INSERTs submitted results
// into PostgreSQL. The insert is idempotent on the result id, so a payload
// requeued after a transient failure never produces a duplicate row.
type ResultWorker struct {
	results *repository.ResultRepository
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(results *repository.ResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		results: results,
		rdb:     rdb,
		log:     log.With().Str("component", "result_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ResultWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	item, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistResultsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(item) < 2 {
		return
	}

	var result model.ExamResult
	if err := json.Unmarshal([]byte(item[1]), &result); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping payload")
		return
	}

	if err := w.results.Insert(ctx, &result); err != nil {
		w.log.Error().Err(err).
			Str("result_id", result.ID.String()).
			Int("student_id", result.StudentID).
			Str("exam_id", result.ExamID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, item[1])
		time.Sleep(5 * time.Second)
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *ResultWorker) drain(ctx context.Context) {
	drained := 0
	for {
		item, err := w.rdb.LPop(ctx, config.WorkerKey.PersistResultsQueue).Result()
		if err != nil {
			break
		}

		var result model.ExamResult
		if err := json.Unmarshal([]byte(item), &result); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error, dropping payload")
			continue
		}

		if err := w.results.Insert(ctx, &result); err != nil {
			// Put it back so the next boot can retry.
			w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, item)
			w.log.Error().Err(err).Msg("Drain persist error, requeued")
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining results")
	}
}
