package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	RecomputePollTimeout = 1 * time.Second
	RecomputeMaxRetries  = 3
)

// RecomputeWorker drains the recompute queue and refreshes stored final
// marks. Weight edits and column changes can stale out hundreds of finals at
// once; doing the recomputation here keeps those requests fast while the
// per-student row lock keeps results correct against concurrent score writes.
type RecomputeWorker struct {
	marks *service.MarkService
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewRecomputeWorker creates a new RecomputeWorker.
func NewRecomputeWorker(marks *service.MarkService, rdb *redis.Client, log zerolog.Logger) *RecomputeWorker {
	return &RecomputeWorker{
		marks: marks,
		rdb:   rdb,
		log:   log.With().Str("component", "recompute_worker").Logger(),
	}
}

// Start runs the worker loop until the context is cancelled. Duplicate jobs
// for the same (section, student) are collapsed: recomputation is
// idempotent, so only the set of pending pairs matters.
func (w *RecomputeWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RecomputeWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return

		default:
			item, err := w.rdb.BLPop(ctx, RecomputePollTimeout, config.RecomputeQueueKey).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job service.RecomputeJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.process(ctx, job)
		}
	}
}

// process recomputes one final mark, retrying transient failures before
// requeueing the job.
func (w *RecomputeWorker) process(ctx context.Context, job service.RecomputeJob) {
	var err error
	for attempt := 1; attempt <= RecomputeMaxRetries; attempt++ {
		if err = w.marks.RecomputeFinal(ctx, job.SectionID, job.StudentID); err == nil {
			return
		}
		if ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}

	w.log.Error().Err(err).
		Int("section_id", job.SectionID).
		Int("student_id", job.StudentID).
		Msg("Recompute failed — requeueing")

	raw, _ := json.Marshal(job)
	w.rdb.RPush(ctx, config.RecomputeQueueKey, raw)
}
