package service

import (
	"context"
	"encoding/json"

	"github.com/markbook/markbook-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RecomputeJob asks the background worker to recompute one student's final
// mark in one section. Jobs are produced when configuration changes stale
// out stored finals (weight edits, column add/delete) and consumed by
// worker.RecomputeWorker.
type RecomputeJob struct {
	SectionID int `json:"section_id"`
	StudentID int `json:"student_id"`
}

// RecomputeQueue pushes recompute jobs onto the shared Redis queue.
type RecomputeQueue struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRecomputeQueue creates a new RecomputeQueue.
func NewRecomputeQueue(rdb *redis.Client, log zerolog.Logger) *RecomputeQueue {
	return &RecomputeQueue{
		rdb: rdb,
		log: log.With().Str("component", "recompute_queue").Logger(),
	}
}

// Enqueue pushes jobs for the given students of one section. Failures are
// logged, not returned: stored finals stay correct on the next score write
// even if a job is lost, so queueing must not fail the originating request.
func (q *RecomputeQueue) Enqueue(ctx context.Context, sectionID int, studentIDs []int) {
	if len(studentIDs) == 0 {
		return
	}

	payloads := make([]interface{}, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		raw, err := json.Marshal(RecomputeJob{SectionID: sectionID, StudentID: studentID})
		if err != nil {
			continue
		}
		payloads = append(payloads, raw)
	}

	if err := q.rdb.RPush(ctx, config.RecomputeQueueKey, payloads...).Err(); err != nil {
		q.log.Error().Err(err).Int("section_id", sectionID).Int("jobs", len(payloads)).
			Msg("Failed to enqueue recompute jobs")
	}
}
