package worker

// dlq.go: Dead Letter Queue
// Jobs that exhaust their retries are moved to dlq:{original_queue} for
// manual inspection and can be pushed back with Requeue.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string `json:"original_queue"`
	Job           Job    `json:"job"`
	Reason        string `json:"reason"`
	FailedAt      string `json:"failed_at"` // RFC 3339
	Attempts      int    `json:"attempts"`
}

// SendToDLQ pushes a failed job to the dead letter queue of queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		Job:           job,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_id", job.ID).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// Requeue moves up to n of the oldest DLQ entries back to their queue and
// returns how many were moved.
func Requeue(ctx context.Context, rdb *redis.Client, queue string, n int) (int, error) {
	moved := 0
	for moved < n {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Bytes()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return moved, err
		}
		var entry DLQEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: discarding unreadable entry")
			continue
		}
		encoded, err := json.Marshal(entry.Job)
		if err != nil {
			return moved, err
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}
