package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueComprobante = "jobs:comprobante"
	QueueEmail       = "jobs:email"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes the payload of one job. Returning an error marks the
// attempt as failed; wrap with Permanent to skip the remaining retries.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers maps each queue to its handler. A nil handler drops jobs
// of that queue into the DLQ.
type WorkerHandlers struct {
	Comprobante JobHandler
	Email       JobHandler
}

func (h WorkerHandlers) forQueue(queue string) JobHandler {
	switch queue {
	case QueueComprobante:
		return h.Comprobante
	case QueueEmail:
		return h.Email
	}
	return nil
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying (bad payload, missing venta).
func Permanent(err error) error { return permanentError{err: err} }

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueComprobante pushes a boleta job to Redis.
func (d *Dispatcher) EnqueueComprobante(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueComprobante, "comprobante", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{ID: uuid.NewString(), Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP and uses no CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers WorkerHandlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers WorkerHandlers) {
	queues := []string{QueueComprobante, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, Job{Type: "unknown", Payload: quoted}, "invalid envelope: "+err.Error(), 0)
		return
	}

	h := handlers.forQueue(queue)
	if h == nil {
		SendToDLQ(ctx, rdb, queue, job, "no handler registered", 0)
		return
	}

	attempts, err := runJob(ctx, h, job)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Str("type", job.Type).Int("attempts", attempts).Msg("job failed")
		SendToDLQ(ctx, rdb, queue, job, err.Error(), attempts)
		return
	}
	log.Debug().Str("job_id", job.ID).Str("type", job.Type).Msg("job processed")
}

// runJob calls the handler with retries and reports how many attempts ran.
func runJob(ctx context.Context, h JobHandler, job Job) (int, error) {
	attempts := 0
	err := withRetry(ctx, maxAttempts, func(attempt int) error {
		attempts = attempt + 1
		err := h.Process(ctx, job.Payload)
		if err != nil && attempt+1 < maxAttempts {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("job_id", job.ID).Msg("job attempt failed, retrying")
		}
		return err
	})
	return attempts, err
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Permanent errors stop the loop immediately.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err
		var perm permanentError
		if errors.As(err, &perm) {
			return err
		}
	}
	return lastErr
}
