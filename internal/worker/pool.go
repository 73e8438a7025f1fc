// Package worker drains the receipt e-mail queue.
// When Redis is configured, accepted sales enqueue their receipt e-mail in a
// Redis list and a small pool of goroutines sends them. A slow SMTP server
// then never holds a checkout request, and queued mails survive a restart.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceiptEmail = "jobs:receipt_email"
	JobReceiptEmail   = "receipt_email"
)

// errorBackoff is the pause after a failed BRPOP, so an unreachable Redis
// is not polled in a tight loop.
var errorBackoff = 2 * time.Second

// Job is the envelope stored in the queue.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one job payload. An error sends the job to the DLQ.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues jobs into Redis lists.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceiptEmail pushes a receipt e-mail job.
func (d *Dispatcher) EnqueueReceiptEmail(ctx context.Context, job ReceiptEmailJob) error {
	return d.enqueue(ctx, QueueReceiptEmail, JobReceiptEmail, job)
}

// SendReceipt queues the e-mail instead of sending it, so a Dispatcher can
// stand in for the SMTP mailer of the receipt service.
func (d *Dispatcher) SendReceipt(to, transactionID, pdfPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return d.EnqueueReceiptEmail(ctx, ReceiptEmailJob{ToEmail: to, TransactionID: transactionID, PDFPath: pdfPath})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("worker: marshal %s payload: %w", jobType, err)
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return fmt.Errorf("worker: marshal job: %w", err)
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return fmt.Errorf("worker: enqueue %s: %w", jobType, err)
	}
	return nil
}

// StartWorkerPool launches numWorkers goroutines consuming the receipt queue
// until ctx is cancelled. Each one blocks on BRPOP, so idle workers cost
// nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]Handler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Waits up to 5s, then loops to check ctx.
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueReceiptEmail).Result()
			if err != nil && !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Debug().Err(err).Int("worker", id).Msg("worker: brpop failed")
				select {
				case <-ctx.Done():
				case <-time.After(errorBackoff):
				}
				continue
			}
			if err != nil || len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1], handlers)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string, handlers map[string]Handler) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: unreadable job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, Job{Type: "unknown", Payload: quoted}, "unreadable job: "+err.Error())
		return
	}
	handle, ok := handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, rdb, queue, job, "no handler for job type")
		return
	}
	if err := handle(ctx, job.Payload); err != nil {
		SendToDLQ(ctx, rdb, queue, job, err.Error())
	}
}
