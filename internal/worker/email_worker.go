package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxEmailAttempts bounds the SMTP attempts of one receipt e-mail.
const MaxEmailAttempts = 3

// ReceiptEmailJob is the payload of a JobReceiptEmail job.
type ReceiptEmailJob struct {
	ToEmail       string `json:"to_email"`
	TransactionID string `json:"transaction_id"`
	PDFPath       string `json:"pdf_path"`
}

// ReceiptSender delivers one receipt. *infra.Mailer implements it.
type ReceiptSender interface {
	SendReceipt(to, transactionID, pdfPath string) error
}

// EmailWorker sends queued receipt e-mails.
type EmailWorker struct {
	sender  ReceiptSender
	backoff func(attempt int) time.Duration
}

func NewEmailWorker(sender ReceiptSender) *EmailWorker {
	return &EmailWorker{sender: sender, backoff: exponentialBackoff}
}

// Process sends the e-mail, retrying with backoff. The returned error means
// every attempt failed.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job ReceiptEmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if job.ToEmail == "" {
		log.Warn().Str("transaction_id", job.TransactionID).Msg("email_worker: no recipient, skipping")
		return nil
	}

	err := withRetry(ctx, MaxEmailAttempts, w.backoff, func(attempt int) error {
		err := w.sender.SendReceipt(job.ToEmail, job.TransactionID, job.PDFPath)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("transaction_id", job.TransactionID).Msg("email_worker: send failed")
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("email_worker: %d attempts failed: %w", MaxEmailAttempts, err)
	}
	log.Info().Str("transaction_id", job.TransactionID).Msg("email_worker: receipt sent")
	return nil
}

// exponentialBackoff waits 1s before the second attempt, 2s before the third.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

// withRetry calls fn up to maxAttempts times, sleeping backoff(i) before
// attempt i > 0. Returns the last error when all attempts fail.
func withRetry(ctx context.Context, maxAttempts int, backoff func(int) time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(i)):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
