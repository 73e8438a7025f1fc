package service

import (
	"context"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/rs/zerolog/log"
)

// ReceiptService produces the receipt of an accepted purchase. It is best
// effort: failures are logged and never undo the sale.
type ReceiptService interface {
	// Issue renders the receipt and, when email is not empty, mails it.
	// Returns the PDF path, or "" when none was written.
	Issue(ctx context.Context, r model.Receipt, email string) string
}

// ReceiptRenderer writes a receipt file and returns its path.
type ReceiptRenderer func(storeName string, r model.Receipt, dir string) (string, error)

// ReceiptMailer sends a receipt file.
type ReceiptMailer interface {
	SendReceipt(to, transactionID, pdfPath string) error
}

type receiptService struct {
	storeName string
	dir       string
	render    ReceiptRenderer
	mailer    ReceiptMailer
}

// NewReceiptService returns a ReceiptService writing into dir. An empty dir
// disables receipts; a nil mailer disables e-mail.
func NewReceiptService(storeName, dir string, render ReceiptRenderer, mailer ReceiptMailer) ReceiptService {
	return &receiptService{storeName: storeName, dir: dir, render: render, mailer: mailer}
}

func (s *receiptService) Issue(ctx context.Context, r model.Receipt, email string) string {
	if s.dir == "" || s.render == nil {
		return ""
	}
	path, err := s.render(s.storeName, r, s.dir)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", r.TransactionID).Msg("receipt: render failed")
		return ""
	}
	log.Info().Str("transaction_id", r.TransactionID).Str("path", path).Msg("receipt: written")

	if email == "" {
		return path
	}
	if s.mailer == nil {
		log.Warn().Str("transaction_id", r.TransactionID).Msg("receipt: e-mail requested but SMTP is not configured")
		return path
	}
	// SMTP can be slow; the sale is already recorded, so the cashier does not wait for it.
	go func() {
		if err := s.mailer.SendReceipt(email, r.TransactionID, path); err != nil {
			log.Error().Err(err).Str("transaction_id", r.TransactionID).Msg("receipt: e-mail failed")
			return
		}
		log.Info().Str("transaction_id", r.TransactionID).Msg("receipt: e-mailed")
	}()
	return path
}
