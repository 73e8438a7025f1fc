package service

import (
	"context"
	"sync"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/dto"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/reconcile"

	"github.com/shopspring/decimal"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubBackend is an in-memory Backend. Lookups resolve by product id or QR
// payload; lookupErr, when set, fails every lookup.
type stubBackend struct {
	mu        sync.Mutex
	products  map[string]model.Product
	sales     []model.Sale
	lookupErr error
	lookups   int

	purchaseErr error
	purchaseRes dto.PurchaseResult
	purchases   []dto.PurchaseRequest

	updateErr error
	updates   []reconcile.UpdateRequest
	updateFn  func(req reconcile.UpdateRequest) reconcile.UpdateResult
}

func newStubBackend(products ...model.Product) *stubBackend {
	b := &stubBackend{products: map[string]model.Product{}}
	for _, p := range products {
		b.products[p.ID] = p
	}
	return b
}

func (b *stubBackend) SearchProducts(_ context.Context, term string) ([]model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Product{}
	for _, p := range b.products {
		if term == "" || p.Name == term {
			out = append(out, p)
		}
	}
	return out, nil
}

func (b *stubBackend) LookupProduct(_ context.Context, key string) (model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookups++
	if b.lookupErr != nil {
		return model.Product{}, b.lookupErr
	}
	if p, ok := b.products[key]; ok {
		return p, nil
	}
	for _, p := range b.products {
		if p.QRCodeData != "" && p.QRCodeData == key {
			return p, nil
		}
	}
	return model.Product{}, apierror.NotFound("Product not found")
}

func (b *stubBackend) SubmitPurchase(_ context.Context, req dto.PurchaseRequest) (dto.PurchaseResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purchases = append(b.purchases, req)
	if b.purchaseErr != nil {
		return dto.PurchaseResult{}, b.purchaseErr
	}
	return b.purchaseRes, nil
}

func (b *stubBackend) FetchTransactions(_ context.Context, _ string) ([]model.Sale, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Sale(nil), b.sales...), nil
}

func (b *stubBackend) UpdateTransaction(_ context.Context, req reconcile.UpdateRequest) (reconcile.UpdateResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, req)
	if b.updateErr != nil {
		return reconcile.UpdateResult{}, b.updateErr
	}
	if b.updateFn != nil {
		return b.updateFn(req), nil
	}
	return reconcile.UpdateResult{Success: true}, nil
}

var _ Backend = (*stubBackend)(nil)

// recordingNotifier keeps what the cashier would have seen and heard.
type recordingNotifier struct {
	mu       sync.Mutex
	acks     int
	warnings []string
}

func (n *recordingNotifier) Acknowledge() {
	n.mu.Lock()
	n.acks++
	n.mu.Unlock()
}

func (n *recordingNotifier) Warn(msg string) {
	n.mu.Lock()
	n.warnings = append(n.warnings, msg)
	n.mu.Unlock()
}

var _ Notifier = (*recordingNotifier)(nil)

// stubReceipts records issued receipts.
type stubReceipts struct {
	issued []model.Receipt
	emails []string
}

func (r *stubReceipts) Issue(_ context.Context, rc model.Receipt, email string) string {
	r.issued = append(r.issued, rc)
	r.emails = append(r.emails, email)
	return "/tmp/receipt_" + rc.TransactionID + ".pdf"
}

var _ ReceiptService = (*stubReceipts)(nil)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
