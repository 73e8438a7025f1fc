package service

import (
	"context"
	"sync"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/dto"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/reconcile"

	"github.com/rs/zerolog/log"
)

// Backend is the remote POS API. *infra.BackendClient implements it.
// Every error it returns is an *apierror.Error.
type Backend interface {
	SearchProducts(ctx context.Context, term string) ([]model.Product, error)
	LookupProduct(ctx context.Context, key string) (model.Product, error)
	SubmitPurchase(ctx context.Context, req dto.PurchaseRequest) (dto.PurchaseResult, error)
	FetchTransactions(ctx context.Context, userID string) ([]model.Sale, error)
	UpdateTransaction(ctx context.Context, req reconcile.UpdateRequest) (reconcile.UpdateResult, error)
}

// ── Notifier ─────────────────────────────────────────────────────────────────

// Notifier is the device feedback channel: Acknowledge plays the beep and
// haptic pulse of a successful add, Warn shows a message to the cashier.
type Notifier interface {
	Acknowledge()
	Warn(msg string)
}

// LogNotifier is the headless Notifier: it only logs.
type LogNotifier struct{}

func (LogNotifier) Acknowledge() { log.Debug().Msg("checkout: acknowledged") }

func (LogNotifier) Warn(msg string) { log.Info().Str("message", msg).Msg("checkout: warning") }

// ── Catalog ──────────────────────────────────────────────────────────────────

// Catalog keeps the result set of the last product search. It is the only
// product data the client holds.
type Catalog struct {
	mu       sync.RWMutex
	products []model.Product
}

func NewCatalog() *Catalog { return &Catalog{} }

// Replace swaps in a new result set.
func (c *Catalog) Replace(products []model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = append([]model.Product(nil), products...)
}

// Find returns the product with id from the last result set.
func (c *Catalog) Find(id string) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (c *Catalog) All() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Product(nil), c.products...)
}
