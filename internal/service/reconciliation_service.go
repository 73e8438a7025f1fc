package service

import (
	"context"
	"sync"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/dto"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/reconcile"

	"github.com/rs/zerolog/log"
)

// ReconciliationService edits recorded sales. One attempt is open at a time,
// like the edit modal of the history screen.
type ReconciliationService interface {
	History(ctx context.Context) (*dto.SaleListResponse, error)
	Open(transactionID string) (*dto.ReconciliationResponse, error)
	Current() (*dto.ReconciliationResponse, error)
	BeginEdit() (*dto.ReconciliationResponse, error)
	ReplaceUnit(ctx context.Context, index int, productID string) (*dto.ReconciliationResponse, error)
	RemoveUnit(index int) (*dto.ReconciliationResponse, error)
	AddUnit(ctx context.Context, productID string) (*dto.ReconciliationResponse, error)
	SetUnitDiscount(index int, raw string) (*dto.ReconciliationResponse, error)
	SetGlobalDiscount(raw string) (*dto.ReconciliationResponse, error)
	Save(ctx context.Context) (*dto.ReconciliationResponse, error)
	SubmitPayment(ctx context.Context, raw string) (*dto.ReconciliationResponse, error)
	ReturnToEdit() (*dto.ReconciliationResponse, error)
	Cancel()
}

type reconciliationService struct {
	backend Backend
	catalog *Catalog
	userID  string

	mu      sync.Mutex
	sales   []model.Sale
	attempt *reconcile.Attempt
}

func NewReconciliationService(backend Backend, catalog *Catalog, userID string) ReconciliationService {
	return &reconciliationService{backend: backend, catalog: catalog, userID: userID}
}

// History fetches the user's sales and keeps them for Open.
func (s *reconciliationService) History(ctx context.Context) (*dto.SaleListResponse, error) {
	sales, err := s.backend.FetchTransactions(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sales = sales
	s.mu.Unlock()
	return &dto.SaleListResponse{Data: sales, Total: len(sales)}, nil
}

// Open starts viewing a sale of the last fetched history, replacing any
// attempt in progress.
func (s *reconciliationService) Open(transactionID string) (*dto.ReconciliationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if sale.ID == transactionID {
			s.attempt = reconcile.NewAttempt(sale)
			return dto.NewReconciliationResponse(s.attempt), nil
		}
	}
	return nil, apierror.NotFound("Transaction not found")
}

func (s *reconciliationService) Current() (*dto.ReconciliationResponse, error) {
	return s.edit(func(*reconcile.Attempt) error { return nil })
}

func (s *reconciliationService) BeginEdit() (*dto.ReconciliationResponse, error) {
	return s.edit((*reconcile.Attempt).BeginEdit)
}

func (s *reconciliationService) ReplaceUnit(ctx context.Context, index int, productID string) (*dto.ReconciliationResponse, error) {
	p, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.edit(func(a *reconcile.Attempt) error { return a.ReplaceUnit(index, p) })
}

func (s *reconciliationService) RemoveUnit(index int) (*dto.ReconciliationResponse, error) {
	return s.edit(func(a *reconcile.Attempt) error { return a.RemoveUnit(index) })
}

func (s *reconciliationService) AddUnit(ctx context.Context, productID string) (*dto.ReconciliationResponse, error) {
	p, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.edit(func(a *reconcile.Attempt) error { return a.AddUnit(p) })
}

func (s *reconciliationService) SetUnitDiscount(index int, raw string) (*dto.ReconciliationResponse, error) {
	return s.edit(func(a *reconcile.Attempt) error { return a.SetUnitDiscount(index, raw) })
}

func (s *reconciliationService) SetGlobalDiscount(raw string) (*dto.ReconciliationResponse, error) {
	return s.edit(func(a *reconcile.Attempt) error { return a.SetGlobalDiscount(raw) })
}

func (s *reconciliationService) ReturnToEdit() (*dto.ReconciliationResponse, error) {
	return s.edit((*reconcile.Attempt).ReturnToEdit)
}

func (s *reconciliationService) Cancel() {
	s.mu.Lock()
	s.attempt = nil
	s.mu.Unlock()
}

// ── Submission ───────────────────────────────────────────────────────────────
// The lock is held across the backend call: the attempt is in a saving phase
// and nothing else may touch it until the answer is applied.

// Save submits the edited sale.
func (s *reconciliationService) Save(ctx context.Context) (*dto.ReconciliationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	req, err := a.Save(s.userID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, a, req)
}

// SubmitPayment resubmits the pending update with the additional payment.
func (s *reconciliationService) SubmitPayment(ctx context.Context, raw string) (*dto.ReconciliationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	req, err := a.EnterPayment(raw)
	if err != nil {
		return dto.NewReconciliationResponse(a), err
	}
	return s.submit(ctx, a, req)
}

func (s *reconciliationService) submit(ctx context.Context, a *reconcile.Attempt, req reconcile.UpdateRequest) (*dto.ReconciliationResponse, error) {
	logger := log.With().Str("transaction_id", req.TransactionID).Logger()

	res, err := s.backend.UpdateTransaction(ctx, req)
	if err != nil {
		a.Fail(apierror.Message(err))
		logger.Warn().Err(err).Msg("update transaction failed")
		return dto.NewReconciliationResponse(a), err
	}

	v := reconcile.Translate(res, a.EditedTotal(), a.CashCovered())
	a.Resolve(v)
	switch v.Kind {
	case reconcile.VerdictSuccess:
		logger.Info().Str("change_due", v.ChangeDue.StringFixed(2)).Msg("transaction updated")
	case reconcile.VerdictBalanceDue:
		logger.Info().Str("balance_due", v.BalanceDue.StringFixed(2)).Msg("additional payment required")
	default:
		logger.Warn().Str("message", v.Message).Msg("transaction update rejected")
		return dto.NewReconciliationResponse(a), apierror.Business(v.Message)
	}
	return dto.NewReconciliationResponse(a), nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *reconciliationService) edit(fn func(a *reconcile.Attempt) error) (*dto.ReconciliationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	return dto.NewReconciliationResponse(a), nil
}

// current must be called under lock.
func (s *reconciliationService) current() (*reconcile.Attempt, error) {
	if s.attempt == nil {
		return nil, apierror.NotFound("No transaction is being edited")
	}
	return s.attempt, nil
}

// product resolves a substitute from the last search, else the backend.
func (s *reconciliationService) product(ctx context.Context, id string) (model.Product, error) {
	if p, ok := s.catalog.Find(id); ok {
		return p, nil
	}
	return s.backend.LookupProduct(ctx, id)
}
