package dto

import (
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/reconcile"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ReplaceUnitRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type AddUnitRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type AdditionalPaymentRequest struct {
	Amount string `json:"amount" validate:"required,max=32"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleListResponse struct {
	Data  []model.Sale `json:"data"`
	Total int          `json:"total"`
}

type ReconciliationResponse struct {
	Phase          reconcile.Phase         `json:"phase"`
	Sale           model.Sale              `json:"sale"`
	Units          []reconcile.UnitLine    `json:"units"`
	Items          []reconcile.GroupedItem `json:"items"`
	GlobalDiscount decimal.Decimal         `json:"global_discount"`
	EditedTotal    decimal.Decimal         `json:"edited_total"`
	BalanceDue     decimal.Decimal         `json:"balance_due"`
	ChangeDue      decimal.Decimal         `json:"change_due"`
	Error          string                  `json:"error,omitempty"`
}

// NewReconciliationResponse snapshots an attempt.
func NewReconciliationResponse(a *reconcile.Attempt) *ReconciliationResponse {
	return &ReconciliationResponse{
		Phase:          a.Phase,
		Sale:           a.Sale,
		Units:          append([]reconcile.UnitLine(nil), a.Units...),
		Items:          a.Items(),
		GlobalDiscount: a.GlobalDiscount,
		EditedTotal:    a.EditedTotal(),
		BalanceDue:     a.BalanceDue,
		ChangeDue:      a.ChangeDue,
		Error:          a.Error,
	}
}
