package dto

import (
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/checkout"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Search string `form:"search"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	// Quantity 0 uses the current pick quantity.
	Quantity int `json:"quantity" validate:"min=0"`
}

type ScanRequest struct {
	Data string `json:"data" validate:"required"`
}

// AmountRequest carries raw text typed in a money field. Empty clears it.
type AmountRequest struct {
	Value string `json:"value" validate:"max=32"`
}

type PickQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// SelectProductRequest selects a product from the last search results.
// Empty ProductID clears the selection.
type SelectProductRequest struct {
	ProductID string `json:"product_id"`
}

type PurchaseCheckoutRequest struct {
	// CustomerEmail: optional, mails the PDF receipt when set.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductListResponse struct {
	Data  []model.Product `json:"data"`
	Total int             `json:"total"`
}

type CartResponse struct {
	SessionID         string           `json:"session_id"`
	Lines             []model.CartLine `json:"lines"`
	Totals            checkout.Totals  `json:"totals"`
	CashTendered      string           `json:"cash_tendered"`
	TotalOverride     string           `json:"total_override"`
	PickQuantity      int              `json:"pick_quantity"`
	Selected          *model.Product   `json:"selected,omitempty"`
	TrackedSignatures int              `json:"tracked_signatures"`
	Acknowledged      bool             `json:"acknowledged"`
	Warnings          []string         `json:"warnings,omitempty"`
	Released          []string         `json:"released,omitempty"`
}

type ScanResponse struct {
	// Ignored is true when the scan arrived while another one was in flight
	// or cooling down.
	Ignored bool          `json:"ignored"`
	Kind    string        `json:"kind,omitempty"`
	Cart    *CartResponse `json:"cart,omitempty"`
	// Unresolved lists product ids of a cart payload the backend did not know.
	Unresolved []string `json:"unresolved,omitempty"`
}

type PurchaseResponse struct {
	TransactionID string          `json:"transaction_id,omitempty"`
	Total         decimal.Decimal `json:"total"`
	CashTendered  decimal.Decimal `json:"cash_tendered"`
	Change        decimal.Decimal `json:"change"`
	ReceiptPath   string          `json:"receipt_path,omitempty"`
}
