package dto

import (
	"encoding/json"
	"strings"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/reconcile"

	"github.com/shopspring/decimal"
)

// ─── Envelope ───────────────────────────────────────────────────────────────

// Envelope is the {status, message, data} wrapper of every backend answer.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// OK reports a "success" status.
func (e Envelope) OK() bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), "success")
}

// HasData reports whether data is present and not null.
func (e Envelope) HasData() bool {
	d := strings.TrimSpace(string(e.Data))
	return d != "" && d != "null"
}

// ─── Products ───────────────────────────────────────────────────────────────

type ProductPayload struct {
	ID         FlexString      `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	Stock      FlexInt         `json:"stock"`
	QRCodeData FlexString      `json:"qr_code_data"`
}

func (p ProductPayload) ToModel() model.Product {
	return model.Product{
		ID:         p.ID.String(),
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		CostPrice:  p.CostPrice,
		Stock:      int(p.Stock),
		QRCodeData: p.QRCodeData.String(),
	}
}

// ─── Purchase ───────────────────────────────────────────────────────────────

type PurchaseItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

type PurchaseRequest struct {
	Items        []PurchaseItem  `json:"items"`
	CashTendered decimal.Decimal `json:"cash_tendered"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	UserID       string          `json:"user_id"`
}

// PurchaseResult is the optional data of a successful purchase.
type PurchaseResult struct {
	TransactionID FlexString          `json:"transaction_id"`
	ID            FlexString          `json:"id"`
	ChangeDue     decimal.NullDecimal `json:"change_due"`
	Timestamp     string              `json:"timestamp"`
}

// Reference returns whichever transaction id the backend sent.
func (r PurchaseResult) Reference() string {
	if r.TransactionID != "" {
		return r.TransactionID.String()
	}
	return r.ID.String()
}

// ─── Transactions ───────────────────────────────────────────────────────────

type SaleItemPayload struct {
	ProductID   FlexString      `json:"product_id"`
	Name        string          `json:"name"`
	ProductName string          `json:"product_name"`
	Quantity    FlexInt         `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Discount    decimal.Decimal `json:"discount"`
}

type SalePayload struct {
	ID            FlexString        `json:"id"`
	TransactionID FlexString        `json:"transaction_id"`
	Items         []SaleItemPayload `json:"items"`
	CashTendered  decimal.Decimal   `json:"cash_tendered"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	UserID        FlexString        `json:"user_id"`
	Timestamp     string            `json:"timestamp"`
	CreatedAt     string            `json:"created_at"`
}

func (s SalePayload) ToModel() model.Sale {
	sale := model.Sale{
		ID:           s.ID.String(),
		CashTendered: s.CashTendered,
		TotalAmount:  s.TotalAmount,
		UserID:       s.UserID.String(),
		Timestamp:    s.Timestamp,
	}
	if sale.ID == "" {
		sale.ID = s.TransactionID.String()
	}
	if sale.Timestamp == "" {
		sale.Timestamp = s.CreatedAt
	}
	for _, it := range s.Items {
		name := it.Name
		if name == "" {
			name = it.ProductName
		}
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: it.ProductID.String(),
			Name:      name,
			Quantity:  int(it.Quantity),
			Price:     it.Price,
			CostPrice: it.CostPrice,
			Discount:  it.Discount,
		})
	}
	return sale
}

type UpdateItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
}

type UpdateTransactionRequest struct {
	TransactionID     string           `json:"transaction_id"`
	Items             []UpdateItem     `json:"items"`
	GlobalDiscount    decimal.Decimal  `json:"global_discount"`
	CashTendered      decimal.Decimal  `json:"cash_tendered"`
	UserID            string           `json:"user_id"`
	AdditionalPayment *decimal.Decimal `json:"additional_payment,omitempty"`
}

// NewUpdateTransactionRequest converts the domain request to the wire shape.
func NewUpdateTransactionRequest(r reconcile.UpdateRequest) UpdateTransactionRequest {
	out := UpdateTransactionRequest{
		TransactionID:     r.TransactionID,
		GlobalDiscount:    r.GlobalDiscount,
		CashTendered:      r.CashTendered,
		UserID:            r.UserID,
		AdditionalPayment: r.AdditionalPayment,
		Items:             make([]UpdateItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, UpdateItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Discount:  it.Discount,
		})
	}
	return out
}

type UpdateTransactionData struct {
	BalanceDue                decimal.NullDecimal `json:"balance_due"`
	RequiresAdditionalPayment FlexBool            `json:"requires_additional_payment"`
	TotalAmount               decimal.NullDecimal `json:"total_amount"`
	CashTendered              decimal.NullDecimal `json:"cash_tendered"`
	ChangeDue                 decimal.NullDecimal `json:"change_due"`
}

// ToResult pairs the envelope status with the decoded data.
func (d UpdateTransactionData) ToResult(env Envelope) reconcile.UpdateResult {
	return reconcile.UpdateResult{
		Success:                   env.OK(),
		Message:                   env.Message,
		BalanceDue:                d.BalanceDue,
		RequiresAdditionalPayment: bool(d.RequiresAdditionalPayment),
		TotalAmount:               d.TotalAmount,
		CashTendered:              d.CashTendered,
		ChangeDue:                 d.ChangeDue,
	}
}
