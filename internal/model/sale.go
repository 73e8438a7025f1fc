package model

import "github.com/shopspring/decimal"

// Sale is a completed transaction as recorded by the backend.
// The client never assigns ID.
type Sale struct {
	ID           string          `json:"id"`
	Items        []SaleItem      `json:"items"`
	CashTendered decimal.Decimal `json:"cash_tendered"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	UserID       string          `json:"user_id"`
	Timestamp    string          `json:"timestamp"`
}

// SaleItem is one recorded line of a Sale.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// Receipt is what gets printed after a purchase is accepted.
type Receipt struct {
	TransactionID string
	Timestamp     string
	Items         []CartLine
	Total         decimal.Decimal
	CashTendered  decimal.Decimal
	Change        decimal.Decimal
}
