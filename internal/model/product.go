package model

import "github.com/shopspring/decimal"

// Product is the backend's catalog entry as last seen by the client.
// Stock is a snapshot and may be stale; the backend decides the real stock.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	Stock      int             `json:"stock"`
	QRCodeData string          `json:"qr_code_data,omitempty"`
}

// InStock reports whether the snapshot allows at least one more unit.
func (p Product) InStock() bool { return p.Stock > 0 }
