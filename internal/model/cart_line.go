package model

import "github.com/shopspring/decimal"

// CartLine is one distinguishable grouping of a product in the current sale.
// Name, Price, CostPrice, QRCodeData and Stock are copied from the product at
// add time. When ItemTotal is set it is authoritative and SellPrice is derived
// from it.
type CartLine struct {
	ID         int              `json:"id"`
	ProductID  string           `json:"product_id"`
	Name       string           `json:"name"`
	QRCodeData string           `json:"qr_code_data,omitempty"`
	Price      decimal.Decimal  `json:"price"`
	CostPrice  decimal.Decimal  `json:"cost_price"`
	Stock      int              `json:"stock"`
	Quantity   int              `json:"quantity"`
	SellPrice  decimal.Decimal  `json:"sell_price"`
	ItemTotal  *decimal.Decimal `json:"item_total,omitempty"`
}

// Total is ItemTotal when overridden, SellPrice × Quantity otherwise.
func (l CartLine) Total() decimal.Decimal {
	if l.ItemTotal != nil {
		return *l.ItemTotal
	}
	return l.SellPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cost is CostPrice × Quantity.
func (l CartLine) Cost() decimal.Decimal {
	return l.CostPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Profit is Total − Cost.
func (l CartLine) Profit() decimal.Decimal {
	return l.Total().Sub(l.Cost())
}
