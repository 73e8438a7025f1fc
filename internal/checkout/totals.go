package checkout

import (
	"strings"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// Totals is derived from the ledger on every change. Nothing here is rounded;
// rounding happens when a request is built.
type Totals struct {
	TotalQuantity  int             `json:"total_quantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	DisplayedTotal decimal.Decimal `json:"displayed_total"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	CashTendered   decimal.Decimal `json:"cash_tendered"`
	Change         decimal.Decimal `json:"change"`
	OverrideActive bool            `json:"override_active"`
	CashProvided   bool            `json:"cash_provided"`
	// Insufficient is true when Change is negative.
	Insufficient bool `json:"insufficient"`
}

// ComputeTotals derives the totals of lines given the raw text of the manual
// total override and of the cash tendered field.
func ComputeTotals(lines []model.CartLine, totalOverride, cashTendered string) Totals {
	var t Totals
	lineProfit := decimal.Zero
	for _, line := range lines {
		t.TotalQuantity += line.Quantity
		t.Subtotal = t.Subtotal.Add(line.Total())
		t.TotalCost = t.TotalCost.Add(line.Cost())
		lineProfit = lineProfit.Add(line.Profit())
	}

	t.DisplayedTotal = t.Subtotal
	t.TotalProfit = lineProfit
	if override, ok := ParseAmount(totalOverride); ok {
		t.OverrideActive = true
		t.DisplayedTotal = override
		t.TotalProfit = override.Sub(t.TotalCost)
	}

	if cash, ok := ParseAmount(cashTendered); ok {
		t.CashProvided = true
		t.CashTendered = cash
	}
	t.Change = t.CashTendered.Sub(t.DisplayedTotal)
	t.Insufficient = t.Change.IsNegative()
	return t
}

// ParseAmount parses a user-entered amount. Blank or non-numeric text is
// reported as absent.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
