// Package reconcile edits a previously recorded sale and works out whether
// the edit leaves an amount owed by the customer.
package reconcile

import (
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// UnitLine is one unit of a recorded line, so a single unit can be swapped
// for another product while editing. LineIndex is the index of the
// originating SaleItem, or -1 for units added during the edit.
type UnitLine struct {
	LineIndex int             `json:"line_index"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// GroupedItem is the per-product aggregate sent back to the backend.
type GroupedItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
}

// Total is Price × Quantity − Discount.
func (g GroupedItem) Total() decimal.Decimal {
	return g.Price.Mul(decimal.NewFromInt(int64(g.Quantity))).Sub(g.Discount)
}

// Flatten expands every item into one UnitLine per unit. A line discount is
// carried by its first unit so that grouping restores it exactly.
func Flatten(items []model.SaleItem) []UnitLine {
	var units []UnitLine
	for i, it := range items {
		for u := 0; u < it.Quantity; u++ {
			discount := decimal.Zero
			if u == 0 {
				discount = it.Discount
			}
			units = append(units, UnitLine{
				LineIndex: i,
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     it.Price,
				CostPrice: it.CostPrice,
				Discount:  discount,
			})
		}
	}
	return units
}

// Group sums units per product id, in order of first appearance. Price and
// name come from the first unit of each product.
func Group(units []UnitLine) []GroupedItem {
	g := newGrouper()
	for _, u := range units {
		g.add(u.ProductID, u.Name, 1, u.Price, u.Discount)
	}
	return g.items
}

// GroupItems groups recorded items the same way Group groups units, so that
// GroupItems(x) equals Group(Flatten(x)).
func GroupItems(items []model.SaleItem) []GroupedItem {
	g := newGrouper()
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		g.add(it.ProductID, it.Name, it.Quantity, it.Price, it.Discount)
	}
	return g.items
}

// EditedTotal is the sum of the grouped totals less the global discount.
func EditedTotal(items []GroupedItem, globalDiscount decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total())
	}
	return total.Sub(globalDiscount)
}

type grouper struct {
	index map[string]int
	items []GroupedItem
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int)}
}

func (g *grouper) add(productID, name string, qty int, price, discount decimal.Decimal) {
	if i, ok := g.index[productID]; ok {
		g.items[i].Quantity += qty
		g.items[i].Discount = g.items[i].Discount.Add(discount)
		return
	}
	g.index[productID] = len(g.items)
	g.items = append(g.items, GroupedItem{
		ProductID: productID,
		Name:      name,
		Quantity:  qty,
		Price:     price,
		Discount:  discount,
	})
}
