package checkout

import (
	"fmt"
	"strings"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// Source tells AddItem where a line came from.
type Source string

const (
	SourceScan   Source = "scan"   // default quantity 1
	SourceManual Source = "manual" // default quantity = pick quantity
)

// MatchKey is what AddItem uses to find an existing line for a product.
type MatchKey struct {
	ProductID  string
	QRCodeData string
	Name       string
	Price      decimal.Decimal
}

// KeyFor builds the default match key of a product.
func KeyFor(p model.Product) MatchKey {
	return MatchKey{ProductID: p.ID, QRCodeData: p.QRCodeData, Name: p.Name, Price: p.Price}
}

// ── Line matching ─────────────────────────────────────────────────────────────
// Matchers run in order; the first one with a hit wins. The name+price
// fallback can merge two distinct products that share a name and a price.

type lineMatcher func(line model.CartLine, key MatchKey) bool

var lineMatchers = []lineMatcher{
	func(line model.CartLine, key MatchKey) bool {
		return key.ProductID != "" && line.ProductID == key.ProductID
	},
	func(line model.CartLine, key MatchKey) bool {
		return key.QRCodeData != "" && line.QRCodeData == key.QRCodeData
	},
	func(line model.CartLine, key MatchKey) bool {
		return key.Name != "" && line.Name == key.Name && line.Price.Equal(key.Price)
	},
}

// Ledger is the ordered list of lines in the current sale.
type Ledger struct {
	lines  []model.CartLine
	nextID int
}

// NewLedger returns an empty ledger. Line ids start at 1.
func NewLedger() Ledger {
	return Ledger{nextID: 1}
}

// Clone returns a deep copy.
func (l Ledger) Clone() Ledger {
	out := Ledger{nextID: l.nextID, lines: make([]model.CartLine, len(l.lines))}
	for i, line := range l.lines {
		if line.ItemTotal != nil {
			t := *line.ItemTotal
			line.ItemTotal = &t
		}
		out.lines[i] = line
	}
	return out
}

// Lines returns a copy of the lines in creation order.
func (l Ledger) Lines() []model.CartLine {
	return l.Clone().lines
}

func (l Ledger) Len() int { return len(l.lines) }

// Line returns the line with the given id.
func (l Ledger) Line(id int) (model.CartLine, bool) {
	if i := l.index(id); i >= 0 {
		return l.Clone().lines[i], true
	}
	return model.CartLine{}, false
}

// ContainsProduct reports whether any line references productID.
func (l Ledger) ContainsProduct(productID string) bool {
	for _, line := range l.lines {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

// QuantityOf sums the quantity of every line referencing productID.
func (l Ledger) QuantityOf(productID string) int {
	n := 0
	for _, line := range l.lines {
		if line.ProductID == productID {
			n += line.Quantity
		}
	}
	return n
}

func (l Ledger) index(id int) int {
	for i, line := range l.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

func (l Ledger) match(key MatchKey) int {
	for _, m := range lineMatchers {
		for i, line := range l.lines {
			if m(line, key) {
				return i
			}
		}
	}
	return -1
}

// Add merges qty units of p into the matching line or creates a new one.
// It is all-or-nothing: on error the ledger is unchanged.
func (l *Ledger) Add(p model.Product, key MatchKey, qty int) (model.CartLine, error) {
	if qty < 1 {
		return model.CartLine{}, apierror.Validation("Quantity must be at least 1")
	}
	if !p.InStock() {
		return model.CartLine{}, apierror.Stock(fmt.Sprintf("%s is out of stock", p.Name))
	}

	if i := l.match(key); i >= 0 {
		line := l.lines[i]
		newQty := line.Quantity + qty
		if newQty > p.Stock {
			return model.CartLine{}, apierror.Stock(fmt.Sprintf("Only %d of %s in stock", p.Stock, p.Name))
		}
		line.Stock = p.Stock
		setQuantity(&line, newQty)
		l.lines[i] = line
		return line, nil
	}

	if qty > p.Stock {
		return model.CartLine{}, apierror.Stock(fmt.Sprintf("Only %d of %s in stock", p.Stock, p.Name))
	}
	line := model.CartLine{
		ID:         l.nextID,
		ProductID:  p.ID,
		Name:       p.Name,
		QRCodeData: p.QRCodeData,
		Price:      p.Price,
		CostPrice:  p.CostPrice,
		Stock:      p.Stock,
		Quantity:   qty,
		SellPrice:  p.Price,
	}
	l.nextID++
	l.lines = append(l.lines, line)
	return line, nil
}

// Remove takes one unit off the line, deleting it when it was the last one.
// The returned line carries the remaining quantity (0 when deleted).
func (l *Ledger) Remove(id int) (model.CartLine, error) {
	i := l.index(id)
	if i < 0 {
		return model.CartLine{}, apierror.NotFound("Item not in cart")
	}
	line := l.lines[i]
	if line.Quantity > 1 {
		setQuantity(&line, line.Quantity-1)
		l.lines[i] = line
		return line, nil
	}
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	line.Quantity = 0
	return line, nil
}

// UpdateItemTotal applies the raw text typed in a line's total field.
// Empty input clears the override and restores the product price.
func (l *Ledger) UpdateItemTotal(id int, raw string) (model.CartLine, error) {
	i := l.index(id)
	if i < 0 {
		return model.CartLine{}, apierror.NotFound("Item not in cart")
	}
	line := l.lines[i]

	cleaned := SanitizeAmount(raw)
	if cleaned == "" {
		line.ItemTotal = nil
		line.SellPrice = line.Price
		l.lines[i] = line
		return line, nil
	}

	total, err := decimal.NewFromString(cleaned)
	if err != nil || total.IsNegative() {
		return model.CartLine{}, apierror.Validation("Invalid amount")
	}
	line.ItemTotal = &total
	line.SellPrice = total.Div(decimal.NewFromInt(int64(line.Quantity)))
	l.lines[i] = line
	return line, nil
}

// Clear drops every line. Ids keep increasing across clears.
func (l *Ledger) Clear() {
	l.lines = nil
}

// setQuantity keeps the per-unit sell price when the quantity of an
// overridden line changes.
func setQuantity(line *model.CartLine, qty int) {
	line.Quantity = qty
	if line.ItemTotal != nil {
		t := line.SellPrice.Mul(decimal.NewFromInt(int64(qty)))
		line.ItemTotal = &t
	}
}

// SanitizeAmount keeps digits and the first decimal point of raw.
func SanitizeAmount(raw string) string {
	var b strings.Builder
	dot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}
