package checkout

import (
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
)

// AddItem adds a product from a scan or from the manual picker.
// Quantity 0 means the source default.
type AddItem struct {
	Product  model.Product
	Key      *MatchKey
	Source   Source
	Quantity int
}

func (c AddItem) apply(s *State) (Outcome, error) {
	qty := c.Quantity
	if qty == 0 {
		qty = 1
		if c.Source == SourceManual {
			qty = s.pickQuantity
		}
	}
	key := KeyFor(c.Product)
	if c.Key != nil {
		key = *c.Key
	}
	line, err := s.ledger.Add(c.Product, key, qty)
	if err != nil {
		return Outcome{}, err
	}
	s.acknowledged()
	return Outcome{Acknowledged: true, Lines: []model.CartLine{line}}, nil
}

// ScannedItem is one resolved entry of a cart payload.
type ScannedItem struct {
	Product  model.Product
	Quantity int
}

// AddScanned records a cart payload signature and adds its resolved items.
// Items are added one by one; an item over stock is reported as a warning
// without undoing the others. The command fails only when nothing was added.
type AddScanned struct {
	Signature string
	Items     []ScannedItem
}

func (c AddScanned) apply(s *State) (Outcome, error) {
	if s.SignatureBlocked(c.Signature) {
		return Outcome{}, apierror.Duplicate("These items are already in the cart")
	}
	if len(c.Items) == 0 {
		return Outcome{}, apierror.NotFound("Product not found")
	}

	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.Product.ID)
	}
	s.tracker.Record(c.Signature, ids)

	var out Outcome
	var firstErr error
	for _, it := range c.Items {
		line, err := s.ledger.Add(it.Product, KeyFor(it.Product), it.Quantity)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			out.Warnings = append(out.Warnings, apierror.Message(err))
			continue
		}
		out.Lines = append(out.Lines, line)
	}
	if len(out.Lines) == 0 {
		return out, firstErr
	}
	s.acknowledged()
	out.Acknowledged = true
	return out, nil
}

// RemoveItem takes one unit off a line and releases signatures whose
// products all left the cart.
type RemoveItem struct {
	LineID int
}

func (c RemoveItem) apply(s *State) (Outcome, error) {
	line, err := s.ledger.Remove(c.LineID)
	if err != nil {
		return Outcome{}, err
	}
	released := s.tracker.Prune(s.ledger.ContainsProduct)
	return Outcome{Lines: []model.CartLine{line}, Released: released}, nil
}

// UpdateItemTotal applies the raw text of a line total field.
type UpdateItemTotal struct {
	LineID int
	Raw    string
}

func (c UpdateItemTotal) apply(s *State) (Outcome, error) {
	line, err := s.ledger.UpdateItemTotal(c.LineID, c.Raw)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Lines: []model.CartLine{line}}, nil
}

// SetCashTendered stores the sanitized cash field.
type SetCashTendered struct {
	Raw string
}

func (c SetCashTendered) apply(s *State) (Outcome, error) {
	s.cashTendered = SanitizeAmount(c.Raw)
	return Outcome{}, nil
}

// SetTotalOverride stores the sanitized manual total. Empty clears it.
type SetTotalOverride struct {
	Raw string
}

func (c SetTotalOverride) apply(s *State) (Outcome, error) {
	s.totalOverride = SanitizeAmount(c.Raw)
	return Outcome{}, nil
}

// SetPickQuantity sets the quantity used by manual adds.
type SetPickQuantity struct {
	Quantity int
}

func (c SetPickQuantity) apply(s *State) (Outcome, error) {
	if c.Quantity < 1 {
		return Outcome{}, apierror.Validation("Quantity must be at least 1")
	}
	s.pickQuantity = c.Quantity
	return Outcome{}, nil
}

// SelectProduct sets or clears (nil) the product picked in the UI.
type SelectProduct struct {
	Product *model.Product
}

func (c SelectProduct) apply(s *State) (Outcome, error) {
	if c.Product == nil {
		s.selected = nil
		return Outcome{}, nil
	}
	p := *c.Product
	s.selected = &p
	return Outcome{}, nil
}

// ClearCart empties the ledger, the tracker and the payment fields.
type ClearCart struct{}

func (ClearCart) apply(s *State) (Outcome, error) {
	s.ledger.Clear()
	s.tracker.Clear()
	s.cashTendered = ""
	s.totalOverride = ""
	s.selected = nil
	s.pickQuantity = 1
	return Outcome{}, nil
}

func (s *State) acknowledged() {
	s.selected = nil
	s.pickQuantity = 1
}
