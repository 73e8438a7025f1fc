package reconcile

import (
	"fmt"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/checkout"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// Phase is the state of one reconciliation attempt.
//
//	Viewing → Editing → Saving → Success
//	                           → AdditionalPaymentRequired → EditingPayment → SavingWithPayment → Success
//	Saving or SavingWithPayment failure → Editing (with Error set)
type Phase string

const (
	PhaseViewing                   Phase = "viewing"
	PhaseEditing                   Phase = "editing"
	PhaseSaving                    Phase = "saving"
	PhaseAdditionalPaymentRequired Phase = "additional_payment_required"
	PhaseEditingPayment            Phase = "editing_payment"
	PhaseSavingWithPayment         Phase = "saving_with_payment"
	PhaseSuccess                   Phase = "success"
)

// Attempt edits one recorded sale.
type Attempt struct {
	Phase          Phase
	Sale           model.Sale
	Units          []UnitLine
	GlobalDiscount decimal.Decimal
	BalanceDue     decimal.Decimal
	PaymentInput   string
	ChangeDue      decimal.Decimal
	Error          string

	pending *UpdateRequest
}

// NewAttempt starts in Viewing.
func NewAttempt(sale model.Sale) *Attempt {
	return &Attempt{Phase: PhaseViewing, Sale: sale}
}

// BeginEdit flattens the sale into units.
func (a *Attempt) BeginEdit() error {
	if a.Phase != PhaseViewing && a.Phase != PhaseEditing {
		return a.wrongPhase()
	}
	if a.Phase == PhaseViewing {
		a.Units = Flatten(a.Sale.Items)
		a.GlobalDiscount = decimal.Zero
	}
	a.Phase = PhaseEditing
	a.Error = ""
	return nil
}

// ReplaceUnit substitutes the product of unit i, keeping its origin and
// discount.
func (a *Attempt) ReplaceUnit(i int, p model.Product) error {
	if err := a.editableUnit(i); err != nil {
		return err
	}
	u := &a.Units[i]
	u.ProductID = p.ID
	u.Name = p.Name
	u.Price = p.Price
	u.CostPrice = p.CostPrice
	return nil
}

// RemoveUnit drops unit i.
func (a *Attempt) RemoveUnit(i int) error {
	if err := a.editableUnit(i); err != nil {
		return err
	}
	a.Units = append(a.Units[:i], a.Units[i+1:]...)
	return nil
}

// AddUnit appends one unit of p.
func (a *Attempt) AddUnit(p model.Product) error {
	if a.Phase != PhaseEditing {
		return a.wrongPhase()
	}
	a.Units = append(a.Units, UnitLine{
		LineIndex: -1,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		CostPrice: p.CostPrice,
		Discount:  decimal.Zero,
	})
	return nil
}

// SetUnitDiscount applies the raw discount text to unit i. Empty means 0.
func (a *Attempt) SetUnitDiscount(i int, raw string) error {
	if err := a.editableUnit(i); err != nil {
		return err
	}
	d, _ := checkout.ParseAmount(checkout.SanitizeAmount(raw))
	a.Units[i].Discount = d
	return nil
}

// SetGlobalDiscount applies the raw global discount text. Empty means 0.
func (a *Attempt) SetGlobalDiscount(raw string) error {
	if a.Phase != PhaseEditing {
		return a.wrongPhase()
	}
	d, _ := checkout.ParseAmount(checkout.SanitizeAmount(raw))
	a.GlobalDiscount = d
	return nil
}

// Items regroups the edited units per product.
func (a *Attempt) Items() []GroupedItem {
	return Group(a.Units)
}

// EditedTotal is what the edited transaction costs.
func (a *Attempt) EditedTotal() decimal.Decimal {
	return EditedTotal(a.Items(), a.GlobalDiscount)
}

// Save moves Editing → Saving and returns the request to submit.
func (a *Attempt) Save(userID string) (UpdateRequest, error) {
	if a.Phase != PhaseEditing {
		return UpdateRequest{}, a.wrongPhase()
	}
	if len(a.Units) == 0 {
		return UpdateRequest{}, apierror.Validation("A transaction needs at least one item")
	}
	items := a.Items()
	for i := range items {
		items[i].Price = model.RoundMoney(items[i].Price)
		items[i].Discount = model.RoundMoney(items[i].Discount)
	}
	req := UpdateRequest{
		TransactionID:  a.Sale.ID,
		Items:          items,
		GlobalDiscount: model.RoundMoney(a.GlobalDiscount),
		CashTendered:   model.RoundMoney(a.Sale.CashTendered),
		UserID:         userID,
	}
	a.pending = &req
	a.Phase = PhaseSaving
	a.Error = ""
	return req, nil
}

// EnterPayment validates the additional payment typed by the cashier and,
// when it covers the balance, moves to SavingWithPayment and returns the
// pending request with the payment attached.
func (a *Attempt) EnterPayment(raw string) (UpdateRequest, error) {
	if a.Phase != PhaseAdditionalPaymentRequired && a.Phase != PhaseEditingPayment {
		return UpdateRequest{}, a.wrongPhase()
	}
	a.Phase = PhaseEditingPayment
	a.PaymentInput = raw

	amount, ok := checkout.ParseAmount(checkout.SanitizeAmount(raw))
	if !ok {
		a.Error = "Enter the additional payment"
		return UpdateRequest{}, apierror.Validation(a.Error)
	}
	if amount.LessThan(a.BalanceDue) {
		a.Error = fmt.Sprintf("Additional payment must be at least %s", a.BalanceDue.StringFixed(2))
		return UpdateRequest{}, apierror.Validation(a.Error)
	}

	req := *a.pending
	paid := model.RoundMoney(amount)
	req.AdditionalPayment = &paid
	a.Phase = PhaseSavingWithPayment
	a.Error = ""
	return req, nil
}

// Resolve applies the translated backend answer to a saving attempt.
func (a *Attempt) Resolve(v Verdict) {
	if a.Phase != PhaseSaving && a.Phase != PhaseSavingWithPayment {
		return
	}
	switch v.Kind {
	case VerdictSuccess:
		a.Phase = PhaseSuccess
		a.ChangeDue = v.ChangeDue
		a.Error = ""
	case VerdictBalanceDue:
		a.Phase = PhaseAdditionalPaymentRequired
		a.BalanceDue = v.BalanceDue
		a.PaymentInput = ""
		a.Error = ""
	default:
		a.Fail(v.Message)
	}
}

// Fail returns a saving attempt to Editing with msg. A pending additional
// payment is dropped; the edits are kept.
func (a *Attempt) Fail(msg string) {
	if a.Phase != PhaseSaving && a.Phase != PhaseSavingWithPayment {
		return
	}
	a.toEditing()
	a.Error = msg
}

// ReturnToEdit closes the additional payment prompt and goes back to the
// item editor. The pending request is dropped.
func (a *Attempt) ReturnToEdit() error {
	if a.Phase != PhaseAdditionalPaymentRequired && a.Phase != PhaseEditingPayment {
		return a.wrongPhase()
	}
	a.toEditing()
	a.Error = ""
	return nil
}

func (a *Attempt) toEditing() {
	a.Phase = PhaseEditing
	a.pending = nil
	a.BalanceDue = decimal.Zero
	a.PaymentInput = ""
}

// CashCovered is the cash the backend holds once the pending request lands.
func (a *Attempt) CashCovered() decimal.Decimal {
	if a.pending == nil {
		return a.Sale.CashTendered
	}
	cash := a.pending.CashTendered
	if a.Phase == PhaseSavingWithPayment {
		if amount, ok := checkout.ParseAmount(checkout.SanitizeAmount(a.PaymentInput)); ok {
			cash = cash.Add(amount)
		}
	}
	return cash
}

func (a *Attempt) editableUnit(i int) error {
	if a.Phase != PhaseEditing {
		return a.wrongPhase()
	}
	if i < 0 || i >= len(a.Units) {
		return apierror.NotFound("Unit not found")
	}
	return nil
}

func (a *Attempt) wrongPhase() error {
	return apierror.Validation(fmt.Sprintf("Not allowed while %s", a.Phase))
}
