package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UpdateRequest is a transaction update as the backend expects it.
type UpdateRequest struct {
	TransactionID     string
	Items             []GroupedItem
	GlobalDiscount    decimal.Decimal
	CashTendered      decimal.Decimal
	UserID            string
	AdditionalPayment *decimal.Decimal
}

// UpdateResult is the backend answer to an UpdateRequest. Success is false
// for a non-"success" status; the data fields may still be present.
type UpdateResult struct {
	Success                   bool
	Message                   string
	BalanceDue                decimal.NullDecimal
	RequiresAdditionalPayment bool
	TotalAmount               decimal.NullDecimal
	CashTendered              decimal.NullDecimal
	ChangeDue                 decimal.NullDecimal
}

// VerdictKind is what the client must do after an update answer.
type VerdictKind int

const (
	VerdictSuccess VerdictKind = iota
	VerdictBalanceDue
	VerdictFailure
)

// Verdict is the translated backend answer.
type Verdict struct {
	Kind       VerdictKind
	BalanceDue decimal.Decimal
	ChangeDue  decimal.Decimal
	Message    string
}

// Translate turns an update answer into a Verdict. editedTotal and cash are
// the client's own figures, used only when the backend reports an
// underpayment through its message alone.
//
// This is the single place that knows how the current backend signals an
// underpayment.
func Translate(res UpdateResult, editedTotal, cash decimal.Decimal) Verdict {
	if res.BalanceDue.Valid && res.BalanceDue.Decimal.IsPositive() {
		return Verdict{Kind: VerdictBalanceDue, BalanceDue: res.BalanceDue.Decimal, Message: res.Message}
	}

	if !res.Success || res.RequiresAdditionalPayment {
		if res.TotalAmount.Valid && res.CashTendered.Valid {
			if due := res.TotalAmount.Decimal.Sub(res.CashTendered.Decimal); due.IsPositive() {
				return Verdict{Kind: VerdictBalanceDue, BalanceDue: due, Message: res.Message}
			}
		}
	}

	if res.RequiresAdditionalPayment || (!res.Success && IsInsufficientCashMessage(res.Message)) {
		if due := editedTotal.Sub(cash); due.IsPositive() {
			return Verdict{Kind: VerdictBalanceDue, BalanceDue: due, Message: res.Message}
		}
	}

	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Failed to update transaction"
		}
		return Verdict{Kind: VerdictFailure, Message: msg}
	}

	change := decimal.Zero
	if res.ChangeDue.Valid {
		change = res.ChangeDue.Decimal
	}
	return Verdict{Kind: VerdictSuccess, ChangeDue: change, Message: res.Message}
}

// IsInsufficientCashMessage matches the backend's "cash tendered ... less
// than ..." rejection.
func IsInsufficientCashMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "cash tendered") && strings.Contains(m, "less than")
}
