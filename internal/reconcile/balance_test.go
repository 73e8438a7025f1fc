package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		name    string
		res     UpdateResult
		kind    VerdictKind
		balance string
		change  string
		message string
		cash    string
	}{
		{
			name:    "explicit balance",
			res:     UpdateResult{Success: false, Message: "Additional payment required", BalanceDue: nd("100")},
			kind:    VerdictBalanceDue,
			balance: "100",
		},
		{
			name:    "balance inferred from amounts",
			res:     UpdateResult{Success: false, TotalAmount: nd("500"), CashTendered: nd("400")},
			kind:    VerdictBalanceDue,
			balance: "100",
		},
		{
			name:    "balance inferred from message",
			res:     UpdateResult{Success: false, Message: "Cash tendered (400.00) is less than the total (500.00)"},
			kind:    VerdictBalanceDue,
			balance: "50",
		},
		{
			name:    "flag without figures falls back to client totals",
			res:     UpdateResult{Success: true, RequiresAdditionalPayment: true},
			kind:    VerdictBalanceDue,
			balance: "50",
		},
		{
			name:   "amounts ignored on plain success",
			res:    UpdateResult{Success: true, TotalAmount: nd("500"), CashTendered: nd("400"), ChangeDue: nd("0")},
			kind:   VerdictSuccess,
			change: "0",
		},
		{
			name:   "success with change",
			res:    UpdateResult{Success: true, ChangeDue: nd("12.5")},
			kind:   VerdictSuccess,
			change: "12.5",
		},
		{
			name:   "zero balance is success",
			res:    UpdateResult{Success: true, BalanceDue: nd("0")},
			kind:   VerdictSuccess,
			change: "0",
		},
		{
			name:    "business rejection",
			res:     UpdateResult{Success: false, Message: "Insufficient stock for Cola"},
			kind:    VerdictFailure,
			message: "Insufficient stock for Cola",
		},
		{
			name:    "rejection without message",
			res:     UpdateResult{Success: false},
			kind:    VerdictFailure,
			message: "Failed to update transaction",
		},
		{
			name:    "cash message but client cash covers",
			res:     UpdateResult{Success: false, Message: "cash tendered is less than total"},
			kind:    VerdictFailure,
			message: "cash tendered is less than total",
			cash:    "500",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			edited, cash := dec("450"), dec("400")
			if tc.cash != "" {
				cash = dec(tc.cash)
			}
			v := Translate(tc.res, edited, cash)
			assert.Equal(t, tc.kind, v.Kind)
			if tc.balance != "" {
				assertDec(t, tc.balance, v.BalanceDue)
			}
			if tc.change != "" {
				assertDec(t, tc.change, v.ChangeDue)
			}
			if tc.message != "" {
				assert.Equal(t, tc.message, v.Message)
			}
		})
	}
}

func TestIsInsufficientCashMessage(t *testing.T) {
	assert.True(t, IsInsufficientCashMessage("Cash tendered is LESS THAN total amount"))
	assert.False(t, IsInsufficientCashMessage("Cash tendered accepted"))
	assert.False(t, IsInsufficientCashMessage(""))
}
