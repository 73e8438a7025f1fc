package service

import (
	"context"
	"testing"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var heater = model.Product{ID: "B", Name: "Heater", Price: dec("500"), CostPrice: dec("300"), Stock: 2}

func lampSale() model.Sale {
	return model.Sale{
		ID:           "T-1",
		Items:        []model.SaleItem{{ProductID: "A", Name: "Lamp", Quantity: 1, Price: dec("400"), CostPrice: dec("250")}},
		CashTendered: dec("400"),
		TotalAmount:  dec("400"),
		UserID:       "7",
	}
}

// balanceBackend answers like the PHP backend: an update whose total exceeds
// the cash held is rejected with the amounts.
func balanceBackend(req reconcile.UpdateRequest) reconcile.UpdateResult {
	total := reconcile.EditedTotal(req.Items, req.GlobalDiscount)
	cash := req.CashTendered
	if req.AdditionalPayment != nil {
		cash = cash.Add(*req.AdditionalPayment)
	}
	if cash.LessThan(total) {
		return reconcile.UpdateResult{
			Message:      "Cash tendered is less than the new total",
			TotalAmount:  decimal.NewNullDecimal(total),
			CashTendered: decimal.NewNullDecimal(cash),
		}
	}
	return reconcile.UpdateResult{Success: true, ChangeDue: decimal.NewNullDecimal(cash.Sub(total))}
}

func openedFixture(t *testing.T) (ReconciliationService, *stubBackend) {
	t.Helper()
	backend := newStubBackend(heater)
	backend.sales = []model.Sale{lampSale()}
	backend.updateFn = balanceBackend
	svc := NewReconciliationService(backend, NewCatalog(), "7")

	list, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	resp, err := svc.Open("T-1")
	require.NoError(t, err)
	require.Equal(t, reconcile.PhaseViewing, resp.Phase)
	return svc, backend
}

func TestReconciliation_AdditionalPaymentScenario(t *testing.T) {
	svc, backend := openedFixture(t)
	ctx := context.Background()

	_, err := svc.BeginEdit()
	require.NoError(t, err)
	resp, err := svc.ReplaceUnit(ctx, 0, "B")
	require.NoError(t, err)
	assertDec(t, "500", resp.EditedTotal)

	resp, err = svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.PhaseAdditionalPaymentRequired, resp.Phase)
	assertDec(t, "100", resp.BalanceDue)

	resp, err = svc.SubmitPayment(ctx, "60")
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	require.NotNil(t, resp)
	assert.Equal(t, reconcile.PhaseEditingPayment, resp.Phase)
	assert.Len(t, backend.updates, 1, "short payment is not submitted")

	resp, err = svc.SubmitPayment(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, reconcile.PhaseSuccess, resp.Phase)
	assertDec(t, "0", resp.ChangeDue)

	require.Len(t, backend.updates, 2)
	second := backend.updates[1]
	require.NotNil(t, second.AdditionalPayment)
	assertDec(t, "100", *second.AdditionalPayment)
	assert.Equal(t, backend.updates[0].Items, second.Items)
	assert.Equal(t, "7", second.UserID)
}

func TestReconciliation_NetworkFailureKeepsEdits(t *testing.T) {
	svc, backend := openedFixture(t)
	backend.updateErr = apierror.Network("Failed to connect to server", context.DeadlineExceeded)
	ctx := context.Background()

	_, err := svc.BeginEdit()
	require.NoError(t, err)
	_, err = svc.AddUnit(ctx, "B")
	require.NoError(t, err)

	resp, err := svc.Save(ctx)
	assert.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
	require.NotNil(t, resp)
	assert.Equal(t, reconcile.PhaseEditing, resp.Phase)
	assert.Equal(t, "Failed to connect to server", resp.Error)
	assert.Len(t, resp.Units, 2)

	backend.updateErr = nil
	resp, err = svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.PhaseAdditionalPaymentRequired, resp.Phase)
	assertDec(t, "500", resp.BalanceDue)
}

func TestReconciliation_PaymentFailureReturnsToEditing(t *testing.T) {
	svc, backend := openedFixture(t)
	ctx := context.Background()

	_, err := svc.BeginEdit()
	require.NoError(t, err)
	_, err = svc.ReplaceUnit(ctx, 0, "B")
	require.NoError(t, err)
	resp, err := svc.Save(ctx)
	require.NoError(t, err)
	require.Equal(t, reconcile.PhaseAdditionalPaymentRequired, resp.Phase)

	backend.updateErr = apierror.Network("Failed to connect to server", context.DeadlineExceeded)
	resp, err = svc.SubmitPayment(ctx, "100")
	assert.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
	require.NotNil(t, resp)
	assert.Equal(t, reconcile.PhaseEditing, resp.Phase)
	assert.Equal(t, "Failed to connect to server", resp.Error)
	assert.True(t, resp.BalanceDue.IsZero())
	assertDec(t, "500", resp.EditedTotal)

	backend.updateErr = nil
	resp, err = svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.PhaseAdditionalPaymentRequired, resp.Phase)
	assert.Nil(t, backend.updates[len(backend.updates)-1].AdditionalPayment)
}

func TestReconciliation_BusinessRejection(t *testing.T) {
	svc, backend := openedFixture(t)
	backend.updateFn = func(reconcile.UpdateRequest) reconcile.UpdateResult {
		return reconcile.UpdateResult{Message: "Heater is out of stock"}
	}
	ctx := context.Background()

	_, err := svc.BeginEdit()
	require.NoError(t, err)
	resp, err := svc.Save(ctx)
	assert.Equal(t, apierror.KindBusiness, apierror.KindOf(err))
	assert.Equal(t, "Heater is out of stock", apierror.Message(err))
	assert.Equal(t, reconcile.PhaseEditing, resp.Phase)
}

func TestReconciliation_ReturnToEditAndDiscounts(t *testing.T) {
	svc, _ := openedFixture(t)
	ctx := context.Background()

	_, err := svc.BeginEdit()
	require.NoError(t, err)
	_, err = svc.ReplaceUnit(ctx, 0, "B")
	require.NoError(t, err)
	_, err = svc.Save(ctx)
	require.NoError(t, err)

	resp, err := svc.ReturnToEdit()
	require.NoError(t, err)
	assert.Equal(t, reconcile.PhaseEditing, resp.Phase)

	_, err = svc.SetUnitDiscount(0, "60")
	require.NoError(t, err)
	resp, err = svc.SetGlobalDiscount("40")
	require.NoError(t, err)
	assertDec(t, "400", resp.EditedTotal)

	resp, err = svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.PhaseSuccess, resp.Phase)
}

func TestReconciliation_NothingOpen(t *testing.T) {
	svc := NewReconciliationService(newStubBackend(), NewCatalog(), "7")

	_, err := svc.Current()
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
	_, err = svc.Open("T-9")
	assert.Equal(t, "Transaction not found", apierror.Message(err))
	_, err = svc.Save(context.Background())
	assert.Equal(t, "No transaction is being edited", apierror.Message(err))
}

func TestReconciliation_CancelAndUnknownProduct(t *testing.T) {
	svc, _ := openedFixture(t)
	ctx := context.Background()

	_, err := svc.BeginEdit()
	require.NoError(t, err)
	_, err = svc.ReplaceUnit(ctx, 0, "nope")
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	svc.Cancel()
	_, err = svc.Current()
	assert.Error(t, err)
}
