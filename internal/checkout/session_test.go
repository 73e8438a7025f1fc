package checkout

import (
	"sync"
	"testing"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_FailedCommandKeepsState(t *testing.T) {
	s := NewState()
	p := product("1", "A", 100, 60, 2)
	s, _, err := Reduce(s, AddItem{Product: p, Source: SourceScan})
	require.NoError(t, err)
	s, _, err = Reduce(s, SetPickQuantity{Quantity: 5})
	require.NoError(t, err)

	next, _, err := Reduce(s, AddItem{Product: p, Source: SourceManual})
	require.Error(t, err)
	assert.Equal(t, 1, next.QuantityOf("1"))
	// A rejected add does not reset the picker.
	assert.Equal(t, 5, next.PickQuantity())
}

func TestAddItem_SourceDefaults(t *testing.T) {
	s := NewState()
	p := product("1", "A", 1, 0.5, 20)

	s, out, err := Reduce(s, AddItem{Product: p, Source: SourceScan})
	require.NoError(t, err)
	assert.True(t, out.Acknowledged)
	assert.Equal(t, 1, s.QuantityOf("1"))

	s, _, err = Reduce(s, SetPickQuantity{Quantity: 4})
	require.NoError(t, err)
	s, _, err = Reduce(s, SelectProduct{Product: &p})
	require.NoError(t, err)
	s, _, err = Reduce(s, AddItem{Product: p, Source: SourceManual})
	require.NoError(t, err)
	assert.Equal(t, 5, s.QuantityOf("1"))

	// Success resets the picker.
	assert.Equal(t, 1, s.PickQuantity())
	_, selected := s.Selected()
	assert.False(t, selected)

	s, _, err = Reduce(s, AddItem{Product: p, Source: SourceManual, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, s.QuantityOf("1"))
}

func TestSetPickQuantity_RejectsZero(t *testing.T) {
	_, _, err := Reduce(NewState(), SetPickQuantity{Quantity: 0})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestAddScanned_TracksAndRejectsRepeat(t *testing.T) {
	s := NewState()
	a := product("1", "A", 1, 0.5, 10)
	b := product("2", "B", 2, 1, 10)
	cmd := AddScanned{Signature: "sig", Items: []ScannedItem{{a, 2}, {b, 1}}}

	s, out, err := Reduce(s, cmd)
	require.NoError(t, err)
	assert.True(t, out.Acknowledged)
	assert.Len(t, out.Lines, 2)
	assert.Equal(t, []string{"1", "2"}, s.Tracked("sig"))

	_, _, err = Reduce(s, cmd)
	assert.Equal(t, apierror.KindDuplicate, apierror.KindOf(err))
}

func TestAddScanned_ReleasedAfterItemsLeave(t *testing.T) {
	s := NewState()
	a := product("1", "A", 1, 0.5, 10)
	cmd := AddScanned{Signature: "sig", Items: []ScannedItem{{a, 1}}}
	s, out, err := Reduce(s, cmd)
	require.NoError(t, err)
	lineID := out.Lines[0].ID

	s, out, err = Reduce(s, RemoveItem{LineID: lineID})
	require.NoError(t, err)
	assert.Equal(t, []string{"sig"}, out.Released)
	assert.False(t, s.SignatureBlocked("sig"))

	s, _, err = Reduce(s, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, s.QuantityOf("1"))
}

func TestAddScanned_PartialStockFailureWarns(t *testing.T) {
	s := NewState()
	a := product("1", "A", 1, 0.5, 10)
	b := product("2", "B", 2, 1, 1)
	s, out, err := Reduce(s, AddScanned{Signature: "sig", Items: []ScannedItem{{a, 2}, {b, 3}}})
	require.NoError(t, err)

	assert.Len(t, out.Lines, 1)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "Only 1 of B")
	assert.Equal(t, 2, s.QuantityOf("1"))
	assert.False(t, s.ContainsProduct("2"))
}

func TestAddScanned_NothingAddedFailsWithoutTracking(t *testing.T) {
	s := NewState()
	b := product("2", "B", 2, 1, 0)
	next, _, err := Reduce(s, AddScanned{Signature: "sig", Items: []ScannedItem{{b, 1}}})
	require.Error(t, err)
	assert.Equal(t, apierror.KindStock, apierror.KindOf(err))
	assert.Equal(t, 0, next.TrackedCount())
}

func TestAddScanned_NoItemsIsNotFound(t *testing.T) {
	_, _, err := Reduce(NewState(), AddScanned{Signature: "sig"})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestClearCart_ResetsEverything(t *testing.T) {
	s := NewState()
	a := product("1", "A", 1, 0.5, 10)
	s, _, _ = Reduce(s, AddScanned{Signature: "sig", Items: []ScannedItem{{a, 1}}})
	s, _, _ = Reduce(s, SetCashTendered{Raw: "20"})
	s, _, _ = Reduce(s, SetTotalOverride{Raw: "1"})
	s, _, _ = Reduce(s, SetPickQuantity{Quantity: 3})

	s, _, err := Reduce(s, ClearCart{})
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.TrackedCount())
	assert.Empty(t, s.CashTendered())
	assert.Empty(t, s.TotalOverride())
	assert.Equal(t, 1, s.PickQuantity())
}

func TestSetCashTendered_Sanitizes(t *testing.T) {
	s, _, err := Reduce(NewState(), SetCashTendered{Raw: "$1,000.5.0"})
	require.NoError(t, err)
	assert.Equal(t, "1000.50", s.CashTendered())
}

// End to end: price 100, cost 60, stock 5, qty 2.
func TestSession_CheckoutScenario(t *testing.T) {
	sess := NewSession()
	a := model.Product{ID: "A", Name: "Product A", Price: dec("100"), CostPrice: dec("60"), Stock: 5}

	_, err := sess.Dispatch(AddItem{Product: a, Source: SourceManual, Quantity: 2})
	require.NoError(t, err)
	tot := sess.Snapshot().Totals()
	assertDec(t, "200", tot.Subtotal)
	assertDec(t, "80", tot.TotalProfit)

	_, err = sess.Dispatch(SetCashTendered{Raw: "150"})
	require.NoError(t, err)
	tot = sess.Snapshot().Totals()
	assertDec(t, "-50", tot.Change)
	assert.True(t, tot.Insufficient)

	_, err = sess.Dispatch(SetCashTendered{Raw: "250"})
	require.NoError(t, err)
	tot = sess.Snapshot().Totals()
	assertDec(t, "50", tot.Change)
	assert.False(t, tot.Insufficient)
}

func TestSession_ConcurrentDispatch(t *testing.T) {
	sess := NewSession()
	p := product("1", "A", 1, 0.5, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sess.Dispatch(AddItem{Product: p, Source: SourceScan})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, sess.Snapshot().QuantityOf("1"))
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	sess := NewSession()
	p := product("1", "A", 1, 0.5, 10)
	_, err := sess.Dispatch(AddItem{Product: p, Source: SourceScan})
	require.NoError(t, err)

	snap := sess.Snapshot()
	_, err = sess.Dispatch(ClearCart{})
	require.NoError(t, err)
	assert.False(t, snap.Empty())
	assert.True(t, sess.Snapshot().Empty())
}
