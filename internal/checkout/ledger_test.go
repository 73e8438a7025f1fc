package checkout

import (
	"testing"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func product(id, name string, price, cost float64, stock int) model.Product {
	return model.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.NewFromFloat(price),
		CostPrice: decimal.NewFromFloat(cost),
		Stock:     stock,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

// ── Add ───────────────────────────────────────────────────────────────────────

func TestLedgerAdd_NewLineDefaults(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)

	line, err := l.Add(p, KeyFor(p), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, line.ID)
	assert.Equal(t, 2, line.Quantity)
	assertDec(t, "1.5", line.SellPrice)
	assert.Nil(t, line.ItemTotal)
	assert.Equal(t, 1, l.Len())
}

func TestLedgerAdd_MergesSameProduct(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)

	_, err := l.Add(p, KeyFor(p), 1)
	require.NoError(t, err)
	line, err := l.Add(p, KeyFor(p), 3)
	require.NoError(t, err)

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, 4, l.QuantityOf("7"))
}

func TestLedgerAdd_OutOfStock(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 0)

	_, err := l.Add(p, KeyFor(p), 1)
	require.Error(t, err)
	assert.Equal(t, apierror.KindStock, apierror.KindOf(err))
	assert.Equal(t, 0, l.Len())
}

func TestLedgerAdd_OverStockLeavesLineUntouched(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 3)

	_, err := l.Add(p, KeyFor(p), 2)
	require.NoError(t, err)
	before := l.Lines()

	_, err = l.Add(p, KeyFor(p), 2)
	require.Error(t, err)
	assert.Equal(t, apierror.KindStock, apierror.KindOf(err))
	assert.Equal(t, before, l.Lines())
}

func TestLedgerAdd_NewLineOverStock(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 3)

	_, err := l.Add(p, KeyFor(p), 4)
	require.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestLedgerAdd_RejectsZeroQuantity(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 3)

	_, err := l.Add(p, KeyFor(p), 0)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestLedgerMatch_ByQRCode(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	p.QRCodeData = "QR-7"
	_, err := l.Add(p, KeyFor(p), 1)
	require.NoError(t, err)

	// Same tag resolved without an id still lands on the existing line.
	line, err := l.Add(p, MatchKey{QRCodeData: "QR-7"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, line.Quantity)
}

func TestLedgerMatch_NameAndPriceFallbackMergesDistinctProducts(t *testing.T) {
	l := NewLedger()
	a := product("1", "Water", 1, 0.5, 10)
	b := product("2", "Water", 1, 0.5, 10)

	_, err := l.Add(a, KeyFor(a), 1)
	require.NoError(t, err)
	// Different id, same name and price: the fallback matcher merges them.
	_, err = l.Add(b, MatchKey{Name: b.Name, Price: b.Price}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, l.Lines()[0].Quantity)
}

func TestLedgerMatch_IDWinsOverEarlierNameMatch(t *testing.T) {
	l := NewLedger()
	a := product("1", "Water", 1, 0.5, 10)
	b := product("2", "Water", 2, 0.5, 10)
	_, err := l.Add(a, KeyFor(a), 1)
	require.NoError(t, err)
	_, err = l.Add(b, KeyFor(b), 1)
	require.NoError(t, err)

	line, err := l.Add(b, MatchKey{ProductID: "2", Name: "Water", Price: dec("1")}, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", line.ProductID)
	assert.Equal(t, 2, line.Quantity)
}

// ── Remove ────────────────────────────────────────────────────────────────────

func TestLedgerRemove_DecrementsThenDeletes(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	line, _ := l.Add(p, KeyFor(p), 2)

	got, err := l.Remove(line.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	assert.True(t, l.ContainsProduct("7"))

	got, err = l.Remove(line.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	assert.False(t, l.ContainsProduct("7"))
}

func TestLedgerRemove_UnknownLine(t *testing.T) {
	l := NewLedger()
	_, err := l.Remove(42)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestLedger_IDsKeepIncreasingAfterDelete(t *testing.T) {
	l := NewLedger()
	a := product("1", "A", 1, 0.5, 10)
	b := product("2", "B", 1, 0.5, 10)
	first, _ := l.Add(a, KeyFor(a), 1)
	_, err := l.Remove(first.ID)
	require.NoError(t, err)

	second, _ := l.Add(b, KeyFor(b), 1)
	assert.Equal(t, 2, second.ID)
}

// ── UpdateItemTotal ───────────────────────────────────────────────────────────

func TestLedgerUpdateItemTotal_DerivesSellPrice(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	line, _ := l.Add(p, KeyFor(p), 4)

	got, err := l.UpdateItemTotal(line.ID, "$5.00")
	require.NoError(t, err)
	require.NotNil(t, got.ItemTotal)
	assertDec(t, "5", *got.ItemTotal)
	assertDec(t, "1.25", got.SellPrice)
	assertDec(t, "5", got.Total())
}

func TestLedgerUpdateItemTotal_EmptyRestoresPrice(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	line, _ := l.Add(p, KeyFor(p), 4)
	_, err := l.UpdateItemTotal(line.ID, "5")
	require.NoError(t, err)

	got, err := l.UpdateItemTotal(line.ID, "")
	require.NoError(t, err)
	assert.Nil(t, got.ItemTotal)
	assertDec(t, "1.5", got.SellPrice)
}

func TestLedgerUpdateItemTotal_ZeroIsAllowed(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	line, _ := l.Add(p, KeyFor(p), 2)

	got, err := l.UpdateItemTotal(line.ID, "0")
	require.NoError(t, err)
	assertDec(t, "0", got.SellPrice)
}

func TestLedgerUpdateItemTotal_LoneDotIsInvalid(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	line, _ := l.Add(p, KeyFor(p), 2)

	_, err := l.UpdateItemTotal(line.ID, "abc.")
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	got, _ := l.Line(line.ID)
	assert.Nil(t, got.ItemTotal)
}

func TestLedger_OverriddenLineKeepsUnitPriceOnMerge(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	line, _ := l.Add(p, KeyFor(p), 2)
	_, err := l.UpdateItemTotal(line.ID, "2")
	require.NoError(t, err)

	got, err := l.Add(p, KeyFor(p), 1)
	require.NoError(t, err)
	assertDec(t, "1", got.SellPrice)
	require.NotNil(t, got.ItemTotal)
	assertDec(t, "3", *got.ItemTotal)
}

func TestSanitizeAmount(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"12":        "12",
		"$1,234.50": "1234.50",
		"1.2.3":     "1.23",
		" 7 . 5 ":   "7.5",
		"-3":        "3",
		"abc":       "",
		"..":        ".",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeAmount(in), "input %q", in)
	}
}

func TestLedgerClone_IsDeep(t *testing.T) {
	l := NewLedger()
	p := product("7", "Cola", 1.5, 0.9, 10)
	line, _ := l.Add(p, KeyFor(p), 2)
	_, err := l.UpdateItemTotal(line.ID, "2")
	require.NoError(t, err)

	c := l.Clone()
	_, err = c.UpdateItemTotal(line.ID, "9")
	require.NoError(t, err)

	orig, _ := l.Line(line.ID)
	assertDec(t, "2", *orig.ItemTotal)
}
