package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	r := model.Receipt{
		TransactionID: "T/31",
		Timestamp:     "2026-03-01 12:00:00",
		Items: []model.CartLine{
			{ID: 1, ProductID: "A", Name: "Product A", Quantity: 2, Price: decimal.NewFromInt(100), SellPrice: decimal.NewFromInt(100)},
		},
		Total:        decimal.NewFromInt(200),
		CashTendered: decimal.NewFromInt(250),
		Change:       decimal.NewFromInt(50),
	}

	path, err := GenerateReceiptPDF("Corner Shop", r, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "receipt_T31.pdf"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "T-31_a", fileSafe("T-31_a"))
	assert.Equal(t, "abc", fileSafe("../a b/c"))
	assert.Equal(t, "unknown", fileSafe("///"))
}
