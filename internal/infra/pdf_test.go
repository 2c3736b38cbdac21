package infra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"shopmanager/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() *model.Invoice {
	product := &model.Product{ID: uuid.New(), Name: "Espresso Beans 1kg"}
	return &model.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-000042",
		Items: []model.InvoiceItem{
			{
				ProductID: product.ID,
				Product:   product,
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("10.00"),
				LineTotal: decimal.RequireFromString("20.00"),
			},
		},
		Subtotal:      decimal.RequireFromString("20.00"),
		TaxPercent:    decimal.NewFromInt(18),
		TaxAmount:     decimal.RequireFromString("3.60"),
		TotalAmount:   decimal.RequireFromString("23.60"),
		PaymentMethod: "cash",
		CreatedAt:     time.Date(2026, 3, 14, 12, 30, 0, 0, time.Local),
	}
}

func TestGenerateReceiptPDF(t *testing.T) {
	dir := t.TempDir()

	path, err := GenerateReceiptPDF(sampleInvoice(), ReceiptHeader{
		ShopName:  "Test Shop",
		TaxNumber: "GST-99",
	}, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Invoice_INV-000042.pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500), "generated PDF looks empty")

	// %PDF magic bytes
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestTruncateRespectsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 30))

	long := strings.Repeat("ñ", 40)
	got := truncate(long, 30)
	assert.True(t, utf8.ValidString(got), "truncation split a multibyte rune")
	assert.Equal(t, 30, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("ñ", 29)+"…", got)

	// Exactly at the cap: untouched.
	exact := strings.Repeat("é", 30)
	assert.Equal(t, exact, truncate(exact, 30))
}

func TestGenerateReceiptPDFCreatesStorageDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "receipts")

	_, err := GenerateReceiptPDF(sampleInvoice(), ReceiptHeader{ShopName: "Shop"}, dir)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
