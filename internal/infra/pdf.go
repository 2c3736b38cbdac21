package infra

// pdf.go — receipt rendering using go-pdf/fpdf.
// Produces a fixed-page-size (A5 portrait) document for a committed invoice:
//   - Shop name and tax number header (from shop settings)
//   - Invoice number, date/time, payment method
//   - Item table (product name, quantity, unit price, line total)
//   - Subtotal / tax / total footer
//
// The output file is saved to storagePath/Invoice_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"shopmanager/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReceiptHeader carries the shop identity printed on every receipt.
type ReceiptHeader struct {
	ShopName  string
	TaxNumber string
}

// GenerateReceiptPDF renders the invoice to a PDF file under storagePath
// (created if needed) and returns the absolute path of the generated file.
// The invoice must be loaded with its Items and their Products.
func GenerateReceiptPDF(inv *model.Invoice, header ReceiptHeader, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("Invoice_%s.pdf", inv.InvoiceNumber)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 8, header.ShopName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if header.TaxNumber != "" {
		pdf.CellFormat(contentW, 5, "Tax No: "+header.TaxNumber, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	// ── Invoice info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW/2, 5, "Inv No: "+inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, inv.CreatedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW, 5, "Payment: "+inv.PaymentMethod, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product name
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.20 // unit price
	col4 := contentW * 0.22 // line total

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Total", "B", 1, "R", false, 0, "")

	// ── Item rows ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, item := range inv.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		name = truncate(name, 30)
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1+col2+col3, 5, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "$"+inv.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.CellFormat(col1+col2+col3, 5, fmt.Sprintf("Tax (%s%%):", inv.TaxPercent.StringFixed(0)), "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "$"+inv.TaxAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "$"+inv.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// truncate caps s at max runes, ellipsis included. Slicing runes rather than
// bytes keeps multibyte product names from being cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
