package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"shopmanager/internal/apierror"
	"shopmanager/internal/infra"
	"shopmanager/internal/model"
	"shopmanager/internal/repository"
	"shopmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type InvoicesHandler struct {
	svc      service.CheckoutService
	invoices repository.InvoiceRepository
	settings repository.SettingsRepository
	storage  string
}

func NewInvoicesHandler(
	svc service.CheckoutService,
	invoices repository.InvoiceRepository,
	settings repository.SettingsRepository,
	storagePath string,
) *InvoicesHandler {
	return &InvoicesHandler{svc: svc, invoices: invoices, settings: settings, storage: storagePath}
}

// List returns all invoices, newest first, without line items.
func (h *InvoicesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListInvoices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list invoices"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID returns one invoice with its line items and product names.
func (h *InvoicesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Invoice not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt godoc
// @Summary Download the PDF receipt for an invoice
// @Description Streams the stored receipt; renders it on the spot when the background worker has not produced it yet.
// @Tags invoices
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Invoice UUID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/invoices/{id}/receipt [get]
func (h *InvoicesHandler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	inv, err := h.invoices.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Invoice not found"))
		return
	}

	fileName := fmt.Sprintf("Invoice_%s.pdf", inv.InvoiceNumber)
	pdfPath := filepath.Join(h.storage, fileName)
	if _, err := os.Stat(pdfPath); err != nil {
		// Worker has not rendered it yet (or the file was removed): render now.
		pdfPath, err = infra.GenerateReceiptPDF(inv, h.shopHeader(c), h.storage)
		if err != nil {
			log.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("on-demand receipt render failed")
			c.JSON(http.StatusInternalServerError, apierror.New("Failed to render receipt"))
			return
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.File(pdfPath)
}

func (h *InvoicesHandler) shopHeader(c *gin.Context) infra.ReceiptHeader {
	header := infra.ReceiptHeader{ShopName: model.DefaultShopName}
	values, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		return header
	}
	if v, ok := values[model.SettingShopName]; ok && v != "" {
		header.ShopName = v
	}
	if v, ok := values[model.SettingTaxNumber]; ok {
		header.TaxNumber = v
	}
	return header
}

// invoiceExportRow is the CSV shape of one invoice for report downloads.
type invoiceExportRow struct {
	InvoiceID     string `csv:"Invoice ID"`
	Date          string `csv:"Date"`
	PaymentMethod string `csv:"Payment Method"`
	TotalAmount   string `csv:"Total Amount"`
}

// ExportCSV godoc
// @Summary Export all invoices as CSV
// @Description Streams every invoice, newest first, as a CSV file.
// @Tags invoices
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /v1/invoices/export.csv [get]
func (h *InvoicesHandler) ExportCSV(c *gin.Context) {
	invs, err := h.invoices.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to export invoices"))
		return
	}

	rows := make([]invoiceExportRow, 0, len(invs))
	for _, inv := range invs {
		rows = append(rows, invoiceExportRow{
			InvoiceID:     inv.InvoiceNumber,
			Date:          inv.CreatedAt.Local().Format("2006-01-02 15:04"),
			PaymentMethod: inv.PaymentMethod,
			TotalAmount:   inv.TotalAmount.StringFixed(2),
		})
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="sales_report.csv"`)
	c.Status(http.StatusOK)
	if err := gocsv.Marshal(&rows, c.Writer); err != nil {
		log.Error().Err(err).Msg("CSV export write failed")
	}
}
