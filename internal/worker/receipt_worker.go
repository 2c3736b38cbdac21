package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: loads the already-committed
// invoice, renders the PDF receipt, and optionally enqueues an email job.
// Runs strictly after the checkout transaction — a failure here is logged
// and never affects persisted data.

import (
	"context"
	"encoding/json"
	"fmt"

	"shopmanager/internal/infra"
	"shopmanager/internal/model"
	"shopmanager/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders PDF receipts for committed invoices.
type ReceiptWorker struct {
	invoices   repository.InvoiceRepository
	settings   repository.SettingsRepository
	dispatcher *Dispatcher
	storage    string
}

func NewReceiptWorker(
	invoices repository.InvoiceRepository,
	settings repository.SettingsRepository,
	dispatcher *Dispatcher,
	storagePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		invoices:   invoices,
		settings:   settings,
		dispatcher: dispatcher,
		storage:    storagePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the invoice (with items and products) from DB
//  3. Read the shop header from settings (defaults when unset)
//  4. Render the PDF receipt
//  5. Optionally enqueue an email job with the PDF attached
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("receipt_worker: invalid invoice_id")
		return
	}

	inv, err := w.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("receipt_worker: invoice not found")
		return
	}

	header := w.shopHeader(ctx)
	pdfPath, err := infra.GenerateReceiptPDF(inv, header, w.storage)
	if err != nil {
		log.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("invoice", inv.InvoiceNumber).Str("path", pdfPath).Msg("receipt_worker: receipt rendered")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.CustomerEmail,
			Subject: fmt.Sprintf("Your receipt %s from %s", inv.InvoiceNumber, header.ShopName),
			Body:    fmt.Sprintf("Thank you for your purchase. Your receipt %s is attached.", inv.InvoiceNumber),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Error().Err(err).Str("to", *payload.CustomerEmail).Msg("receipt_worker: failed to enqueue email")
		}
	}
}

func (w *ReceiptWorker) shopHeader(ctx context.Context) infra.ReceiptHeader {
	header := infra.ReceiptHeader{ShopName: model.DefaultShopName}
	values, err := w.settings.GetAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("receipt_worker: settings read failed, using defaults")
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
