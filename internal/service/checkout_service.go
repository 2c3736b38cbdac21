package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopmanager/internal/cart"
	"shopmanager/internal/dto"
	"shopmanager/internal/model"
	"shopmanager/internal/repository"
	"shopmanager/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart build failures the HTTP layer maps to distinct status codes: a
// malformed id is the client's mistake, a missing product is a 404, and
// everything else (stock) is a conflict.
var (
	ErrInvalidProductID = errors.New("invalid product_id")
	ErrProductNotFound  = errors.New("product not found")
)

type CheckoutService interface {
	// BuildCart resolves the requested items against the catalog and returns
	// a validated cart. Quantities beyond available stock are rejected here,
	// at cart-build time, and re-checked again at commit time.
	BuildCart(ctx context.Context, items []dto.CheckoutItemRequest) (cart.Cart, error)
	// Checkout converts the cart into one persisted invoice. An empty cart
	// is a no-op: it returns (nil, nil) and writes nothing.
	Checkout(ctx context.Context, userID uuid.UUID, crt cart.Cart, paymentMethod string, taxPercent decimal.Decimal, customerEmail *string) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context) (*dto.InvoiceListResponse, error)
}

type checkoutService struct {
	invoices   repository.InvoiceRepository
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	dispatcher *worker.Dispatcher
	rdb        *redis.Client
}

func NewCheckoutService(
	invoices repository.InvoiceRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
	rdb *redis.Client,
) CheckoutService {
	return &checkoutService{
		invoices:   invoices,
		products:   products,
		movements:  movements,
		dispatcher: dispatcher,
		rdb:        rdb,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *checkoutService) BuildCart(ctx context.Context, items []dto.CheckoutItemRequest) (cart.Cart, error) {
	crt := cart.New()
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return crt, fmt.Errorf("%w: %q", ErrInvalidProductID, item.ProductID)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return crt, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		if item.Quantity > p.QuantityInStock {
			return crt, fmt.Errorf("insufficient stock for %q: %d requested, %d available", p.Name, item.Quantity, p.QuantityInStock)
		}
		for i := 0; i < item.Quantity; i++ {
			crt, err = crt.Add(*p)
			if err != nil {
				return crt, err
			}
		}
	}
	return crt, nil
}

// Checkout runs the whole sale as one atomic unit:
//  1. compute subtotal / tax / total from the cart snapshot
//  2. BEGIN TX: create invoice, one line item and one stock movement per
//     cart line, decrement each product's stock (guarded — the commit-time
//     re-check against concurrent modification)
//  3. COMMIT — any failure rolls everything back
//  4. invalidate derived read caches, dispatch receipt/email jobs
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID, crt cart.Cart, paymentMethod string, taxPercent decimal.Decimal, customerEmail *string) (*dto.InvoiceResponse, error) {
	if crt.IsEmpty() {
		return nil, nil
	}
	switch paymentMethod {
	case "cash", "card", "upi":
	default:
		return nil, fmt.Errorf("unsupported payment method %q", paymentMethod)
	}
	if taxPercent.IsNegative() {
		return nil, errors.New("tax_percent must not be negative")
	}

	subtotal := crt.Subtotal()
	taxAmount := subtotal.Mul(taxPercent).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(taxAmount)

	var inv model.Invoice
	attempt := func() error {
		return runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
			inv = model.Invoice{
				InvoiceNumber: nextInvoiceNumber(),
				Subtotal:      subtotal,
				TaxPercent:    taxPercent,
				TaxAmount:     taxAmount,
				TotalAmount:   total,
				PaymentMethod: paymentMethod,
				CreatedBy:     userID,
			}
			for _, line := range crt.Lines() {
				inv.Items = append(inv.Items, model.InvoiceItem{
					ProductID: line.Product.ID,
					Quantity:  line.Qty,
					UnitPrice: line.Product.SellingPrice,
					LineTotal: line.LineTotal(),
				})
			}

			if err := s.invoices.Create(ctx, tx, &inv); err != nil {
				return err
			}

			for _, line := range crt.Lines() {
				// Guarded decrement — fails when stock changed since the cart
				// was built, rolling the whole sale back.
				if err := s.products.DecrementStockTx(tx, line.Product.ID, line.Qty); err != nil {
					return fmt.Errorf("stock decrement for %q: %w", line.Product.Name, err)
				}

				invRef := inv.ID
				mov := &model.StockMovement{
					ProductID:          line.Product.ID,
					ChangeQuantity:     -line.Qty,
					Reason:             model.MovementReasonSale,
					ReferenceInvoiceID: &invRef,
					CreatedBy:          userID,
				}
				if err := s.movements.CreateTx(tx, mov); err != nil {
					return err
				}
			}
			return nil
		})
	}

	txErr := attempt()
	// Two sales inside the same millisecond window can collide on the
	// timestamp-derived number; one fresh attempt resolves it.
	if isDuplicateNumber(txErr) {
		txErr = attempt()
	}
	if txErr != nil {
		return nil, txErr
	}

	// Derived read models are now stale.
	invalidate(ctx, s.rdb,
		cacheKeyProducts, cacheKeyDashboardStats, cacheKeyReportStats, cacheKeyWeeklySales)

	// Receipt rendering and email are best-effort and strictly post-commit:
	// a failure there never touches the persisted sale.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			InvoiceID:     inv.ID.String(),
			CustomerEmail: customerEmail,
		})
	}

	resp := invoiceToResponse(&inv)
	for i, line := range crt.Lines() {
		resp.Items[i].Product = line.Product.Name
	}
	return resp, nil
}

func (s *checkoutService) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	return invoiceToResponse(inv), nil
}

func (s *checkoutService) ListInvoices(ctx context.Context) (*dto.InvoiceListResponse, error) {
	invoices, err := s.invoices.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceListResponse{
		Data:  make([]dto.InvoiceListItem, 0, len(invoices)),
		Total: int64(len(invoices)),
	}
	for i := range invoices {
		resp.Data = append(resp.Data, invoiceToListItem(&invoices[i]))
	}
	return resp, nil
}

// nextInvoiceNumber derives a human-readable, sequential-looking number from
// the millisecond clock: INV- plus the last six digits. Uniqueness is backed
// by the unique index on invoice_number.
func nextInvoiceNumber() string {
	return fmt.Sprintf("INV-%06d", time.Now().UnixMilli()%1_000_000)
}

// isDuplicateNumber reports whether err is the unique-index violation on
// invoice_number, the one checkout failure worth a retry.
func isDuplicateNumber(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "invoices.invoice_number")
}

func invoiceToListItem(inv *model.Invoice) dto.InvoiceListItem {
	return dto.InvoiceListItem{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Subtotal:      inv.Subtotal,
		TaxPercent:    inv.TaxPercent,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		PaymentMethod: inv.PaymentMethod,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.InvoiceItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return &dto.InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Items:         items,
		Subtotal:      inv.Subtotal,
		TaxPercent:    inv.TaxPercent,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		PaymentMethod: inv.PaymentMethod,
		CreatedBy:     inv.CreatedBy.String(),
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
}
