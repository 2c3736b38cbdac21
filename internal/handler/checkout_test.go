package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopmanager/internal/cart"
	"shopmanager/internal/dto"
	"shopmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// stubCheckoutService fails cart building with a configurable error.
type stubCheckoutService struct {
	buildErr error
}

func (s *stubCheckoutService) BuildCart(_ context.Context, _ []dto.CheckoutItemRequest) (cart.Cart, error) {
	return cart.New(), s.buildErr
}

func (s *stubCheckoutService) Checkout(_ context.Context, _ uuid.UUID, _ cart.Cart, _ string, _ decimal.Decimal, _ *string) (*dto.InvoiceResponse, error) {
	return nil, nil
}

func (s *stubCheckoutService) GetInvoice(_ context.Context, _ uuid.UUID) (*dto.InvoiceResponse, error) {
	return nil, errors.New("not found")
}

func (s *stubCheckoutService) ListInvoices(_ context.Context) (*dto.InvoiceListResponse, error) {
	return &dto.InvoiceListResponse{}, nil
}

var _ service.CheckoutService = (*stubCheckoutService)(nil)

type stubSettingsService struct{}

func (stubSettingsService) Get(_ context.Context) (*dto.ShopSettingsResponse, error) {
	return &dto.ShopSettingsResponse{DefaultTaxPercent: decimal.NewFromInt(18)}, nil
}

func (stubSettingsService) Save(_ context.Context, _ dto.ShopSettingsRequest) (*dto.ShopSettingsResponse, error) {
	return nil, nil
}

var _ service.SettingsService = (stubSettingsService{})

func TestCheckoutStatusByCartFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		buildErr   error
		wantStatus int
	}{
		{
			"malformed product id",
			fmt.Errorf("%w: %q", service.ErrInvalidProductID, "not-a-uuid"),
			http.StatusBadRequest,
		},
		{
			"unknown product",
			fmt.Errorf("%w: %s", service.ErrProductNotFound, uuid.New()),
			http.StatusNotFound,
		},
		{
			"insufficient stock",
			errors.New(`insufficient stock for "Widget": 2 requested, 1 available`),
			http.StatusConflict,
		},
	}

	body := fmt.Sprintf(
		`{"items":[{"product_id":"%s","quantity":1}],"payment_method":"cash"}`,
		uuid.New(),
	)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewCheckoutHandler(&stubCheckoutService{buildErr: tc.buildErr}, stubSettingsService{})
			r := gin.New()
			r.POST("/v1/checkout", h.Checkout)

			req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), "detail")
		})
	}
}
