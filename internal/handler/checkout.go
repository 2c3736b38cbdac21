package handler

import (
	"errors"
	"net/http"

	"shopmanager/internal/apierror"
	"shopmanager/internal/dto"
	"shopmanager/internal/middleware"
	"shopmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutHandler struct {
	svc      service.CheckoutService
	settings service.SettingsService
}

func NewCheckoutHandler(svc service.CheckoutService, settings service.SettingsService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, settings: settings}
}

// Checkout godoc
// @Summary      Complete a sale
// @Description  Converts the submitted cart into one invoice in a single ACID transaction: stock is decremented, movements recorded, and the receipt rendered asynchronously. An empty cart completes as a no-op.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Cart contents and payment method"
// @Success      201  {object} dto.InvoiceResponse
// @Success      204  "Empty cart — nothing recorded"
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError "Unknown product in cart"
// @Failure      409  {object} apierror.APIError "Insufficient stock at commit time"
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	crt, err := h.svc.BuildCart(ctx, req.Items)
	if err != nil {
		c.JSON(cartBuildStatus(err), apierror.New(err.Error()))
		return
	}

	taxPercent, err := h.resolveTaxPercent(c, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load shop settings"))
		return
	}

	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Checkout(ctx, userID, crt, req.PaymentMethod, taxPercent, req.CustomerEmail)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// cartBuildStatus maps cart build failures to status codes: malformed ids
// are the client's fault, unknown products a 404, stock problems a conflict.
func cartBuildStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidProductID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}

// resolveTaxPercent prefers the per-sale override, falling back to the
// shop-wide default from settings.
func (h *CheckoutHandler) resolveTaxPercent(c *gin.Context, req *dto.CheckoutRequest) (taxPercent decimal.Decimal, err error) {
	if req.TaxPercent != nil {
		return *req.TaxPercent, nil
	}
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		return decimal.Zero, err
	}
	return settings.DefaultTaxPercent, nil
}
