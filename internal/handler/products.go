package handler

import (
	"errors"
	"net/http"

	"shopmanager/internal/apierror"
	"shopmanager/internal/dto"
	"shopmanager/internal/middleware"
	"shopmanager/internal/repository"
	"shopmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateProductRequest true "Product"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns the full catalog, ordered by name.
func (h *ProductsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search matches product name or SKU against ?q=, capped at 50 results.
func (h *ProductsHandler) Search(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to search products"))
		return
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Data: resp, Total: int64(len(resp))})
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a product
// @Description Deletes a product permanently. Rejected with 409 when the product appears on any invoice.
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product UUID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrHasSalesHistory) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock applies a signed stock delta and records a movement.
func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AdjustStock(c.Request.Context(), userID, id, req.Delta)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock lists products at or below their low-stock threshold.
func (h *ProductsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list low-stock products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
