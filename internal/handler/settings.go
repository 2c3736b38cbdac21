package handler

import (
	"net/http"

	"shopmanager/internal/apierror"
	"shopmanager/internal/dto"
	"shopmanager/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct{ svc service.SettingsService }

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get returns shop settings, with defaults for keys never saved.
func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load settings"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Save upserts all settings keys in one transaction.
func (h *SettingsHandler) Save(c *gin.Context) {
	var req dto.ShopSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Save(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
