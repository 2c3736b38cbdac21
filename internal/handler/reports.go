package handler

import (
	"net/http"

	"shopmanager/internal/apierror"
	"shopmanager/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// DashboardStats returns today's sales, invoice count, day-over-day growth
// and the low-stock alert count.
func (h *ReportsHandler) DashboardStats(c *gin.Context) {
	resp, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute dashboard stats"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReportStats adds month-over-month figures to the daily ones.
func (h *ReportsHandler) ReportStats(c *gin.Context) {
	resp, err := h.svc.ReportStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute report stats"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WeeklySales returns the 7-day rolling revenue series ending today.
func (h *ReportsHandler) WeeklySales(c *gin.Context) {
	resp, err := h.svc.WeeklySales(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute weekly sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecentInvoices returns the latest invoices for the dashboard feed.
func (h *ReportsHandler) RecentInvoices(c *gin.Context) {
	resp, err := h.svc.RecentInvoices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list recent invoices"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
