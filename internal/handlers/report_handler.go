package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-cashflow/internal/cashflow"
	"go-cashflow/internal/database"
	"go-cashflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// --- GET: /api/tenant/dashboard ---
func (h *Handler) GetDashboard(c *gin.Context) {
	daily, err := h.Cashflow.Daily(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}

// --- GET: /api/tenant/cashflow ---
func (h *Handler) GetTenantCashflow(c *gin.Context) {
	scope, ok := h.scopeFromQuery(c, middleware.TenantID(c))
	if !ok {
		return
	}
	sum, err := h.Cashflow.Totals(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// --- GET: /api/tenant/ledger?page=N ---
func (h *Handler) GetLedger(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a number"})
			return
		}
		page = n
	}

	result, err := h.Cashflow.Ledger(c.Request.Context(), middleware.TenantID(c), page)
	if errors.Is(err, cashflow.ErrPageOutOfRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "total_pages": result.TotalPages})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- GET: /api/tenant/ledger/export ---
func (h *Handler) ExportLedger(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var buf bytes.Buffer
	if err := h.Cashflow.ExportLedger(c.Request.Context(), tenantID, &buf); err != nil {
		middleware.Logger(c).WithError(err).Error("ledger export failed")
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("ledger-%d-%s.xlsx", tenantID, time.Now().In(h.Cashflow.Location()).Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- GET: /api/admin/visitors ---
func (h *Handler) GetVisitorCounts(c *gin.Context) {
	counts, err := h.Visitors.Counts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// --- GET: /api/admin/tenants ---
func (h *Handler) GetTenants(c *gin.Context) {
	rows, err := h.Cashflow.TenantOverviews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: /api/admin/cashflow[?date=YYYY-MM-DD][&tenant_id=N] ---
func (h *Handler) GetGlobalCashflow(c *gin.Context) {
	var tenantID uint
	if raw := c.Query("tenant_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id must be a number"})
			return
		}
		tenantID = uint(n)
	}
	scope, ok := h.scopeFromQuery(c, tenantID)
	if !ok {
		return
	}
	sum, err := h.Cashflow.Totals(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// scopeFromQuery reads an optional ?date= into a local-day range.
func (h *Handler) scopeFromQuery(c *gin.Context, tenantID uint) (cashflow.Scope, bool) {
	scope := cashflow.Scope{TenantID: tenantID}
	raw := c.Query("date")
	if raw == "" {
		return scope, true
	}
	day, err := time.ParseInLocation("2006-01-02", raw, h.Cashflow.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return scope, false
	}
	r := database.DayRange(day, h.Cashflow.Location())
	scope.Range = &r
	return scope, true
}
