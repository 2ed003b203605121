package handlers

import (
	"net/http"

	"go-cashflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

const failedRedirectDelayMs = 1200

type RecordVisitorRequest struct {
	QRCodeData string `json:"qr_code_data"`
}

// RecordVisitor stores a gate arrival. Success or not, the scanner is told
// where to go next so the gate is never held up.
func (h *Handler) RecordVisitor(c *gin.Context) {
	var req RecordVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Logger(c).WithError(err).Warn("unreadable visitor payload")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "Invalid QR payload",
			"redirect_url":      h.VisitorRedirect,
			"redirect_delay_ms": failedRedirectDelayMs,
		})
		return
	}

	v, err := h.Visitors.Record(c.Request.Context(), req.QRCodeData)
	if err != nil {
		middleware.Logger(c).WithError(err).Warn("visitor not recorded")
		c.JSON(statusFor(err), gin.H{
			"error":             err.Error(),
			"redirect_url":      h.VisitorRedirect,
			"redirect_delay_ms": failedRedirectDelayMs,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"visitor":           v,
		"redirect_url":      h.VisitorRedirect,
		"redirect_delay_ms": 0,
	})
}
