package handlers

import (
	"errors"
	"net/http"

	"go-cashflow/internal/ai"
	"go-cashflow/internal/cashflow"
	"go-cashflow/internal/pos"
	"go-cashflow/internal/session"
	"go-cashflow/internal/tenancy"
	"go-cashflow/internal/visitors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler carries the services the HTTP layer calls into.
type Handler struct {
	DB              *gorm.DB
	Sessions        *session.Resolver
	Tenants         *tenancy.Provisioner
	Cashflow        *cashflow.Service
	POS             *pos.Service
	Visitors        *visitors.Service
	Agent           *ai.Agent
	VisitorRedirect string
}

// respondError renders a failure with the service's message verbatim.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pos.ErrEmptyCart),
		errors.Is(err, pos.ErrInvalidQuantity),
		errors.Is(err, pos.ErrInvalidAmount),
		errors.Is(err, pos.ErrInvalidPrice),
		errors.Is(err, pos.ErrInvalidProduct),
		errors.Is(err, tenancy.ErrTenantUnresolved),
		errors.Is(err, cashflow.ErrPageOutOfRange),
		errors.Is(err, visitors.ErrEmptyPayload),
		errors.Is(err, session.ErrInvalidAccount),
		errors.Is(err, session.ErrRoleUnspecified):
		return http.StatusBadRequest
	case errors.Is(err, pos.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidCredentials), errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
