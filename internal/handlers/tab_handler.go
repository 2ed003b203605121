package handlers

import (
	"context"
	"errors"
	"net/http"

	"go-cashflow/internal/cashflow"
	"go-cashflow/internal/middleware"
	"go-cashflow/internal/models"
	"go-cashflow/internal/shell"

	"github.com/gin-gonic/gin"
)

// TenantTab enters a tenant shell tab and returns the data it shows.
func (h *Handler) TenantTab(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	h.enterTab(c, models.RoleTenant, map[shell.Tab]shell.Loader{
		shell.TabDashboard: func(ctx context.Context) (any, error) {
			return h.Cashflow.Daily(ctx, tenantID)
		},
		shell.TabProducts: func(ctx context.Context) (any, error) {
			return h.POS.Products(ctx, tenantID)
		},
		shell.TabQuickSale: func(ctx context.Context) (any, error) {
			return h.POS.Products(ctx, tenantID)
		},
		shell.TabReports: func(ctx context.Context) (any, error) {
			sum, err := h.Cashflow.Totals(ctx, cashflow.Scope{TenantID: tenantID})
			if err != nil {
				return nil, err
			}
			page, err := h.Cashflow.Ledger(ctx, tenantID, 1)
			if err != nil {
				return nil, err
			}
			return gin.H{"summary": sum, "ledger": page}, nil
		},
	})
}

// AdminTab enters an admin shell tab and returns the data it shows.
func (h *Handler) AdminTab(c *gin.Context) {
	h.enterTab(c, models.RoleAdmin, map[shell.Tab]shell.Loader{
		shell.TabSummary: func(ctx context.Context) (any, error) {
			counts, err := h.Visitors.Counts(ctx)
			if err != nil {
				return nil, err
			}
			today := h.Cashflow.Today()
			sum, err := h.Cashflow.Totals(ctx, cashflow.Scope{Range: &today})
			if err != nil {
				return nil, err
			}
			return gin.H{"visitors": counts, "today": sum}, nil
		},
		shell.TabTenants: func(ctx context.Context) (any, error) {
			return h.Cashflow.TenantOverviews(ctx)
		},
		shell.TabGlobalReport: func(ctx context.Context) (any, error) {
			return h.Cashflow.Totals(ctx, cashflow.Scope{})
		},
	})
}

func (h *Handler) enterTab(c *gin.Context, role models.Role, loaders map[shell.Tab]shell.Loader) {
	s, err := shell.New(role)
	if err != nil {
		respondError(c, err)
		return
	}
	tab := shell.Tab(c.Param("tab"))
	data, err := s.Enter(c.Request.Context(), tab, loaders)
	if errors.Is(err, shell.ErrTabNotInRole) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "tabs": shell.Tabs(role)})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tab": s.Active(), "tabs": shell.Tabs(role), "data": data})
}
