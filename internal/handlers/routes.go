package handlers

import (
	"net/http"

	"go-cashflow/internal/middleware"
	"go-cashflow/internal/models"

	"github.com/gin-gonic/gin"
)

type RouteOptions struct {
	AllowRegistration bool
}

// Routes mounts the JSON API on r.
func (h *Handler) Routes(r *gin.Engine, opts RouteOptions) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)
	if opts.AllowRegistration {
		r.POST("/register", h.Register)
	}
	r.POST("/api/record-visitor", h.RecordVisitor)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(h.Sessions))
	{
		api.GET("/session", h.GetSession)
		api.POST("/logout", h.Logout)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/visitors", h.GetVisitorCounts)
			admin.GET("/tenants", h.GetTenants)
			admin.GET("/cashflow", h.GetGlobalCashflow)
			admin.GET("/tabs/:tab", h.AdminTab)
			if h.Agent != nil {
				admin.POST("/ask", h.AskAI)
			}
		}

		tenant := api.Group("/tenant")
		tenant.Use(middleware.RequireRole(models.RoleTenant), middleware.RequireTenant(h.Tenants))
		{
			tenant.GET("/dashboard", h.GetDashboard)
			tenant.GET("/products", h.GetProducts)
			tenant.POST("/products", h.AddProduct)
			tenant.PUT("/products/:id", h.UpdateProduct)
			tenant.DELETE("/products/:id", h.DeleteProduct)
			tenant.POST("/checkout", h.ProcessSale)
			tenant.POST("/expenses", h.AddExpense)
			tenant.GET("/cashflow", h.GetTenantCashflow)
			tenant.GET("/ledger", h.GetLedger)
			tenant.GET("/ledger/export", h.ExportLedger)
			tenant.GET("/tabs/:tab", h.TenantTab)
		}
	}
}
