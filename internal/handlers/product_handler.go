package handlers

import (
	"net/http"
	"strconv"

	"go-cashflow/internal/middleware"
	"go-cashflow/internal/pos"

	"github.com/gin-gonic/gin"
)

// --- GET: List the tenant's products ---
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.POS.Products(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- POST: Add a product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var input pos.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, products, err := h.POS.CreateProduct(c.Request.Context(), middleware.TenantID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product, "products": products})
}

// --- PUT: Update name and/or price ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var patch pos.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, products, err := h.POS.UpdateProduct(c.Request.Context(), middleware.TenantID(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product, "products": products})
}

// --- DELETE: Remove a product ---
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	products, err := h.POS.DeleteProduct(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "products": products})
}

// SaleRequest is the cart the client checks out
type SaleRequest struct {
	Items []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
}

func (h *Handler) ProcessSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cart := pos.NewCart()
	for _, item := range req.Items {
		if err := cart.AddQuantity(item.ProductID, item.Quantity); err != nil {
			respondError(c, err)
			return
		}
	}

	receipt, err := h.POS.Checkout(c.Request.Context(), middleware.TenantID(c), cart)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Sale successful!",
		"sale_id":     receipt.Sale.ID,
		"total":       receipt.Sale.TotalAmount,
		"sale":        receipt.Sale,
		"transaction": receipt.Transaction,
	})
}

func (h *Handler) AddExpense(c *gin.Context) {
	var input pos.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	entry, err := h.POS.RecordExpense(c.Request.Context(), middleware.TenantID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return 0, false
	}
	return uint(id), true
}
