package handlers

import (
	"errors"
	"net/http"

	"go-cashflow/internal/middleware"
	"go-cashflow/internal/models"
	"go-cashflow/internal/session"
	"go-cashflow/internal/shell"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	StoreName string `json:"store_name" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	token, sess, err := h.Sessions.SignIn(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		middleware.Logger(c).WithError(err).Error("sign in failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": sess.ExpiresAt,
		"user":       sess.User,
		"role":       sess.Role,
		"redirect":   sess.Role.Home(),
	})
}

// Register opens a tenant account; the store row is provisioned on first use.
func (h *Handler) Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := session.CreateAccount(c.Request.Context(), h.DB, input.Email, input.Password, input.StoreName, models.RoleTenant)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.Tenants.EnsureTenant(c.Request.Context(), user.ID, input.StoreName); err != nil {
		middleware.Logger(c).WithError(err).Warn("tenant provisioning deferred to first login")
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!", "user": user})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"user":       sess.User,
		"role":       sess.Role,
		"expires_at": sess.ExpiresAt,
		"redirect":   sess.Role.Home(),
		"tabs":       shell.Tabs(sess.Role),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.SignOut(c.Request.Context(), c.GetString(middleware.TokenKey)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out", "redirect": models.LoginPath})
}
