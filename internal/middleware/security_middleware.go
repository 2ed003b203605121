package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-cashflow/internal/guard"
	"go-cashflow/internal/models"
	"go-cashflow/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	SessionKey  = "session"
	UserIDKey   = "userID"
	RoleKey     = "role"
	TokenKey    = "token"
	TenantIDKey = "tenantID"
)

type SessionResolver interface {
	Session(ctx context.Context, token string) (*session.Session, error)
}

type TenantProvisioner interface {
	EnsureTenant(ctx context.Context, userID, storeName string) (uint, error)
}

// AuthMiddleware checks if the caller has a valid, unrevoked token
func AuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			deny(c, http.StatusUnauthorized, "Authorization header is required", models.LoginPath)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			deny(c, http.StatusUnauthorized, "Authorization header must start with Bearer", models.LoginPath)
			return
		}

		sess, err := resolver.Session(c.Request.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				Logger(c).WithError(err).Error("session lookup failed")
			}
			deny(c, http.StatusUnauthorized, "Invalid or expired token", models.LoginPath)
			return
		}

		c.Set(SessionKey, sess)
		c.Set(UserIDKey, sess.User.ID)
		c.Set(RoleKey, sess.Role)
		c.Set(TokenKey, tokenString)
		c.Next()
	}
}

// RequireRole lets through only callers whose resolved role matches. An
// unresolved role is sent to login; another role is sent to its own home.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := guard.State{}
		if sess := CurrentSession(c); sess != nil {
			state.UserID = sess.User.ID
			state.Role = sess.Role
		}

		d := guard.Evaluate(state, required)
		switch {
		case d.Action == guard.Allow:
			c.Next()
		case d.Target == models.LoginPath:
			deny(c, http.StatusUnauthorized, "You are not authorized for any protected view", d.Target)
		default:
			deny(c, http.StatusForbidden, "You do not have permission to access this resource", d.Target)
		}
	}
}

// RequireTenant resolves (or provisions) the caller's tenant id.
func RequireTenant(p TenantProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			deny(c, http.StatusUnauthorized, "Invalid or expired token", models.LoginPath)
			return
		}

		storeName := sess.User.Email
		if sess.Profile != nil && strings.TrimSpace(sess.Profile.Name) != "" {
			storeName = sess.Profile.Name
		}

		tenantID, err := p.EnsureTenant(c.Request.Context(), sess.User.ID, storeName)
		if err != nil {
			Logger(c).WithError(err).Error("tenant resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Tenant ID could not be resolved: " + err.Error()})
			return
		}
		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

func TenantID(c *gin.Context) uint {
	return c.GetUint(TenantIDKey)
}

func deny(c *gin.Context, status int, msg, redirect string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "redirect": redirect})
}
