package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/response"
)

// ContextKeyAdmin is the Gin context key for the logged-in admin.
const ContextKeyAdmin = "admin"

// SessionSource reports the admin currently logged in, or nil.
type SessionSource interface {
	Current() *model.Admin
}

// RequireSession rejects requests while no admin is logged in and stores
// the current admin on the context otherwise.
func RequireSession(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := sessions.Current()
		if admin == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrNoActiveSession)
			return
		}

		c.Set(ContextKeyAdmin, admin)
		c.Next()
	}
}

// GetAdmin retrieves the admin stored by RequireSession.
func GetAdmin(c *gin.Context) *model.Admin {
	val, exists := c.Get(ContextKeyAdmin)
	if !exists {
		return nil
	}
	admin, ok := val.(*model.Admin)
	if !ok {
		return nil
	}
	return admin
}
