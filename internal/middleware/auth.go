package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/secure-todo/internal/constants"
	apperrors "github.com/yukikurage/secure-todo/internal/errors"
)

// AuthDecision is the outcome of the authorization gate.
type AuthDecision int

const (
	Denied AuthDecision = iota
	Authorized
)

// AuthResult carries the gate decision and, when authorized, the session's user ID.
type AuthResult struct {
	Decision AuthDecision
	UserID   uint64
}

func (r AuthResult) Authorized() bool {
	return r.Decision == Authorized
}

// Authorize inspects the session for a user ID.
func Authorize(c *gin.Context) AuthResult {
	session := sessions.Default(c)
	userID, ok := toUint64(session.Get(constants.SessionKeyUserID))
	if !ok {
		return AuthResult{Decision: Denied}
	}
	return AuthResult{Decision: Authorized, UserID: userID}
}

// RequireAuth redirects anonymous requests to the login page and stops the
// chain before the protected handler runs.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authorize(c)
		if !result.Authorized() {
			apperrors.RedirectWithFlash(c, "/login", apperrors.MsgLoginRequired)
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, result.UserID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
