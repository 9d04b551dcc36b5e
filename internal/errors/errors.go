package errors

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// User-visible flash messages
const (
	MsgLoginRequired        = "Please log in first."
	MsgCredentialsRequired  = "Please fill in username and password."
	MsgUsernameTaken        = "Username already registered."
	MsgRegistered           = "Registration successful, please log in."
	MsgLoginSuccess         = "Login successful."
	MsgInvalidCredentials   = "Invalid username or password."
	MsgLoggedOut            = "You have been logged out."
	MsgTaskTooLong          = "Task must be at most 100 characters."
	MsgInternalError        = "Internal server error"
	MsgCSRFMissing          = "The CSRF token is missing."
	MsgCSRFInvalid          = "The CSRF token is invalid."
	MsgCSRFExpired          = "The CSRF token has expired."
	MsgSessionSaveFailed    = "Failed to save session"
	MsgTodoListUnavailable  = "Failed to load todos"
)

// Flash queues a one-time message on the session. The caller must save the
// session; RedirectWithFlash does so itself.
func Flash(c *gin.Context, message string) {
	sessions.Default(c).AddFlash(message)
}

// RedirectWithFlash stores message in the session and sends a 302 to location.
func RedirectWithFlash(c *gin.Context, location, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		InternalError(c, MsgSessionSaveFailed)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// Redirect sends a 302 without touching the session.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// InternalError sends a plain 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = MsgInternalError
	}
	c.String(http.StatusInternalServerError, message)
}

// NotFound sends a plain 404 response
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
}
