package handlers

import (
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	apperrors "github.com/yukikurage/secure-todo/internal/errors"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/middleware"
)

// renderPage renders an HTML page with the per-request values every
// template expects: CSP nonce, CSRF token and pending flash messages.
func renderPage(c *gin.Context, status int, name string, data gin.H) {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(); err != nil {
			apperrors.InternalError(c, apperrors.MsgSessionSaveFailed)
			return
		}
	}

	page := gin.H{
		"Title":     "",
		"Nonce":     middleware.GetNonce(c),
		"CSRFToken": middleware.GetCSRFToken(c),
		"Flashes":   flashes,
		"Error":     "",
		"Username":  "",
	}
	for k, v := range data {
		page[k] = v
	}

	c.HTML(status, name, page)
}

// parseID reads the :id path parameter the way the routes declare it: an
// unsigned integer, anything else is a 404.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func requestLog(log *logger.Logger, c *gin.Context) *logger.Entry {
	userID, _ := middleware.GetUserID(c)
	return log.WithFields(logger.Fields{
		"request_id": middleware.GetRequestID(c),
		"user_id":    userID,
	})
}
