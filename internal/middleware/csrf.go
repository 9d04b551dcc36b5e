package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/secure-todo/internal/constants"
	apperrors "github.com/yukikurage/secure-todo/internal/errors"
	"github.com/yukikurage/secure-todo/internal/utils"
)

var (
	ErrCSRFMissing = errors.New(apperrors.MsgCSRFMissing)
	ErrCSRFInvalid = errors.New(apperrors.MsgCSRFInvalid)
	ErrCSRFExpired = errors.New(apperrors.MsgCSRFExpired)
)

// CSRFFailureHandler renders the rejected form. It must write a response.
type CSRFFailureHandler func(c *gin.Context, err error)

// CSRF issues session-bound form tokens and verifies them on submission.
type CSRF struct {
	enabled   bool
	timeLimit time.Duration
	now       func() time.Time
}

func NewCSRF(enabled bool, timeLimit time.Duration) *CSRF {
	if timeLimit <= 0 {
		timeLimit = constants.DefaultCSRFTimeLimit
	}
	return &CSRF{
		enabled:   enabled,
		timeLimit: timeLimit,
		now:       time.Now,
	}
}

// Issue makes the session's token available to templates. Safe requests
// get a new token when none exists or the old one has expired.
func (m *CSRF) Issue() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		if isSafeMethod(c.Request.Method) {
			token, err := m.ensureToken(session)
			if err != nil {
				apperrors.InternalError(c, apperrors.MsgSessionSaveFailed)
				c.Abort()
				return
			}
			c.Set(constants.ContextKeyCSRFToken, token)
		} else if token, ok := session.Get(constants.SessionKeyCSRFToken).(string); ok {
			c.Set(constants.ContextKeyCSRFToken, token)
		}

		c.Next()
	}
}

// Verify rejects unsafe requests whose csrf_token form field (or
// X-CSRF-Token header) does not match an unexpired session token.
func (m *CSRF) Verify(onFailure CSRFFailureHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		if err := m.check(c, session); err != nil {
			// Hand the re-rendered form a usable token.
			token, saveErr := m.ensureToken(session)
			if saveErr != nil {
				apperrors.InternalError(c, apperrors.MsgSessionSaveFailed)
				c.Abort()
				return
			}
			c.Set(constants.ContextKeyCSRFToken, token)

			onFailure(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *CSRF) check(c *gin.Context, session sessions.Session) error {
	received := c.PostForm(constants.CSRFFormField)
	if received == "" {
		received = c.GetHeader(constants.CSRFHeader)
	}
	if received == "" {
		return ErrCSRFMissing
	}

	expected, ok := session.Get(constants.SessionKeyCSRFToken).(string)
	if !ok || expected == "" {
		return ErrCSRFMissing
	}

	if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
		return ErrCSRFInvalid
	}

	if m.expired(session) {
		return ErrCSRFExpired
	}

	return nil
}

// ensureToken returns the current token, rotating it when missing or expired.
func (m *CSRF) ensureToken(session sessions.Session) (string, error) {
	if token, ok := session.Get(constants.SessionKeyCSRFToken).(string); ok && token != "" && !m.expired(session) {
		return token, nil
	}

	token, err := utils.GenerateToken(constants.CSRFTokenBytes)
	if err != nil {
		return "", err
	}

	session.Set(constants.SessionKeyCSRFToken, token)
	session.Set(constants.SessionKeyCSRFIssuedAt, m.now().Unix())
	if err := session.Save(); err != nil {
		return "", err
	}

	return token, nil
}

func (m *CSRF) expired(session sessions.Session) bool {
	issuedAt, ok := session.Get(constants.SessionKeyCSRFIssuedAt).(int64)
	if !ok {
		return true
	}
	return m.now().Sub(time.Unix(issuedAt, 0)) > m.timeLimit
}

// GetCSRFToken returns the token templates should embed in forms.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyCSRFToken)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
