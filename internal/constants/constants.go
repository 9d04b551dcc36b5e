package constants

import "time"

// Session
const (
	SessionCookieName = "todo_session"

	SessionKeyUserID       = "user_id"
	SessionKeyCSRFToken    = "csrf_token"
	SessionKeyCSRFIssuedAt = "csrf_issued_at"
)

// Per-request values stored on the gin context
const (
	ContextKeyUserID    = "user_id"
	ContextKeyNonce     = "csp_nonce"
	ContextKeyCSRFToken = "csrf_token"
	ContextKeyRequestID = "request_id"
)

// Forms and headers
const (
	CSRFFormField   = "csrf_token"
	CSRFHeader      = "X-CSRF-Token"
	RequestIDHeader = "X-Request-ID"
)

const (
	MaxTaskLength = 100

	NonceBytes     = 16
	CSRFTokenBytes = 32

	DefaultCSRFTimeLimit = time.Hour
)

// Allow-listed origin for scripts and styles besides 'self'
const TrustedAssetOrigin = "https://cdn.jsdelivr.net"
