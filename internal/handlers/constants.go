package handlers

// Cookie names
const (
	SessionCookieName = "session_id"
)

// CSRFHeaderName is the request header carrying the CSRF token
const CSRFHeaderName = "X-CSRF-Token"
