// Package common contains shared constants and sentinel errors used across
// the console client, its session guard and the mock backend.
package common

// TokenHeaderName is the HTTP header carrying the persisted session token on
// outbound API requests.
const TokenHeaderName = "token"

// RequestIDHeaderName tags every outbound request for log correlation.
const RequestIDHeaderName = "X-Request-Id"

// Credential record keys as they are persisted by the credential store.
const (
	TokenKey      = "User-Token"
	RememberMeKey = "rememberMe"
	LoginInfoKey  = "Login-Info"
	UserInfoKey   = "User-Info"
)

// RedirectParam is the query parameter carrying the pre-login destination.
const RedirectParam = "redirect"

// DefaultErrorMessage is shown when the backend rejects a call without a message.
const DefaultErrorMessage = "unknown system error, please contact the administrator"
