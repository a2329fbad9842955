package firebase

import (
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// ErrNoSession indicates there is no provider session to refresh.
var ErrNoSession = errors.New("firebase: no session")

// messages maps Identity Toolkit error codes to user-facing text.
var messages = map[string]string{
	"EMAIL_NOT_FOUND":             "invalid email or password",
	"INVALID_PASSWORD":            "invalid email or password",
	"INVALID_LOGIN_CREDENTIALS":   "invalid email or password",
	"USER_DISABLED":               "this account has been disabled",
	"EMAIL_EXISTS":                "an account with this email already exists",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "too many attempts, try again later",
	"TOKEN_EXPIRED":               "session expired, sign in again",
	"USER_NOT_FOUND":              "account not found, sign in again",
	"INVALID_REFRESH_TOKEN":       "session expired, sign in again",
	"INVALID_IDP_RESPONSE":        "Google sign in was rejected",
}

// ProviderError is a failure reported by Firebase.
type ProviderError struct {
	// Code is the Firebase error code, e.g. "INVALID_PASSWORD".
	Code string

	// Message is the user-facing text.
	Message string

	Err error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// translate converts Identity Toolkit and Secure Token failures into a
// ProviderError. Other errors are returned unchanged.
func translate(err error) error {
	var raw string

	var gerr *googleapi.Error
	var rerr *oauth2.RetrieveError
	switch {
	case errors.As(err, &gerr):
		raw = gerr.Message
	case errors.As(err, &rerr):
		raw = secureTokenCode(rerr)
	}
	if raw == "" {
		return err
	}

	// Codes may carry a suffix such as "WEAK_PASSWORD : Password should be ...".
	code := strings.TrimSpace(strings.SplitN(raw, ":", 2)[0])
	msg, ok := messages[code]
	if !ok {
		msg = strings.ToLower(strings.ReplaceAll(raw, "_", " "))
	}
	return &ProviderError{Code: code, Message: msg, Err: err}
}

// secureTokenCode extracts the code from a Secure Token error body, which
// nests it as {"error": {"message": "..."}}.
func secureTokenCode(rerr *oauth2.RetrieveError) string {
	if rerr.ErrorCode != "" {
		return strings.ToUpper(rerr.ErrorCode)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rerr.Body, &body); err != nil {
		return ""
	}
	return body.Error.Message
}
