package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Detail is the server's human-readable message, if any.
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ServerDetail returns the server message for domain.ServerDetail.
func (e *APIError) ServerDetail() string {
	return e.Detail
}

// errorBody is the backend error envelope. Detail is either a string or,
// for request validation failures, a list of {loc, msg} objects.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseError builds an APIError from a failed response body.
func parseError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = strings.TrimSpace(detail)
		return apiErr
	}

	var items []validationItem
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg == "" {
				continue
			}
			if field := lastLoc(item.Loc); field != "" {
				msgs = append(msgs, field+": "+item.Msg)
			} else {
				msgs = append(msgs, item.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}
	return apiErr
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
