package utils

import (
	"encoding/json"
	"strings"
)

// ErrorResponse is the error body shape the rental API returns. Spring-style bodies
// use "message" and "error"; "details" appears on validation failures.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorMessage extracts a human-readable message from a raw error body.
// It returns "" when the body is empty or not a recognised JSON error.
func ErrorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed[0] != '{' {
		return ""
	}
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return ""
	}
	switch {
	case resp.Message != "" && resp.Details != "":
		return resp.Message + ": " + resp.Details
	case resp.Message != "":
		return resp.Message
	default:
		return resp.Error
	}
}
