package api

import "strings"

// Error is a server-status error already mapped to the human-readable
// message the UI should display.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Messages shown when the transport itself fails or the response matches
// no known shape.
const (
	MsgNetworkError = "Network error: Please check your internet connection or try again later."
	MsgUnexpected   = "Unexpected error occurred."
)

var defaultMessages = map[int]string{
	401: "Unauthorized: You are not authorized.",
	403: "Forbidden: You do not have permission to perform this action.",
	422: "Unprocessable Entity.",
	500: "Server error: Something went wrong on our end.",
}

// httpError maps a non-2xx response to an Error. Per-endpoint overrides
// win over the default table; otherwise the server-provided body is used,
// then the generic fallback.
func httpError(status int, body []byte, overrides map[int]string) error {
	if msg, ok := overrides[status]; ok {
		return &Error{Status: status, Message: msg}
	}
	if msg, ok := defaultMessages[status]; ok {
		return &Error{Status: status, Message: msg}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return &Error{Status: status, Message: msg}
	}
	return &Error{Status: status, Message: MsgUnexpected}
}
