package api

import (
	"context"
	"net/http"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// feedbackMessages replaces the whole default table: feedback failures get
// friendlier, submission-specific wording.
var feedbackMessages = map[int]string{
	400: "Invalid feedback data. Please check your input and try again.",
	401: "Authentication failed. Please log in again.",
	403: "You do not have permission to submit feedback.",
	422: "Please provide a valid message.",
	429: "Too many requests. Please wait a moment and try again.",
	500: "Server error. Please try again later.",
}

// SubmitFeedback sends user feedback. Returns the server's acknowledgement
// string.
func (c *Client) SubmitFeedback(ctx context.Context, token string, fb models.Feedback) (string, error) {
	data, _, err := doJSON[string](c, ctx, http.MethodPost, "/feedback", token, fb, feedbackMessages)
	return data, err
}
