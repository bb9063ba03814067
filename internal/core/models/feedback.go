package models

// Feedback categories accepted by the API.
const (
	FeedbackBug     = "bug"
	FeedbackFeature = "feature"
	FeedbackGeneral = "general"
)

type Feedback struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
