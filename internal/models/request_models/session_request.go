package request_models

// JumpRequest targets a step by identifier or by its 1-based index.
type JumpRequest struct {
	Step  string `json:"step,omitempty"`
	Index int    `json:"index,omitempty"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type RecommendationFeedbackRequest struct {
	Feedback        string `json:"feedback" binding:"required"`
	RevertOnFailure bool   `json:"revert_on_failure"`
}
