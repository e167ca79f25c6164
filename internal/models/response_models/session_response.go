package response_models

import (
	"wayfinder/internal/models/pref_models"
)

type SessionTokenResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// StepResponse describes where the visitor is in the questionnaire.
type StepResponse struct {
	CurrentStep pref_models.Step   `json:"current_step"`
	StepIndex   int                `json:"step_index"`
	TotalSteps  int                `json:"total_steps"`
	Steps       []pref_models.Step `json:"steps"`
	IsFirst     bool               `json:"is_first"`
	IsLast      bool               `json:"is_last"`
	CanAdvance  bool               `json:"can_advance"`
}

// SessionStateResponse is everything the page needs to render after a
// reload. URL is the location the page should replace itself with.
type SessionStateResponse struct {
	SessionID            string                        `json:"session_id"`
	URL                  string                        `json:"url"`
	Step                 StepResponse                  `json:"step"`
	Preferences          pref_models.UserPreferences   `json:"preferences"`
	Messages             []pref_models.Message         `json:"messages"`
	Recommendations      []pref_models.Recommendation  `json:"recommendations"`
	RecordID             string                        `json:"recommendation_record_id,omitempty"`
	Feedback             map[string]pref_models.Rating `json:"recommendation_feedback"`
	ChatStarted          bool                          `json:"chat_started"`
	TitleScreenShown     bool                          `json:"title_screen_shown"`
	RecommendationsShown bool                          `json:"recommendations_shown"`
}

type PreferencesResponse struct {
	URL         string                      `json:"url"`
	Preferences pref_models.UserPreferences `json:"preferences"`
	Step        StepResponse                `json:"step"`
}

type NavigationResponse struct {
	URL  string       `json:"url"`
	Step StepResponse `json:"step"`
}

type MessagesResponse struct {
	Messages    []pref_models.Message `json:"messages"`
	ChatStarted bool                  `json:"chat_started"`
}

type RecommendationsResponse struct {
	RecordID        string                        `json:"recommendation_record_id"`
	Recommendations []pref_models.Recommendation  `json:"recommendations"`
	Feedback        map[string]pref_models.Rating `json:"recommendation_feedback"`
}

type PhotoAnalysisResponse struct {
	Analysis      *pref_models.ImageAnalysis `json:"analysis"`
	PhotoAnalysis pref_models.PhotoAnalysis  `json:"photo_analysis"`
}

type FeedbackListItem struct {
	RecordID      string `json:"recommendation_record_id"`
	DestinationID string `json:"destination_id"`
	Feedback      string `json:"feedback"`
	Delivered     bool   `json:"delivered"`
	CreatedAt     int64  `json:"created_at"`
}
