package controllers

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/models/response_models"
	"wayfinder/internal/services"
	"wayfinder/pkg/middleware"
	"wayfinder/pkg/utils"
)

// PageLocationHeader carries the page's own location (path and query).
// Without it only the query of the API request is taken, and the replace
// location is a bare query string the page can hand to replaceState.
const PageLocationHeader = "X-Page-Location"

const ReplaceLocationHeader = "X-Replace-Location"

// withSession opens the caller's session, runs fn while holding the
// session's lock and always publishes the canonical page URL afterwards.
func withSession(c *gin.Context, sessions services.SessionServiceInterface, fn func(s *services.Session)) {
	sessionID := c.GetString(middleware.SessionIDKey)
	release := sessions.Acquire(sessionID)
	defer release()

	s, err := sessions.Open(c.Request.Context(), sessionID, pageLocation(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header(ReplaceLocationHeader, s.URL.String())
	fn(s)
}

func pageLocation(c *gin.Context) *url.URL {
	if raw := c.GetHeader(PageLocationHeader); raw != "" {
		if u, err := url.Parse(raw); err == nil {
			return u
		}
	}
	return &url.URL{RawQuery: c.Request.URL.RawQuery}
}

// publishLocation refreshes the replace header after a handler wrote to the
// URL and returns the value for the response body.
func publishLocation(c *gin.Context, s *services.Session) string {
	loc := s.URL.String()
	c.Header(ReplaceLocationHeader, loc)
	return loc
}

func stepOf(s *services.Session) response_models.StepResponse {
	return response_models.StepResponse{
		CurrentStep: s.Sequencer.Current(),
		StepIndex:   s.Tracker.Index(),
		TotalSteps:  len(pref_models.Steps),
		Steps:       s.Sequencer.Steps(),
		IsFirst:     s.Sequencer.IsFirst(),
		IsLast:      s.Sequencer.IsLast(),
		CanAdvance:  s.CanAdvance(),
	}
}

func stateOf(s *services.Session, location string) response_models.SessionStateResponse {
	return response_models.SessionStateResponse{
		SessionID:            s.ID,
		URL:                  location,
		Step:                 stepOf(s),
		Preferences:          s.Prefs.Snapshot(),
		Messages:             s.Messages.Get(),
		Recommendations:      s.Recommendations.Get(),
		RecordID:             s.RecordID.Get(),
		Feedback:             s.Feedback.Get(),
		ChatStarted:          s.ChatStarted.Get(),
		TitleScreenShown:     s.TitleScreenShown.Get(),
		RecommendationsShown: s.RecommendationsShown.Get(),
	}
}

func preferencesOf(c *gin.Context, s *services.Session, prefs pref_models.UserPreferences) response_models.PreferencesResponse {
	return response_models.PreferencesResponse{
		URL:         publishLocation(c, s),
		Preferences: prefs,
		Step:        stepOf(s),
	}
}
