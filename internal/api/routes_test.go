package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfinder/internal/api/controllers"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/models/response_models"
	"wayfinder/internal/persistence"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type cannedReply struct{}

func (cannedReply) GenerateReply(context.Context, pref_models.UserPreferences, []pref_models.Message) (string, error) {
	return "Tell me more.", nil
}

func (cannedReply) Close() error { return nil }

func newBackendStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recommendations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pref_models.RecommendationBatch{
			RecommendationRecordID: "rec-1",
			Recommendations: []pref_models.Recommendation{
				{DestinationID: "lisbon", Name: "Lisbon"},
				{DestinationID: "porto", Name: "Porto"},
			},
		})
	})
	mux.HandleFunc("/api/recommendations/rec-1/feedback", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signer := utils.NewSessionSigner("test-secret", time.Hour)
	backend := services.NewBackendClient(newBackendStub(t).URL, time.Second)
	recs := services.NewRecommendationService(backend, nil, nil)
	sessions := services.NewSessionService(persistence.NewMemorySessions(), "", recs,
		services.NewMapboxGeocodeClient("", nil), nil)

	r := gin.New()
	RegisterRoutes(r, signer, Controllers{
		Session:        controllers.NewSessionController(sessions, signer, time.Hour, nil),
		Preference:     controllers.NewPreferenceController(sessions, recs),
		Navigation:     controllers.NewNavigationController(sessions),
		Recommendation: controllers.NewRecommendationController(sessions, recs),
		Conversation:   controllers.NewConversationController(sessions, services.NewConversationService(cannedReply{}, nil)),
	})
	return r
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
	page   string
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.page != "" {
		req.Header.Set(controllers.PageLocationHeader, c.page)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func newClient(t *testing.T) *client {
	c := &client{t: t, router: newTestRouter(t)}
	w, env := c.do(http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var tok response_models.SessionTokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(t, tok.Token)
	c.token = tok.Token
	return c
}

func TestRoutes_RequireSession(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t)}
	w, env := c.do(http.MethodGet, "/session/state", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error", env.Status)

	c.token = "forged"
	w, _ = c.do(http.MethodGet, "/session/state", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutes_NavigationAndURL(t *testing.T) {
	c := newClient(t)
	c.page = "/quiz?lang=en"

	w, _ := c.do(http.MethodPost, "/navigation/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = c.do(http.MethodPut, "/preferences/themes", map[string]any{"selected": []string{"beaches"}})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := c.do(http.MethodPost, "/navigation/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/quiz?lang=en&step=2", w.Header().Get(controllers.ReplaceLocationHeader))

	var nav response_models.NavigationResponse
	require.NoError(t, json.Unmarshal(env.Data, &nav))
	assert.Equal(t, pref_models.StepTemperatureRange, nav.Step.CurrentStep)
	assert.Equal(t, 2, nav.Step.StepIndex)
	assert.Equal(t, "/quiz?lang=en&step=2", nav.URL)

	// a deep link wins over the stored step
	c.page = "/quiz?step=7"
	w, env = c.do(http.MethodGet, "/session/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state response_models.SessionStateResponse
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, pref_models.StepTravelBudget, state.Step.CurrentStep)
	assert.False(t, state.Step.CanAdvance)
	assert.Equal(t, []string{"beaches"}, state.Preferences.SelectedThemes())

	c.page = ""
	w, _ = c.do(http.MethodPost, "/navigation/jump", map[string]any{"step": "nowhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_LocationWithoutPageHeader(t *testing.T) {
	c := newClient(t)

	w, env := c.do(http.MethodGet, "/session/state?step=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "?step=2", w.Header().Get(controllers.ReplaceLocationHeader))

	var state response_models.SessionStateResponse
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, pref_models.StepTemperatureRange, state.Step.CurrentStep)

	// the position followed the link into storage
	w, _ = c.do(http.MethodGet, "/session/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "?step=2", w.Header().Get(controllers.ReplaceLocationHeader))
}

func TestRoutes_PreferenceValidation(t *testing.T) {
	c := newClient(t)

	w, _ := c.do(http.MethodPut, "/preferences/temperature", map[string]any{"min": 30, "max": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodPut, "/preferences/temperature", map[string]any{"min": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := c.do(http.MethodPut, "/preferences/months", map[string]any{"values": []string{"June", "July"}})
	require.Equal(t, http.StatusOK, w.Code)
	var prefs response_models.PreferencesResponse
	require.NoError(t, json.Unmarshal(env.Data, &prefs))
	assert.Equal(t, []string{"June", "July"}, prefs.Preferences.TravelMonths)

	w, _ = c.do(http.MethodPut, "/preferences/budget", map[string]any{"values": []string{"cheap"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodPost, "/preferences/origin/geocode", map[string]any{"query": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_RecommendationsAndFeedback(t *testing.T) {
	c := newClient(t)

	w, _ := c.do(http.MethodPost, "/recommendations/lisbon/feedback", map[string]any{"feedback": "like"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := c.do(http.MethodPost, "/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs response_models.RecommendationsResponse
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	assert.Equal(t, "rec-1", recs.RecordID)
	assert.Len(t, recs.Recommendations, 2)

	w, env = c.do(http.MethodPost, "/recommendations/lisbon/feedback", map[string]any{"feedback": "like", "revert_on_failure": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	assert.Equal(t, pref_models.RatingLike, recs.Feedback["lisbon"])

	w, env = c.do(http.MethodGet, "/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	assert.Equal(t, pref_models.RatingLike, recs.Feedback["lisbon"])

	w, _ = c.do(http.MethodGet, "/recommendations/feedback?pageSize=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_ConversationAndReset(t *testing.T) {
	c := newClient(t)

	w, _ := c.do(http.MethodPost, "/session/title-screen", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := c.do(http.MethodPost, "/conversation/messages", map[string]any{"text": "Somewhere quiet"})
	require.Equal(t, http.StatusOK, w.Code)
	var msgs response_models.MessagesResponse
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	assert.Len(t, msgs.Messages, 2)
	assert.True(t, msgs.ChatStarted)

	w, env = c.do(http.MethodPost, "/session/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state response_models.SessionStateResponse
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Empty(t, state.Messages)
	assert.False(t, state.ChatStarted)
	assert.True(t, state.TitleScreenShown)
	assert.Equal(t, pref_models.StepTravelThemes, state.Step.CurrentStep)
	assert.Equal(t, pref_models.DefaultPreferences(), state.Preferences)
}
