package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"wayfinder/internal/models/response_models"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

type SessionController struct {
	sessions services.SessionServiceInterface
	signer   *utils.SessionSigner
	ttl      time.Duration
	logger   *zap.Logger
}

func NewSessionController(sessions services.SessionServiceInterface, signer *utils.SessionSigner, ttl time.Duration, logger *zap.Logger) *SessionController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionController{sessions: sessions, signer: signer, ttl: ttl, logger: logger}
}

// CreateSession godoc
// @Summary Start a questionnaire session
// @Description Issues a session token; all other routes require it as a bearer token
// @Tags Session
// @Produce json
// @Success 201 {object} utils.APIResponse
// @Router /sessions [post]
func (s *SessionController) CreateSession(c *gin.Context) {
	id := uuid.New()
	token, err := s.signer.CreateToken(id)
	if err != nil {
		s.logger.Error("could not sign session token", zap.Error(err))
		utils.RespondError(c, http.StatusInternalServerError, "Could not create session")
		return
	}

	utils.RespondCreated(c, response_models.SessionTokenResponse{
		SessionID: id.String(),
		Token:     token,
		ExpiresIn: int64(s.ttl.Seconds()),
	}, "Session created")
}

// GetState godoc
// @Summary Get session state
// @Description Restores the questionnaire; ?step=N (1-based) overrides the stored step
// @Tags Session
// @Produce json
// @Param step query int false "1-based step index"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /session/state [get]
func (s *SessionController) GetState(c *gin.Context) {
	withSession(c, s.sessions, func(sess *services.Session) {
		utils.RespondSuccess(c, stateOf(sess, publishLocation(c, sess)), "Session state fetched")
	})
}

// Reset godoc
// @Summary Reset the questionnaire
// @Tags Session
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /session/reset [post]
func (s *SessionController) Reset(c *gin.Context) {
	withSession(c, s.sessions, func(sess *services.Session) {
		if err := s.sessions.Reset(c.Request.Context(), sess); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, stateOf(sess, publishLocation(c, sess)), "Session reset")
	})
}

// MarkTitleScreenShown godoc
// @Summary Remember that the title screen was shown
// @Tags Session
// @Success 200 {object} utils.APIResponse
// @Router /session/title-screen [post]
func (s *SessionController) MarkTitleScreenShown(c *gin.Context) {
	withSession(c, s.sessions, func(sess *services.Session) {
		if err := s.sessions.MarkTitleScreenShown(c.Request.Context(), sess); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, gin.H{"title_screen_shown": true}, "Title screen marked as shown")
	})
}
