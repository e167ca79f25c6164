package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/models/request_models"
	"wayfinder/internal/models/response_models"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

type NavigationController struct {
	sessions services.SessionServiceInterface
}

func NewNavigationController(sessions services.SessionServiceInterface) *NavigationController {
	return &NavigationController{sessions: sessions}
}

func (n *NavigationController) respond(c *gin.Context, s *services.Session, err error, message string) {
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NavigationResponse{
		URL:  publishLocation(c, s),
		Step: stepOf(s),
	}, message)
}

// Next godoc
// @Summary Go to the next step
// @Description Refused with 422 while the current step is incomplete
// @Tags Navigation
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /navigation/next [post]
func (n *NavigationController) Next(c *gin.Context) {
	withSession(c, n.sessions, func(s *services.Session) {
		_, err := n.sessions.Next(c.Request.Context(), s)
		n.respond(c, s, err, "Moved to next step")
	})
}

// Previous godoc
// @Summary Go to the previous step
// @Tags Navigation
// @Success 200 {object} utils.APIResponse
// @Router /navigation/previous [post]
func (n *NavigationController) Previous(c *gin.Context) {
	withSession(c, n.sessions, func(s *services.Session) {
		_, err := n.sessions.Previous(c.Request.Context(), s)
		n.respond(c, s, err, "Moved to previous step")
	})
}

// Jump godoc
// @Summary Jump to a step
// @Tags Navigation
// @Param request body request_models.JumpRequest true "Step identifier or 1-based index"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /navigation/jump [post]
func (n *NavigationController) Jump(c *gin.Context) {
	var req request_models.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	target := pref_models.Step(req.Step)
	if target == "" {
		step, ok := pref_models.StepAt(req.Index)
		if !ok {
			utils.HandleServiceError(c, utils.ErrUnknownStep)
			return
		}
		target = step
	}

	withSession(c, n.sessions, func(s *services.Session) {
		_, err := n.sessions.JumpTo(c.Request.Context(), s, target)
		n.respond(c, s, err, "Moved to step")
	})
}
