package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wayfinder/internal/models/request_models"
	"wayfinder/internal/models/response_models"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

type ConversationController struct {
	sessions     services.SessionServiceInterface
	conversation services.ConversationServiceInterface
}

func NewConversationController(sessions services.SessionServiceInterface, conversation services.ConversationServiceInterface) *ConversationController {
	return &ConversationController{sessions: sessions, conversation: conversation}
}

// ListMessages godoc
// @Summary Refinement chat transcript
// @Tags Conversation
// @Success 200 {object} utils.APIResponse
// @Router /conversation/messages [get]
func (cc *ConversationController) ListMessages(c *gin.Context) {
	withSession(c, cc.sessions, func(s *services.Session) {
		utils.RespondSuccess(c, response_models.MessagesResponse{
			Messages:    s.Messages.Get(),
			ChatStarted: s.ChatStarted.Get(),
		}, "Messages fetched")
	})
}

// SendMessage godoc
// @Summary Send a chat message
// @Tags Conversation
// @Param request body request_models.MessageRequest true "Message"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /conversation/messages [post]
func (cc *ConversationController) SendMessage(c *gin.Context) {
	var req request_models.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	withSession(c, cc.sessions, func(s *services.Session) {
		messages, err := cc.conversation.SendMessage(c.Request.Context(), s, req.Text)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, response_models.MessagesResponse{
			Messages:    messages,
			ChatStarted: s.ChatStarted.Get(),
		}, "Message sent")
	})
}
