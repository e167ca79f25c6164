package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/models/request_models"
	"wayfinder/internal/models/response_models"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

type RecommendationController struct {
	sessions        services.SessionServiceInterface
	recommendations services.RecommendationServiceInterface
}

func NewRecommendationController(sessions services.SessionServiceInterface, recommendations services.RecommendationServiceInterface) *RecommendationController {
	return &RecommendationController{sessions: sessions, recommendations: recommendations}
}

func recommendationsOf(s *services.Session) response_models.RecommendationsResponse {
	return response_models.RecommendationsResponse{
		RecordID:        s.RecordID.Get(),
		Recommendations: s.Recommendations.Get(),
		Feedback:        s.Feedback.Get(),
	}
}

// Fetch godoc
// @Summary Request recommendations
// @Description Sends the current preferences to the recommendation backend
// @Tags Recommendations
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /recommendations [post]
func (r *RecommendationController) Fetch(c *gin.Context) {
	withSession(c, r.sessions, func(s *services.Session) {
		if _, err := r.sessions.FetchRecommendations(c.Request.Context(), s); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, recommendationsOf(s), "Recommendations fetched")
	})
}

// Get godoc
// @Summary Last recommendations of this session
// @Tags Recommendations
// @Success 200 {object} utils.APIResponse
// @Router /recommendations [get]
func (r *RecommendationController) Get(c *gin.Context) {
	withSession(c, r.sessions, func(s *services.Session) {
		utils.RespondSuccess(c, recommendationsOf(s), "Recommendations fetched")
	})
}

// SubmitFeedback godoc
// @Summary Like or dislike a recommendation
// @Tags Recommendations
// @Param destinationId path string true "Destination ID"
// @Param request body request_models.RecommendationFeedbackRequest true "Feedback"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /recommendations/{destinationId}/feedback [post]
func (r *RecommendationController) SubmitFeedback(c *gin.Context) {
	var req request_models.RecommendationFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "feedback is required")
		return
	}
	withSession(c, r.sessions, func(s *services.Session) {
		_, err := r.sessions.SubmitFeedback(c.Request.Context(), s, c.Param("destinationId"), pref_models.Rating(req.Feedback), req.RevertOnFailure)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, recommendationsOf(s), "Feedback sent")
	})
}

// ListFeedback godoc
// @Summary List feedback sent from this session
// @Tags Recommendations
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Router /recommendations/feedback [get]
func (r *RecommendationController) ListFeedback(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size")
		return
	}

	withSession(c, r.sessions, func(s *services.Session) {
		rows, err := r.recommendations.ListFeedback(c.Request.Context(), s.ID, page, pageSize)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		items := make([]response_models.FeedbackListItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, response_models.FeedbackListItem{
				RecordID:      row.RecordID,
				DestinationID: row.DestinationID,
				Feedback:      row.Feedback,
				Delivered:     row.Delivered,
				CreatedAt:     row.CreatedAt,
			})
		}
		utils.RespondSuccess(c, items, "Feedback fetched successfully")
	})
}
