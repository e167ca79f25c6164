package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"wayfinder/internal/api/controllers"
	"wayfinder/pkg/middleware"
	"wayfinder/pkg/utils"
)

// Controllers is filled by fx with every HTTP controller.
type Controllers struct {
	fx.In

	Session        *controllers.SessionController
	Preference     *controllers.PreferenceController
	Navigation     *controllers.NavigationController
	Recommendation *controllers.RecommendationController
	Conversation   *controllers.ConversationController
}

func RegisterRoutes(r *gin.Engine, signer *utils.SessionSigner, ctl Controllers) {
	r.POST("/sessions", ctl.Session.CreateSession)

	auth := r.Group("/", middleware.SessionAuthMiddleware(signer))

	sessionGroup := auth.Group("/session")
	sessionGroup.GET("/state", ctl.Session.GetState)
	sessionGroup.POST("/reset", ctl.Session.Reset)
	sessionGroup.POST("/title-screen", ctl.Session.MarkTitleScreenShown)

	prefs := auth.Group("/preferences")
	prefs.PUT("/themes", ctl.Preference.SetThemes)
	prefs.PUT("/temperature", ctl.Preference.SetTemperature)
	prefs.PUT("/months", ctl.Preference.SetMonths())
	prefs.PUT("/duration", ctl.Preference.SetDuration())
	prefs.PUT("/budget", ctl.Preference.SetBudget())
	prefs.PUT("/regions", ctl.Preference.SetRegions())
	prefs.POST("/regions/toggle", ctl.Preference.ToggleRegion)
	prefs.POST("/origin/geocode", ctl.Preference.GeocodeOrigin)
	prefs.DELETE("/origin", ctl.Preference.ClearOrigin)
	prefs.POST("/destinations/:id/rating", ctl.Preference.RateDestination)
	prefs.POST("/photos", ctl.Preference.UploadPhotos)

	auth.GET("/destinations/random", ctl.Preference.RandomDestinations)

	nav := auth.Group("/navigation")
	nav.POST("/next", ctl.Navigation.Next)
	nav.POST("/previous", ctl.Navigation.Previous)
	nav.POST("/jump", ctl.Navigation.Jump)

	conv := auth.Group("/conversation")
	conv.GET("/messages", ctl.Conversation.ListMessages)
	conv.POST("/messages", ctl.Conversation.SendMessage)

	recs := auth.Group("/recommendations")
	recs.POST("", ctl.Recommendation.Fetch)
	recs.GET("", ctl.Recommendation.Get)
	recs.GET("/feedback", ctl.Recommendation.ListFeedback)
	recs.POST("/:destinationId/feedback", ctl.Recommendation.SubmitFeedback)
}
