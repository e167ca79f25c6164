package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/models/request_models"
	"wayfinder/internal/models/response_models"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

const maxPhotoBytes = 10 << 20

type PreferenceController struct {
	sessions        services.SessionServiceInterface
	recommendations services.RecommendationServiceInterface
}

func NewPreferenceController(sessions services.SessionServiceInterface, recommendations services.RecommendationServiceInterface) *PreferenceController {
	return &PreferenceController{sessions: sessions, recommendations: recommendations}
}

type valuesSetter func(*services.PreferenceStore, context.Context, []string) (pref_models.UserPreferences, error)

func (p *PreferenceController) respondPrefs(c *gin.Context, s *services.Session, prefs pref_models.UserPreferences, err error, message string) {
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, preferencesOf(c, s, prefs), message)
}

// SetThemes godoc
// @Summary Select travel themes
// @Tags Preferences
// @Accept json
// @Produce json
// @Param request body request_models.ThemesRequest true "Selected theme keys"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /preferences/themes [put]
func (p *PreferenceController) SetThemes(c *gin.Context) {
	var req request_models.ThemesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	withSession(c, p.sessions, func(s *services.Session) {
		prefs, err := s.Prefs.SetThemes(c.Request.Context(), req.Selected)
		p.respondPrefs(c, s, prefs, err, "Themes updated")
	})
}

// SetTemperature godoc
// @Summary Set the comfortable temperature range
// @Tags Preferences
// @Accept json
// @Param request body request_models.TemperatureRequest true "Range in °C"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /preferences/temperature [put]
func (p *PreferenceController) SetTemperature(c *gin.Context) {
	var req request_models.TemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "min and max are required")
		return
	}
	withSession(c, p.sessions, func(s *services.Session) {
		prefs, err := s.Prefs.SetTemperatureRange(c.Request.Context(), *req.Min, *req.Max)
		p.respondPrefs(c, s, prefs, err, "Temperature range updated")
	})
}

func (p *PreferenceController) setValues(set valuesSetter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request_models.ValuesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
			return
		}
		withSession(c, p.sessions, func(s *services.Session) {
			prefs, err := set(s.Prefs, c.Request.Context(), req.Values)
			p.respondPrefs(c, s, prefs, err, message)
		})
	}
}

// SetMonths godoc
// @Summary Replace the travel months
// @Tags Preferences
// @Param request body request_models.ValuesRequest true "Month names"
// @Success 200 {object} utils.APIResponse
// @Router /preferences/months [put]
func (p *PreferenceController) SetMonths() gin.HandlerFunc {
	return p.setValues((*services.PreferenceStore).SetTravelMonths, "Travel months updated")
}

// SetDuration godoc
// @Summary Replace the trip durations
// @Tags Preferences
// @Param request body request_models.ValuesRequest true "Duration keys"
// @Success 200 {object} utils.APIResponse
// @Router /preferences/duration [put]
func (p *PreferenceController) SetDuration() gin.HandlerFunc {
	return p.setValues((*services.PreferenceStore).SetTravelDuration, "Travel duration updated")
}

// SetBudget godoc
// @Summary Replace the budget tiers
// @Tags Preferences
// @Param request body request_models.ValuesRequest true "Budget tiers"
// @Success 200 {object} utils.APIResponse
// @Router /preferences/budget [put]
func (p *PreferenceController) SetBudget() gin.HandlerFunc {
	return p.setValues((*services.PreferenceStore).SetTravelBudget, "Travel budget updated")
}

// SetRegions godoc
// @Summary Replace the preferred regions
// @Tags Preferences
// @Param request body request_models.ValuesRequest true "Region keys or anywhere"
// @Success 200 {object} utils.APIResponse
// @Router /preferences/regions [put]
func (p *PreferenceController) SetRegions() gin.HandlerFunc {
	return p.setValues((*services.PreferenceStore).SetPreferredRegions, "Preferred regions updated")
}

// ToggleRegion godoc
// @Summary Toggle one region
// @Tags Preferences
// @Param request body request_models.RegionToggleRequest true "Region"
// @Success 200 {object} utils.APIResponse
// @Router /preferences/regions/toggle [post]
func (p *PreferenceController) ToggleRegion(c *gin.Context) {
	var req request_models.RegionToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "region is required")
		return
	}
	withSession(c, p.sessions, func(s *services.Session) {
		prefs, err := s.Prefs.ToggleRegion(c.Request.Context(), req.Region)
		p.respondPrefs(c, s, prefs, err, "Region toggled")
	})
}

// GeocodeOrigin godoc
// @Summary Resolve the origin location
// @Tags Preferences
// @Param request body request_models.GeocodeRequest true "Free-text place"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /preferences/origin/geocode [post]
func (p *PreferenceController) GeocodeOrigin(c *gin.Context) {
	var req request_models.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	withSession(c, p.sessions, func(s *services.Session) {
		prefs, err := p.sessions.GeocodeOrigin(c.Request.Context(), s, req.Query)
		p.respondPrefs(c, s, prefs, err, "Origin location set")
	})
}

// ClearOrigin godoc
// @Summary Forget the origin location
// @Tags Preferences
// @Success 200 {object} utils.APIResponse
// @Router /preferences/origin [delete]
func (p *PreferenceController) ClearOrigin(c *gin.Context) {
	withSession(c, p.sessions, func(s *services.Session) {
		prefs, err := s.Prefs.ClearOriginLocation(c.Request.Context())
		p.respondPrefs(c, s, prefs, err, "Origin location cleared")
	})
}

// RateDestination godoc
// @Summary Like or dislike a sample destination
// @Description Repeating the current rating clears it
// @Tags Preferences
// @Param id path string true "Destination ID"
// @Param request body request_models.RatingRequest true "like or dislike"
// @Success 200 {object} utils.APIResponse
// @Router /preferences/destinations/{id}/rating [post]
func (p *PreferenceController) RateDestination(c *gin.Context) {
	var req request_models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "rating is required")
		return
	}
	withSession(c, p.sessions, func(s *services.Session) {
		prefs, err := p.sessions.RateDestination(c.Request.Context(), s, c.Param("id"), pref_models.Rating(req.Rating))
		p.respondPrefs(c, s, prefs, err, "Destination rated")
	})
}

// RandomDestinations godoc
// @Summary Sample destinations to rate
// @Tags Preferences
// @Param exclude query string false "Comma-separated destination IDs to skip"
// @Success 200 {object} utils.APIResponse
// @Router /destinations/random [get]
func (p *PreferenceController) RandomDestinations(c *gin.Context) {
	var exclude []string
	for _, id := range strings.Split(c.Query("exclude"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			exclude = append(exclude, id)
		}
	}
	destinations, err := p.recommendations.RandomDestinations(c.Request.Context(), exclude)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, destinations, "Destinations fetched")
}

// UploadPhotos godoc
// @Summary Analyse inspiration photos
// @Description Up to three images; only the photo count and outcome are kept
// @Tags Preferences
// @Accept multipart/form-data
// @Param images formData file true "Images"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /preferences/photos [post]
func (p *PreferenceController) UploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Expected multipart form with images")
		return
	}
	files := form.File["images"]
	if len(files) > services.MaxAnalyzedImages {
		utils.HandleServiceError(c, fmt.Errorf("%d images: %w", len(files), utils.ErrTooManyImages))
		return
	}

	uploads := make([]pref_models.ImageUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxPhotoBytes {
			utils.RespondError(c, http.StatusBadRequest, fmt.Sprintf("%s is larger than 10MB", fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Could not read upload")
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes))
		f.Close()
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Could not read upload")
			return
		}
		uploads = append(uploads, pref_models.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	withSession(c, p.sessions, func(s *services.Session) {
		analysis, err := p.sessions.AnalyzePhotos(c.Request.Context(), s, uploads)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, response_models.PhotoAnalysisResponse{
			Analysis:      analysis,
			PhotoAnalysis: s.Prefs.Snapshot().PhotoAnalysis,
		}, "Photos analysed")
	})
}
