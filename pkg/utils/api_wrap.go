package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceIDOf(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
	})
}

// HandleServiceError maps service sentinel errors onto HTTP statuses.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnknownTheme),
		errors.Is(err, ErrUnknownMonth),
		errors.Is(err, ErrUnknownDuration),
		errors.Is(err, ErrUnknownRegion),
		errors.Is(err, ErrUnknownBudget),
		errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrInvalidTemperature),
		errors.Is(err, ErrUnknownStep),
		errors.Is(err, ErrEmptyGeocodeQuery),
		errors.Is(err, ErrTooManyImages),
		errors.Is(err, ErrNoImages),
		errors.Is(err, ErrEmptyMessage):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStepNotValid), errors.Is(err, ErrUnknownDestination):
		RespondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrLocationNotFound), errors.Is(err, ErrNoRecommendations):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSupersededRequest):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidSession):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrBackendUnavailable), errors.Is(err, ErrUnexpectedBehaviorOfAI):
		zap.L().Warn("upstream error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusBadGateway, "Upstream service unavailable")
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unknown error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
