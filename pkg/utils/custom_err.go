package utils

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnknownTheme           = errors.New("unknown travel theme")
	ErrUnknownMonth           = errors.New("unknown travel month")
	ErrUnknownDuration        = errors.New("unknown travel duration")
	ErrUnknownRegion          = errors.New("unknown region")
	ErrUnknownBudget          = errors.New("unknown budget tier")
	ErrInvalidRating          = errors.New("rating must be like or dislike")
	ErrInvalidTemperature     = errors.New("invalid temperature range")
	ErrUnknownStep            = errors.New("unknown step")
	ErrStepNotValid           = errors.New("current step is not complete")
	ErrEmptyGeocodeQuery      = errors.New("empty geocode query")
	ErrLocationNotFound       = errors.New("location not found")
	ErrTooManyImages          = errors.New("too many images")
	ErrNoImages               = errors.New("no images")
	ErrEmptyMessage           = errors.New("empty message")
	ErrNoRecommendations      = errors.New("no recommendations for this session")
	ErrUnknownDestination     = errors.New("destination is not part of this recommendation record")
	ErrSupersededRequest      = errors.New("recommendation request superseded by a newer one")
	ErrBackendUnavailable     = errors.New("recommendation backend unavailable")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected behavior of AI")
	ErrInvalidSession         = errors.New("invalid session")
	ErrDatabaseError          = errors.New("database error")
)
