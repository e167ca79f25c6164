package request_models

type ThemesRequest struct {
	Selected []string `json:"selected"`
}

type TemperatureRequest struct {
	Min *int `json:"min" binding:"required"`
	Max *int `json:"max" binding:"required"`
}

// ValuesRequest replaces a multi-select answer (months, durations, budget
// tiers, regions).
type ValuesRequest struct {
	Values []string `json:"values"`
}

type RegionToggleRequest struct {
	Region string `json:"region" binding:"required"`
}

type GeocodeRequest struct {
	Query string `json:"query"`
}

type RatingRequest struct {
	Rating string `json:"rating" binding:"required"`
}
