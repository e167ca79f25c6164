package services

import "wayfinder/internal/models/pref_models"

// IsStepValid reports whether the visitor may move forward from step.
// Steps without a requirement are always valid.
func IsStepValid(step pref_models.Step, p pref_models.UserPreferences) bool {
	switch step {
	case pref_models.StepTravelThemes:
		for _, v := range p.TravelThemes {
			if v == pref_models.ThemeSelected {
				return true
			}
		}
		return false
	case pref_models.StepTravelMonths:
		return len(p.TravelMonths) > 0
	case pref_models.StepTravelDuration:
		return len(p.TravelDuration) > 0
	case pref_models.StepPreferredRegion:
		return len(p.PreferredRegions) > 0
	case pref_models.StepOriginLocation:
		return p.OriginLocation != nil
	case pref_models.StepTravelBudget:
		return len(p.TravelBudget) > 0
	default:
		return true
	}
}
