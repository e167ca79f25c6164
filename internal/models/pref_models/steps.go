package pref_models

type Step string

const (
	StepTravelThemes      Step = "travel-themes"
	StepTemperatureRange  Step = "temperature-range"
	StepTravelMonths      Step = "travel-months"
	StepTravelDuration    Step = "travel-duration"
	StepPreferredRegion   Step = "preferred-region"
	StepOriginLocation    Step = "origin-location"
	StepTravelBudget      Step = "travel-budget"
	StepDestinationRating Step = "destination-rating"
	StepPhotoUpload       Step = "photo-upload"
	StepConversation      Step = "conversation"
)

// Steps is the questionnaire order. URLs address steps by their 1-based
// position in this list.
var Steps = []Step{
	StepTravelThemes,
	StepTemperatureRange,
	StepTravelMonths,
	StepTravelDuration,
	StepPreferredRegion,
	StepOriginLocation,
	StepTravelBudget,
	StepDestinationRating,
	StepPhotoUpload,
	StepConversation,
}

// StepAt maps a 1-based index to its step.
func StepAt(index int) (Step, bool) {
	if index < 1 || index > len(Steps) {
		return "", false
	}
	return Steps[index-1], true
}

// IndexOf returns the 1-based index of s, or 0 for an unknown step.
func IndexOf(s Step) int {
	for i, step := range Steps {
		if step == s {
			return i + 1
		}
	}
	return 0
}

func (s Step) Known() bool {
	return IndexOf(s) > 0
}
