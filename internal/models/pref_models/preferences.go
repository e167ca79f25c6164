package pref_models

const (
	ThemeSelected   = 5
	ThemeUnselected = 1

	TemperatureFloor   = -10
	TemperatureCeiling = 40

	DefaultTemperatureMin = -5
	DefaultTemperatureMax = 30

	RegionAnywhere = "anywhere"
)

// ThemeKeys is the fixed set of travel themes; every key is always present
// in UserPreferences.TravelThemes.
var ThemeKeys = []string{
	"beaches",
	"culture",
	"nature",
	"adventure",
	"food",
	"nightlife",
	"wellness",
	"shopping",
	"history",
}

var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var Durations = []string{"day-trip", "weekend", "short", "week", "long"}

var Regions = []string{
	"europe",
	"asia",
	"africa",
	"north-america",
	"south-america",
	"oceania",
	"middle-east",
	"caribbean",
}

var BudgetTiers = []string{"budget", "mid-range", "luxury"}

type Rating string

const (
	RatingLike    Rating = "like"
	RatingDislike Rating = "dislike"
)

func (r Rating) Valid() bool {
	return r == RatingLike || r == RatingDislike
}

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type PhotoAnalysis struct {
	PhotoCount           int  `json:"photoCount"`
	AdjustmentSuccessful bool `json:"adjustmentSuccessful"`
}

type ConversationSummary struct {
	UserMessageCount int `json:"userMessageCount"`
}

// UserPreferences is the full questionnaire state. Its JSON form is both the
// persisted blob and the body sent to the recommendation backend.
type UserPreferences struct {
	TravelThemes        map[string]int      `json:"travelThemes"`
	TemperatureRange    [2]int              `json:"temperatureRange"`
	TravelMonths        []string            `json:"travelMonths"`
	TravelDuration      []string            `json:"travelDuration"`
	PreferredRegions    []string            `json:"preferredRegions"`
	OriginLocation      *Location           `json:"originLocation"`
	TravelBudget        []string            `json:"travelBudget"`
	DestinationRatings  map[string]*Rating  `json:"destinationRatings"`
	PhotoAnalysis       PhotoAnalysis       `json:"photoAnalysis"`
	ConversationSummary ConversationSummary `json:"conversationSummary"`
}

// DefaultThemes returns a new ratings map with every theme unselected.
func DefaultThemes() map[string]int {
	themes := make(map[string]int, len(ThemeKeys))
	for _, k := range ThemeKeys {
		themes[k] = ThemeUnselected
	}
	return themes
}

// DefaultPreferences builds a fresh default object. Nothing in the result is
// shared with a previous call.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		TravelThemes:        DefaultThemes(),
		TemperatureRange:    [2]int{DefaultTemperatureMin, DefaultTemperatureMax},
		TravelMonths:        []string{},
		TravelDuration:      []string{},
		PreferredRegions:    []string{},
		OriginLocation:      nil,
		TravelBudget:        []string{},
		DestinationRatings:  map[string]*Rating{},
		PhotoAnalysis:       PhotoAnalysis{},
		ConversationSummary: ConversationSummary{},
	}
}

// Clone deep-copies p so later mutations of either value do not leak.
func (p UserPreferences) Clone() UserPreferences {
	out := p
	out.TravelThemes = make(map[string]int, len(p.TravelThemes))
	for k, v := range p.TravelThemes {
		out.TravelThemes[k] = v
	}
	out.TravelMonths = cloneStrings(p.TravelMonths)
	out.TravelDuration = cloneStrings(p.TravelDuration)
	out.PreferredRegions = cloneStrings(p.PreferredRegions)
	out.TravelBudget = cloneStrings(p.TravelBudget)
	if p.OriginLocation != nil {
		loc := *p.OriginLocation
		out.OriginLocation = &loc
	}
	out.DestinationRatings = make(map[string]*Rating, len(p.DestinationRatings))
	for k, v := range p.DestinationRatings {
		if v == nil {
			out.DestinationRatings[k] = nil
			continue
		}
		r := *v
		out.DestinationRatings[k] = &r
	}
	return out
}

// SelectedThemes lists the themes holding the selected sentinel, in
// ThemeKeys order.
func (p UserPreferences) SelectedThemes() []string {
	selected := make([]string, 0, len(ThemeKeys))
	for _, k := range ThemeKeys {
		if p.TravelThemes[k] == ThemeSelected {
			selected = append(selected, k)
		}
	}
	return selected
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func IsTheme(s string) bool    { return contains(ThemeKeys, s) }
func IsMonth(s string) bool    { return contains(Months, s) }
func IsDuration(s string) bool { return contains(Durations, s) }
func IsBudget(s string) bool   { return contains(BudgetTiers, s) }

func IsRegion(s string) bool {
	return s == RegionAnywhere || contains(Regions, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
