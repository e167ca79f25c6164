package pref_models

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type Message struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// Recommendation is produced by the recommendation backend and never
// mutated here.
type Recommendation struct {
	DestinationID string             `json:"destinationId"`
	Name          string             `json:"name"`
	Country       string             `json:"country,omitempty"`
	Description   string             `json:"description,omitempty"`
	ImageURL      string             `json:"imageUrl,omitempty"`
	Scores        map[string]float64 `json:"scores,omitempty"`
	Confidence    *float64           `json:"confidence,omitempty"`
}

type RecommendationBatch struct {
	RecommendationRecordID string           `json:"recommendationRecordId"`
	Recommendations        []Recommendation `json:"recommendations"`
}

// Destination is a candidate shown on the destination rating step.
type Destination struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type ImageAnalysis struct {
	ImageAnalysis map[string]any `json:"imageAnalysis"`
	ImageSummary  string         `json:"imageSummary"`
}

// ImageUpload is one photo forwarded to the image analysis service. It is
// never written to storage.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
