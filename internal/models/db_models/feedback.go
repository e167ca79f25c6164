package db_models

// RecommendationFeedback is the audit row of one like/dislike sent for a
// recommended destination.
type RecommendationFeedback struct {
	BaseModel
	SessionID     string `gorm:"index;size:64;not null"`
	RecordID      string `gorm:"index;size:128;not null"`
	DestinationID string `gorm:"size:128;not null"`
	Feedback      string `gorm:"size:16;not null"`
	Delivered     bool
}
