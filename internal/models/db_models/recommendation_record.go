package db_models

import "github.com/lib/pq"

// RecommendationRecord remembers which destinations a backend record id was
// issued for, so feedback can be checked before it is sent.
type RecommendationRecord struct {
	BaseModel
	SessionID      string         `gorm:"index;size:64;not null"`
	RecordID       string         `gorm:"uniqueIndex;size:128;not null"`
	DestinationIDs pq.StringArray `gorm:"type:text[]"`
}
