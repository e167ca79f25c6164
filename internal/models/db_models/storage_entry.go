package db_models

// StorageEntry is one namespaced key of one session's durable storage.
type StorageEntry struct {
	SessionID string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}
