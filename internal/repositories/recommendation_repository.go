package repositories

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"wayfinder/internal/models/db_models"
)

type RecommendationRepositoryInterface interface {
	SaveRecord(ctx context.Context, sessionID, recordID string, destinationIDs []string) error
	GetRecord(ctx context.Context, recordID string) (*db_models.RecommendationRecord, error)
	CreateFeedback(ctx context.Context, feedback *db_models.RecommendationFeedback) error
	ListFeedback(ctx context.Context, sessionID string, page, pageSize int) ([]db_models.RecommendationFeedback, error)
}

type RecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepositoryInterface {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) SaveRecord(ctx context.Context, sessionID, recordID string, destinationIDs []string) error {
	record := &db_models.RecommendationRecord{
		SessionID:      sessionID,
		RecordID:       recordID,
		DestinationIDs: pq.StringArray(destinationIDs),
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Unscoped().
			Where("record_id = ?", recordID).
			Delete(&db_models.RecommendationRecord{}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Create(record).Error
	})
}

// GetRecord returns nil, nil for an unknown record id.
func (r *RecommendationRepository) GetRecord(ctx context.Context, recordID string) (*db_models.RecommendationRecord, error) {
	var record db_models.RecommendationRecord
	err := r.db.WithContext(ctx).Where("record_id = ?", recordID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *RecommendationRepository) CreateFeedback(ctx context.Context, feedback *db_models.RecommendationFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *RecommendationRepository) ListFeedback(ctx context.Context, sessionID string, page, pageSize int) ([]db_models.RecommendationFeedback, error) {
	var feedbacks []db_models.RecommendationFeedback
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}
