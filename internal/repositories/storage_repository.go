package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"wayfinder/internal/models/db_models"
	"wayfinder/internal/persistence"
	"wayfinder/pkg/utils"
)

type StorageRepositoryInterface interface {
	persistence.SessionGateways
	GetEntry(ctx context.Context, sessionID, key string) (*db_models.StorageEntry, error)
	PutEntry(ctx context.Context, sessionID, key, value string) error
	DeleteEntry(ctx context.Context, sessionID, key string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type StorageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) StorageRepositoryInterface {
	return &StorageRepository{db: db}
}

// GetEntry returns nil, nil when the key is not stored.
func (r *StorageRepository) GetEntry(ctx context.Context, sessionID, key string) (*db_models.StorageEntry, error) {
	var entry db_models.StorageEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return &entry, nil
}

func (r *StorageRepository) PutEntry(ctx context.Context, sessionID, key, value string) error {
	entry := db_models.StorageEntry{SessionID: sessionID, Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *StorageRepository) DeleteEntry(ctx context.Context, sessionID, key string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		Delete(&db_models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *StorageRepository) DeleteSession(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&db_models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

// ForSession adapts the table to the persistence.Gateway of one session.
func (r *StorageRepository) ForSession(sessionID string) persistence.Gateway {
	return &sessionGateway{repo: r, sessionID: sessionID}
}

type sessionGateway struct {
	repo      *StorageRepository
	sessionID string
}

func (g *sessionGateway) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := g.repo.GetEntry(ctx, g.sessionID, key)
	if err != nil || entry == nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (g *sessionGateway) Set(ctx context.Context, key, value string) error {
	return g.repo.PutEntry(ctx, g.sessionID, key, value)
}

func (g *sessionGateway) Remove(ctx context.Context, key string) error {
	return g.repo.DeleteEntry(ctx, g.sessionID, key)
}
