package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"wayfinder/internal/models/db_models"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/repositories"
	"wayfinder/pkg/utils"
)

type RecommendationServiceInterface interface {
	// Fetch sends a snapshot of prefs to the backend. scope identifies the
	// requester (the session); only its newest call may win.
	Fetch(ctx context.Context, scope string, prefs pref_models.UserPreferences) (*pref_models.RecommendationBatch, error)
	SubmitFeedback(ctx context.Context, scope, recordID, destinationID string, feedback pref_models.Rating) error
	ListFeedback(ctx context.Context, scope string, page, pageSize int) ([]db_models.RecommendationFeedback, error)
	RandomDestinations(ctx context.Context, exclude []string) ([]pref_models.Destination, error)
	SendDestinationFeedback(ctx context.Context, destinationID string, feedback pref_models.Rating) error
	AnalyzeImages(ctx context.Context, images []pref_models.ImageUpload) (*pref_models.ImageAnalysis, error)
}

type RecommendationService struct {
	backend RecommendationBackend
	repo    repositories.RecommendationRepositoryInterface
	logger  *zap.Logger

	mu     sync.Mutex
	latest map[string]uint64
}

func NewRecommendationService(
	backend RecommendationBackend,
	repo repositories.RecommendationRepositoryInterface,
	logger *zap.Logger,
) RecommendationServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		backend: backend,
		repo:    repo,
		logger:  logger,
		latest:  make(map[string]uint64),
	}
}

func (s *RecommendationService) issue(scope string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[scope]++
	return s.latest[scope]
}

func (s *RecommendationService) isLatest(scope string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[scope] == seq
}

func (s *RecommendationService) Fetch(ctx context.Context, scope string, prefs pref_models.UserPreferences) (*pref_models.RecommendationBatch, error) {
	snapshot := prefs.Clone()
	seq := s.issue(scope)

	batch, err := s.backend.FetchRecommendations(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	if !s.isLatest(scope, seq) {
		s.logger.Info("dropping superseded recommendation response",
			zap.String("scope", scope), zap.Uint64("seq", seq))
		return nil, utils.ErrSupersededRequest
	}

	if s.repo != nil && batch.RecommendationRecordID != "" {
		ids := make([]string, 0, len(batch.Recommendations))
		for _, r := range batch.Recommendations {
			ids = append(ids, r.DestinationID)
		}
		if err := s.repo.SaveRecord(ctx, scope, batch.RecommendationRecordID, ids); err != nil {
			s.logger.Warn("could not record recommendation batch",
				zap.String("record_id", batch.RecommendationRecordID), zap.Error(err))
		}
	}
	return batch, nil
}

// SubmitFeedback sends one like/dislike for a recommended destination. A
// destination the record was not issued for is refused before any call.
func (s *RecommendationService) SubmitFeedback(ctx context.Context, scope, recordID, destinationID string, feedback pref_models.Rating) error {
	if recordID == "" || destinationID == "" {
		return fmt.Errorf("record and destination ids: %w", utils.ErrInvalidInput)
	}
	if !feedback.Valid() {
		return fmt.Errorf("%q: %w", feedback, utils.ErrInvalidRating)
	}

	if s.repo != nil {
		record, err := s.repo.GetRecord(ctx, recordID)
		if err != nil {
			s.logger.Warn("recommendation record lookup failed", zap.String("record_id", recordID), zap.Error(err))
		} else if record != nil && !containsString(record.DestinationIDs, destinationID) {
			return fmt.Errorf("%q in %q: %w", destinationID, recordID, utils.ErrUnknownDestination)
		}
	}

	sendErr := s.backend.SendRecommendationFeedback(ctx, recordID, destinationID, feedback)

	if s.repo != nil {
		audit := &db_models.RecommendationFeedback{
			SessionID:     scope,
			RecordID:      recordID,
			DestinationID: destinationID,
			Feedback:      string(feedback),
			Delivered:     sendErr == nil,
		}
		if err := s.repo.CreateFeedback(ctx, audit); err != nil {
			s.logger.Warn("could not store feedback audit row", zap.Error(err))
		}
	}
	return sendErr
}

func (s *RecommendationService) ListFeedback(ctx context.Context, scope string, page, pageSize int) ([]db_models.RecommendationFeedback, error) {
	if s.repo == nil {
		return []db_models.RecommendationFeedback{}, nil
	}
	feedbacks, err := s.repo.ListFeedback(ctx, scope, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return feedbacks, nil
}

func (s *RecommendationService) RandomDestinations(ctx context.Context, exclude []string) ([]pref_models.Destination, error) {
	return s.backend.RandomDestinations(ctx, exclude)
}

func (s *RecommendationService) SendDestinationFeedback(ctx context.Context, destinationID string, feedback pref_models.Rating) error {
	if !feedback.Valid() {
		return fmt.Errorf("%q: %w", feedback, utils.ErrInvalidRating)
	}
	return s.backend.SendDestinationFeedback(ctx, destinationID, feedback)
}

func (s *RecommendationService) AnalyzeImages(ctx context.Context, images []pref_models.ImageUpload) (*pref_models.ImageAnalysis, error) {
	if len(images) == 0 {
		return nil, utils.ErrNoImages
	}
	if len(images) > MaxAnalyzedImages {
		return nil, fmt.Errorf("%d images, at most %d: %w", len(images), MaxAnalyzedImages, utils.ErrTooManyImages)
	}
	return s.backend.AnalyzeImages(ctx, images)
}

// FeedbackLedger holds the local like/dislike shown next to each
// recommendation, keyed by destination id.
type FeedbackLedger map[string]pref_models.Rating

// FeedbackStage is an optimistic local feedback change waiting for the
// backend's answer. Confirm keeps it; Revert restores the previous value.
type FeedbackStage struct {
	ledger        FeedbackLedger
	DestinationID string
	Applied       pref_models.Rating
	previous      pref_models.Rating
	hadPrevious   bool
	settled       bool
}

// StageFeedback applies feedback to ledger immediately.
func StageFeedback(ledger FeedbackLedger, destinationID string, feedback pref_models.Rating) *FeedbackStage {
	prev, had := ledger[destinationID]
	ledger[destinationID] = feedback
	return &FeedbackStage{
		ledger:        ledger,
		DestinationID: destinationID,
		Applied:       feedback,
		previous:      prev,
		hadPrevious:   had,
	}
}

func (f *FeedbackStage) Confirm() {
	f.settled = true
}

func (f *FeedbackStage) Revert() {
	if f.settled {
		return
	}
	f.settled = true
	if f.hadPrevious {
		f.ledger[f.DestinationID] = f.previous
		return
	}
	delete(f.ledger, f.DestinationID)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
