package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/persistence"
	"wayfinder/internal/state"
	"wayfinder/pkg/utils"
)

// Session is everything the questionnaire keeps for one visitor, resolved
// against the request URL and the visitor's durable storage.
type Session struct {
	ID        string
	URL       *persistence.QueryURL
	Storage   persistence.Gateway
	Prefs     *PreferenceStore
	Tracker   *state.StepTracker
	Sequencer *StepSequencer

	Messages             *state.PersistedValue[[]pref_models.Message]
	Recommendations      *state.PersistedValue[[]pref_models.Recommendation]
	RecordID             *state.PersistedValue[string]
	Feedback             *state.PersistedValue[FeedbackLedger]
	ChatStarted          *state.PersistedValue[bool]
	TitleScreenShown     *state.PersistedValue[bool]
	RecommendationsShown *state.PersistedValue[bool]
}

// CanAdvance reports whether the current step allows moving forward.
func (s *Session) CanAdvance() bool {
	return IsStepValid(s.Sequencer.Current(), s.Prefs.Snapshot())
}

type SessionServiceInterface interface {
	// Acquire serializes requests of one session; call the returned func
	// when done.
	Acquire(sessionID string) func()
	Open(ctx context.Context, sessionID string, location *url.URL) (*Session, error)
	Next(ctx context.Context, s *Session) (pref_models.Step, error)
	Previous(ctx context.Context, s *Session) (pref_models.Step, error)
	JumpTo(ctx context.Context, s *Session, step pref_models.Step) (pref_models.Step, error)
	GeocodeOrigin(ctx context.Context, s *Session, query string) (pref_models.UserPreferences, error)
	RateDestination(ctx context.Context, s *Session, destinationID string, rating pref_models.Rating) (pref_models.UserPreferences, error)
	AnalyzePhotos(ctx context.Context, s *Session, images []pref_models.ImageUpload) (*pref_models.ImageAnalysis, error)
	FetchRecommendations(ctx context.Context, s *Session) (*pref_models.RecommendationBatch, error)
	SubmitFeedback(ctx context.Context, s *Session, destinationID string, feedback pref_models.Rating, revertOnFailure bool) (FeedbackLedger, error)
	MarkTitleScreenShown(ctx context.Context, s *Session) error
	Reset(ctx context.Context, s *Session) error
}

type SessionService struct {
	gateways        persistence.SessionGateways
	namespace       string
	recommendations RecommendationServiceInterface
	geocoder        GeocodeServiceInterface
	locks           *SessionLocks
	logger          *zap.Logger
}

func NewSessionService(
	gateways persistence.SessionGateways,
	namespace string,
	recommendations RecommendationServiceInterface,
	geocoder GeocodeServiceInterface,
	logger *zap.Logger,
) SessionServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		gateways:        gateways,
		namespace:       namespace,
		recommendations: recommendations,
		geocoder:        geocoder,
		locks:           NewSessionLocks(),
		logger:          logger,
	}
}

func (svc *SessionService) Acquire(sessionID string) func() {
	return svc.locks.Acquire(sessionID)
}

func (svc *SessionService) Open(ctx context.Context, sessionID string, location *url.URL) (*Session, error) {
	if sessionID == "" {
		return nil, utils.ErrInvalidSession
	}
	storage := persistence.NewNamespaced(svc.gateways.ForSession(sessionID), svc.namespace)
	queryURL := persistence.NewQueryURL(location)
	logger := svc.logger.With(zap.String("session_id", sessionID))

	stored := state.Options{ToStorage: true}
	sinks := state.Sinks{Storage: storage, URL: queryURL, Logger: logger}

	tracker := state.NewStepTracker(ctx, pref_models.StepTravelThemes, sinks)
	return &Session{
		ID:        sessionID,
		URL:       queryURL,
		Storage:   storage,
		Prefs:     NewPreferenceStore(ctx, storage, logger),
		Tracker:   tracker,
		Sequencer: NewStepSequencer(tracker),

		Messages:             state.NewPersistedValue(ctx, persistence.KeyMessages, []pref_models.Message{}, stored, sinks),
		Recommendations:      state.NewPersistedValue(ctx, persistence.KeyRecommendations, []pref_models.Recommendation{}, stored, sinks),
		RecordID:             state.NewPersistedValue(ctx, persistence.KeyRecommendationRecordID, "", stored, sinks),
		Feedback:             state.NewPersistedValue(ctx, persistence.KeyRecommendationFeedback, FeedbackLedger{}, stored, sinks),
		ChatStarted:          state.NewPersistedValue(ctx, persistence.KeyChatStarted, false, stored, sinks),
		TitleScreenShown:     state.NewPersistedValue(ctx, persistence.KeyTitleScreenShown, false, stored, sinks),
		RecommendationsShown: state.NewPersistedValue(ctx, persistence.KeyRecommendationsShown, false, stored, sinks),
	}, nil
}

// Next advances only when the current step is complete.
func (svc *SessionService) Next(ctx context.Context, s *Session) (pref_models.Step, error) {
	if !s.CanAdvance() {
		return s.Sequencer.Current(), fmt.Errorf("%s: %w", s.Sequencer.Current(), utils.ErrStepNotValid)
	}
	return s.Sequencer.Next(ctx)
}

func (svc *SessionService) Previous(ctx context.Context, s *Session) (pref_models.Step, error) {
	return s.Sequencer.Previous(ctx)
}

func (svc *SessionService) JumpTo(ctx context.Context, s *Session, step pref_models.Step) (pref_models.Step, error) {
	return s.Sequencer.JumpTo(ctx, step)
}

// GeocodeOrigin resolves the typed origin. The previous location is
// cleared first so a failed lookup never leaves a stale origin behind.
func (svc *SessionService) GeocodeOrigin(ctx context.Context, s *Session, query string) (pref_models.UserPreferences, error) {
	if _, err := s.Prefs.ClearOriginLocation(ctx); err != nil {
		return s.Prefs.Snapshot(), err
	}
	loc, err := svc.geocoder.Geocode(ctx, query)
	if err != nil {
		return s.Prefs.Snapshot(), err
	}
	return s.Prefs.SetOriginLocation(ctx, loc)
}

// RateDestination toggles the local rating and, when a rating remains,
// tells the backend. A failed call keeps the local rating.
func (svc *SessionService) RateDestination(ctx context.Context, s *Session, destinationID string, rating pref_models.Rating) (pref_models.UserPreferences, error) {
	prefs, err := s.Prefs.RateDestination(ctx, destinationID, rating)
	if err != nil {
		return prefs, err
	}
	if prefs.DestinationRatings[destinationID] == nil {
		return prefs, nil
	}
	if err := svc.recommendations.SendDestinationFeedback(ctx, destinationID, rating); err != nil {
		svc.logger.Warn("destination feedback not delivered",
			zap.String("session_id", s.ID), zap.String("destination_id", destinationID), zap.Error(err))
		return prefs, err
	}
	return prefs, nil
}

// AnalyzePhotos forwards the images and keeps only the summary.
func (svc *SessionService) AnalyzePhotos(ctx context.Context, s *Session, images []pref_models.ImageUpload) (*pref_models.ImageAnalysis, error) {
	analysis, err := svc.recommendations.AnalyzeImages(ctx, images)
	if err != nil {
		if errors.Is(err, utils.ErrBackendUnavailable) {
			if _, perr := s.Prefs.SetPhotoAnalysis(ctx, len(images), false); perr != nil {
				return nil, errors.Join(err, perr)
			}
		}
		return nil, err
	}
	if _, err := s.Prefs.SetPhotoAnalysis(ctx, len(images), true); err != nil {
		return analysis, err
	}
	return analysis, nil
}

func (svc *SessionService) FetchRecommendations(ctx context.Context, s *Session) (*pref_models.RecommendationBatch, error) {
	batch, err := svc.recommendations.Fetch(ctx, s.ID, s.Prefs.Snapshot())
	if err != nil {
		return nil, err
	}

	errs := []error{
		s.Recommendations.Set(ctx, batch.Recommendations),
		s.RecordID.Set(ctx, batch.RecommendationRecordID),
		s.Feedback.Set(ctx, FeedbackLedger{}),
		s.RecommendationsShown.Set(ctx, true),
	}
	return batch, errors.Join(errs...)
}

// SubmitFeedback applies the feedback locally, then sends it. On failure
// the local change is rolled back only when revertOnFailure is set.
func (svc *SessionService) SubmitFeedback(ctx context.Context, s *Session, destinationID string, feedback pref_models.Rating, revertOnFailure bool) (FeedbackLedger, error) {
	if !feedback.Valid() {
		return s.Feedback.Get(), fmt.Errorf("%q: %w", feedback, utils.ErrInvalidRating)
	}
	recordID := s.RecordID.Get()
	if recordID == "" {
		return s.Feedback.Get(), utils.ErrNoRecommendations
	}

	ledger := s.Feedback.Get()
	if ledger == nil {
		ledger = FeedbackLedger{}
	}
	stage := StageFeedback(ledger, destinationID, feedback)
	if err := s.Feedback.Set(ctx, ledger); err != nil {
		return ledger, err
	}

	sendErr := svc.recommendations.SubmitFeedback(ctx, s.ID, recordID, destinationID, feedback)
	if sendErr == nil {
		stage.Confirm()
		return ledger, nil
	}
	if revertOnFailure {
		stage.Revert()
		if err := s.Feedback.Set(ctx, ledger); err != nil {
			return ledger, errors.Join(sendErr, err)
		}
	}
	return ledger, sendErr
}

func (svc *SessionService) MarkTitleScreenShown(ctx context.Context, s *Session) error {
	return s.TitleScreenShown.Set(ctx, true)
}

// Reset gives the visitor a clean questionnaire. The title-screen flag is
// kept.
func (svc *SessionService) Reset(ctx context.Context, s *Session) error {
	err := errors.Join(
		s.Prefs.Reset(ctx),
		s.Messages.Reset(ctx),
		s.Recommendations.Reset(ctx),
		s.RecordID.Reset(ctx),
		s.Feedback.Reset(ctx),
		s.ChatStarted.Reset(ctx),
		s.RecommendationsShown.Reset(ctx),
		s.Tracker.Clear(ctx),
	)
	if err != nil {
		svc.logger.Error("session reset incomplete", zap.String("session_id", s.ID), zap.Error(err))
	}
	return err
}
