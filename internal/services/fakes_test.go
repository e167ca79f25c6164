package services

import (
	"context"
	"sync"

	"wayfinder/internal/models/db_models"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/persistence"
)

type fakeBackend struct {
	mu sync.Mutex

	batch      *pref_models.RecommendationBatch
	fetchErr   error
	fetchHook  func(n int)
	fetchCalls int
	lastPrefs  pref_models.UserPreferences

	feedbackErr   error
	feedbackCalls []string

	destFeedbackErr   error
	destFeedbackCalls []string

	analysis   *pref_models.ImageAnalysis
	analyzeErr error

	destinations []pref_models.Destination
}

func (f *fakeBackend) RandomDestinations(_ context.Context, exclude []string) ([]pref_models.Destination, error) {
	out := make([]pref_models.Destination, 0, len(f.destinations))
	for _, d := range f.destinations {
		if !containsString(exclude, d.ID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeBackend) SendDestinationFeedback(_ context.Context, destinationID string, feedback pref_models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destFeedbackCalls = append(f.destFeedbackCalls, destinationID+"="+string(feedback))
	return f.destFeedbackErr
}

func (f *fakeBackend) AnalyzeImages(_ context.Context, _ []pref_models.ImageUpload) (*pref_models.ImageAnalysis, error) {
	return f.analysis, f.analyzeErr
}

func (f *fakeBackend) FetchRecommendations(_ context.Context, prefs pref_models.UserPreferences) (*pref_models.RecommendationBatch, error) {
	f.mu.Lock()
	f.fetchCalls++
	n := f.fetchCalls
	f.lastPrefs = prefs
	hook := f.fetchHook
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.batch, nil
}

func (f *fakeBackend) SendRecommendationFeedback(_ context.Context, recordID, destinationID string, feedback pref_models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedbackCalls = append(f.feedbackCalls, recordID+"/"+destinationID+"="+string(feedback))
	return f.feedbackErr
}

type fakeRecommendationRepo struct {
	mu        sync.Mutex
	records   map[string]*db_models.RecommendationRecord
	feedbacks []db_models.RecommendationFeedback
}

func newFakeRecommendationRepo() *fakeRecommendationRepo {
	return &fakeRecommendationRepo{records: map[string]*db_models.RecommendationRecord{}}
}

func (r *fakeRecommendationRepo) SaveRecord(_ context.Context, sessionID, recordID string, destinationIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordID] = &db_models.RecommendationRecord{
		SessionID:      sessionID,
		RecordID:       recordID,
		DestinationIDs: destinationIDs,
	}
	return nil
}

func (r *fakeRecommendationRepo) GetRecord(_ context.Context, recordID string) (*db_models.RecommendationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[recordID], nil
}

func (r *fakeRecommendationRepo) CreateFeedback(_ context.Context, feedback *db_models.RecommendationFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedbacks = append(r.feedbacks, *feedback)
	return nil
}

func (r *fakeRecommendationRepo) ListFeedback(_ context.Context, sessionID string, _, _ int) ([]db_models.RecommendationFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.RecommendationFeedback
	for _, f := range r.feedbacks {
		if f.SessionID == sessionID {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeGenerator struct {
	reply string
	err   error
	seen  []pref_models.Message
}

func (g *fakeGenerator) GenerateReply(_ context.Context, _ pref_models.UserPreferences, history []pref_models.Message) (string, error) {
	g.seen = history
	return g.reply, g.err
}

func (g *fakeGenerator) Close() error { return nil }

type fakeGeocoder struct {
	loc   pref_models.Location
	err   error
	calls int
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (pref_models.Location, error) {
	g.calls++
	return g.loc, g.err
}

// failingGateway accepts reads but refuses every write.
type failingGateway struct {
	persistence.Gateway
	err error
}

func (f failingGateway) Set(context.Context, string, string) error { return f.err }
func (f failingGateway) Remove(context.Context, string) error      { return f.err }
