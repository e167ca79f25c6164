package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"wayfinder/internal/models/pref_models"
	"wayfinder/pkg/utils"
)

const MaxAnalyzedImages = 3

// RecommendationBackend is the external service that ranks destinations and
// analyses photos.
type RecommendationBackend interface {
	RandomDestinations(ctx context.Context, exclude []string) ([]pref_models.Destination, error)
	SendDestinationFeedback(ctx context.Context, destinationID string, feedback pref_models.Rating) error
	AnalyzeImages(ctx context.Context, images []pref_models.ImageUpload) (*pref_models.ImageAnalysis, error)
	FetchRecommendations(ctx context.Context, prefs pref_models.UserPreferences) (*pref_models.RecommendationBatch, error)
	SendRecommendationFeedback(ctx context.Context, recordID, destinationID string, feedback pref_models.Rating) error
}

type BackendClient struct {
	HTTP    *http.Client
	BaseURL string
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BackendClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *BackendClient) RandomDestinations(ctx context.Context, exclude []string) ([]pref_models.Destination, error) {
	q := url.Values{}
	if len(exclude) > 0 {
		q.Set("exclude", strings.Join(exclude, ","))
	}
	endpoint := c.BaseURL + "/api/destinations/random"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var out []pref_models.Destination
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) SendDestinationFeedback(ctx context.Context, destinationID string, feedback pref_models.Rating) error {
	endpoint := fmt.Sprintf("%s/api/destinations/%s/feedback", c.BaseURL, url.PathEscape(destinationID))
	req, err := c.jsonRequest(ctx, endpoint, map[string]string{"feedback": string(feedback)})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *BackendClient) AnalyzeImages(ctx context.Context, images []pref_models.ImageUpload) (*pref_models.ImageAnalysis, error) {
	if len(images) == 0 {
		return nil, utils.ErrNoImages
	}
	if len(images) > MaxAnalyzedImages {
		return nil, fmt.Errorf("%d images, at most %d: %w", len(images), MaxAnalyzedImages, utils.ErrTooManyImages)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for i, img := range images {
		name := img.Filename
		if name == "" {
			name = fmt.Sprintf("photo-%d", i+1)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, strings.ReplaceAll(name, `"`, "")))
		ct := img.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/preferences/analyze-images", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out pref_models.ImageAnalysis
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) FetchRecommendations(ctx context.Context, prefs pref_models.UserPreferences) (*pref_models.RecommendationBatch, error) {
	req, err := c.jsonRequest(ctx, c.BaseURL+"/api/recommendations", prefs)
	if err != nil {
		return nil, err
	}
	var out pref_models.RecommendationBatch
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) SendRecommendationFeedback(ctx context.Context, recordID, destinationID string, feedback pref_models.Rating) error {
	endpoint := fmt.Sprintf("%s/api/recommendations/%s/feedback", c.BaseURL, url.PathEscape(recordID))
	req, err := c.jsonRequest(ctx, endpoint, map[string]string{
		"destinationId": destinationID,
		"feedback":      string(feedback),
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *BackendClient) jsonRequest(ctx context.Context, endpoint string, payload any) (*http.Request, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req and decodes a JSON body into out when out is non-nil. Empty
// success bodies are fine.
func (c *BackendClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", utils.ErrBackendUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: %s %s", utils.ErrBackendUnavailable, req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", utils.ErrBackendUnavailable, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", utils.ErrBackendUnavailable, req.URL.Path, err)
	}
	return nil
}
