// Package gemini wraps the generative-image REST endpoint used to synthesize
// and re-age child photos. Requests are typed JSON, authenticated with an API
// key header. Every call is a single attempt: no retries, no timeout.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/manash/babygen/internal/prompt"
	"github.com/manash/babygen/pkg/models"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel   = "gemini-2.5-flash-image-preview"
)

var (
	ErrAPIKeyRequired = errors.New("API key is required")

	// Callers only ever see these two; the underlying cause is logged, never
	// returned, so upstream detail cannot leak into a response.
	ErrGenerationFailed    = errors.New("failed to generate baby image")
	ErrExtrapolationFailed = errors.New("failed to extrapolate age")

	errNoImage = errors.New("no image generated in response")
)

// Request wire format. The endpoint accepts a single content holding an
// ordered list of parts: text first, then inline base64 image blobs.
type apiRequest struct {
	Contents []apiContent `json:"contents"`
}

type apiContent struct {
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Response wire format. A part is a variant: text or inline image data; the
// response uses camelCase for the MIME type field where the request accepts
// snake_case.
type apiResponse struct {
	Candidates []apiCandidate `json:"candidates"`
}

type apiCandidate struct {
	Content *respContent `json:"content"`
}

type respContent struct {
	Parts []respPart `json:"parts"`
}

type respPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *respInlineData `json:"inlineData,omitempty"`
}

type respInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// HTTPClient overrides the default client, which deliberately has no
	// timeout: a call blocks until the remote responds or the transport errors.
	HTTPClient *http.Client
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(cfg *Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     slog.Default().With("component", "gemini"),
	}, nil
}

// Generate synthesizes a child image from the request's parent photos and
// target attributes. The prompt part goes first, followed by the mother, father,
// baby and ultrasound images in that fixed order, skipping absent ones.
func (c *Client) Generate(ctx context.Context, req *models.GenerateRequest) (*models.GenerationResult, error) {
	systemPrompt := prompt.Generation(req)

	parts := []apiPart{{Text: systemPrompt}}
	for _, img := range []string{req.MotherImage, req.FatherImage, req.BabyImage, req.UltrasoundImage} {
		if img == "" {
			continue
		}
		parts = append(parts, apiPart{InlineData: &inlineData{
			MimeType: "image/png",
			Data:     models.StripDataURI(img),
		}})
	}

	image, err := c.generateContent(ctx, parts)
	if err != nil {
		c.logger.Error("generation request failed", "error", err)
		return nil, ErrGenerationFailed
	}

	return &models.GenerationResult{Image: image, Prompt: systemPrompt}, nil
}

// Extrapolate re-ages a previously generated image. Exactly one input image
// is sent alongside the progression prompt.
func (c *Client) Extrapolate(ctx context.Context, image string, newAge int, newAgeUnit models.AgeUnit) (string, error) {
	parts := []apiPart{
		{Text: prompt.Progression(newAge, newAgeUnit)},
		{InlineData: &inlineData{
			MimeType: "image/png",
			Data:     models.StripDataURI(image),
		}},
	}

	progressed, err := c.generateContent(ctx, parts)
	if err != nil {
		c.logger.Error("extrapolation request failed", "error", err)
		return "", ErrExtrapolationFailed
	}
	return progressed, nil
}

func (c *Client) generateContent(ctx context.Context, parts []apiPart) (string, error) {
	apiReq := &apiRequest{Contents: []apiContent{{Parts: parts}}}

	jsonData, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return firstInlineImage(&apiResp)
}

// firstInlineImage scans the first candidate's parts for the first one
// carrying inline image data.
func firstInlineImage(resp *apiResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData.Data, nil
		}
	}
	return "", errNoImage
}
