package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

const classifyPrompt = `You are an expert music genre classifier AI named GenreSense. Based on the provided audio, predict the top 3 most likely music genres. Return your response as a valid JSON object. Do not include any text outside of the JSON object. The probabilities in the "top3" array must sum to 1.0.`

// maxErrorBody bounds how much of a failed response is kept for the log.
const maxErrorBody = 2048

// GeminiGateway classifies audio with the Gemini generateContent REST endpoint.
type GeminiGateway struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// top3Schema describes {"top3": [{"genre": string, "probability": number}]}.
var top3Schema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"top3": {
			Type:        "ARRAY",
			Description: "The top 3 predicted music genres.",
			Items: &schema{
				Type: "OBJECT",
				Properties: map[string]*schema{
					"genre":       {Type: "STRING", Description: "The name of the music genre."},
					"probability": {Type: "NUMBER", Description: "The probability score from 0.0 to 1.0."},
				},
				Required: []string{"genre", "probability"},
			},
		},
	},
	Required: []string{"top3"},
}

// NewGeminiGateway builds a gateway from cfg. An API key is sent as the
// x-goog-api-key header; otherwise the access token is sent as an OAuth2
// bearer token. client may be nil.
func NewGeminiGateway(cfg shared.GeminiConfig, client *http.Client) (*GeminiGateway, error) {
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: gemini api_key or access_token required", shared.ErrMissingCredentials)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}

	httpClient := &http.Client{Transport: client.Transport, Timeout: timeout}
	if cfg.APIKey == "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}))
		httpClient.Timeout = timeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &GeminiGateway{
		baseURL:    baseURL,
		model:      model,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

// Name implements [Classifier].
func (g *GeminiGateway) Name() string { return "Gemini" }

// Classify implements [Classifier]. There is no retry.
func (g *GeminiGateway) Classify(ctx context.Context, file models.AudioFile) (*models.AnalysisResult, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: gemini: rate limit: %v", shared.ErrInvalidResponse, err)
		}
	}

	req, err := g.newRequest(ctx, file)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: request failed: %v", shared.ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: gemini: unexpected status %d: %s", shared.ErrInvalidResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: gemini: decode response: %v", shared.ErrInvalidResponse, err)
	}

	top3, err := parseTop3(parsed)
	if err != nil {
		return nil, err
	}
	return &models.AnalysisResult{File: file.Info(), Top3: top3}, nil
}

func (g *GeminiGateway) newRequest(ctx context.Context, file models.AudioFile) (*http.Request, error) {
	payload := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []contentPart{
				{InlineData: &inlineData{MimeType: file.MimeType, Data: base64.StdEncoding.EncodeToString(file.Data)}},
				{Text: classifyPrompt},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   top3Schema,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: marshal request: %v", shared.ErrInvalidResponse, err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: build request: %v", shared.ErrInvalidResponse, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("x-goog-api-key", g.apiKey)
	}
	return req, nil
}

// parseTop3 extracts and checks the model's JSON answer.
func parseTop3(resp generateResponse) ([]models.Genre, error) {
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: gemini: %s (%s)", shared.ErrInvalidResponse, resp.Error.Message, resp.Error.Status)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: gemini: no candidates", shared.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	raw := strings.TrimSpace(text.String())
	if raw == "" {
		return nil, fmt.Errorf("%w: gemini: empty response", shared.ErrInvalidResponse)
	}

	var answer struct {
		Top3 []models.Genre `json:"top3"`
	}
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, fmt.Errorf("%w: gemini: decode genres: %v", shared.ErrInvalidResponse, err)
	}
	if len(answer.Top3) != 3 {
		return nil, fmt.Errorf("%w: gemini: expected 3 genres, got %d", shared.ErrInvalidResponse, len(answer.Top3))
	}
	for _, g := range answer.Top3 {
		if strings.TrimSpace(g.Genre) == "" {
			return nil, fmt.Errorf("%w: gemini: empty genre name", shared.ErrInvalidResponse)
		}
		if g.Probability < 0 || g.Probability > 1 {
			return nil, fmt.Errorf("%w: gemini: probability %v out of range", shared.ErrInvalidResponse, g.Probability)
		}
	}
	return answer.Top3, nil
}
