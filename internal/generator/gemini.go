package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiProvider     = "gemini"
	geminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig configures the Gemini provider
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiProvider implements Provider using Google's Gemini API
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	temp      float32
	timeout   time.Duration
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		modelName: cfg.Model,
		temp:      0.4,
		timeout:   cfg.Timeout,
	}, nil
}

func (g *GeminiProvider) Name() string  { return geminiProvider }
func (g *GeminiProvider) Model() string { return g.modelName }

func (g *GeminiProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	// GenerativeModel carries per-call config, so build one per request
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(g.temp)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return firstText(resp), nil
}

// Close closes the Gemini client
func (g *GeminiProvider) Close() error {
	return g.client.Close()
}

// firstText returns the first text part of the first candidate
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return strings.TrimSpace(string(text))
		}
	}

	return ""
}
