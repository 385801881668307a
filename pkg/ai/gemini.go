package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
)

// GeminiConfig defines configuration options for the Gemini generator.
type GeminiConfig struct {
	APIKey         string
	Model          string
	Temperature    float32
	MaxAttempts    int
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// GeminiGenerator implements Generator against the Google Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiGenerator builds a new generator backed by Gemini.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiGenerator{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/eduspark-api/pkg/ai/gemini"),
		logger: logger.With().Str("component", "gemini_generator").Logger(),
	}, nil
}

// Model returns the configured model identifier.
func (g *GeminiGenerator) Model() string {
	return g.cfg.Model
}

// Close releases the underlying API client.
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate sends the request to Gemini and returns the raw response text.
func (g *GeminiGenerator) Generate(parent context.Context, req Request) (string, error) {
	ctx, span := g.tracer.Start(parent, "gemini.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.Bool("structured", req.Schema != nil),
	))
	defer span.End()

	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(g.cfg.Temperature)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	prompt := req.Prompt
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		builder := strings.Builder{}
		builder.WriteString(prompt)
		builder.WriteString("\n\nRespond with a single JSON document matching this schema:\n")
		builder.WriteString(req.Schema.PromptInstructions())
		prompt = builder.String()
	}

	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			generationRetries.WithLabelValues("gemini", g.cfg.Model).Inc()
			if err := sleepCtx(ctx, retryDelay(attempt - 1)); err != nil {
				return "", err
			}
		}

		content, err := g.attempt(ctx, model, prompt)
		if err == nil {
			return content, nil
		}

		lastErr = err
		generationFailures.WithLabelValues("gemini", g.cfg.Model).Inc()
		if ctx.Err() != nil {
			break
		}
		g.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("generation attempt failed")
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return "", fmt.Errorf("gemini generate: %w", lastErr)
}

func (g *GeminiGenerator) attempt(parent context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(parent, g.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	generationDuration.WithLabelValues("gemini", g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}

	return cleanJSONBlock(text), nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
