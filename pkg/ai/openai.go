package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the OpenAI generator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	// MaxAttempts bounds retries on transport/provider errors. 1 means
	// fail-fast; values above 1 add full-jitter backoff between attempts.
	MaxAttempts    int
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// OpenAIGenerator implements Generator against the OpenAI chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGenerator builds a new generator using the provided configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	tracer := otel.Tracer("github.com/noah-isme/eduspark-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIGenerator{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "openai_generator").Logger(),
	}, nil
}

// Model returns the configured model identifier.
func (g *OpenAIGenerator) Model() string {
	return g.cfg.Model
}

// Generate sends the request to OpenAI and returns the raw response text.
func (g *OpenAIGenerator) Generate(parent context.Context, req Request) (string, error) {
	ctx, span := g.tracer.Start(parent, "openai.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.Bool("structured", req.Schema != nil),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages:    buildMessages(req),
	}
	if req.Schema != nil {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			generationRetries.WithLabelValues("openai", g.cfg.Model).Inc()
			if err := sleepCtx(ctx, retryDelay(attempt - 1)); err != nil {
				return "", err
			}
		}

		content, err := g.attempt(ctx, request)
		if err == nil {
			return content, nil
		}

		lastErr = err
		generationFailures.WithLabelValues("openai", g.cfg.Model).Inc()
		if ctx.Err() != nil {
			break
		}
		g.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("generation attempt failed")
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return "", fmt.Errorf("openai generate: %w", lastErr)
}

func (g *OpenAIGenerator) attempt(parent context.Context, request openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(parent, g.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, request)
	generationDuration.WithLabelValues("openai", g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from openai")
	}

	return cleanJSONBlock(resp.Choices[0].Message.Content), nil
}

func buildMessages(req Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	prompt := req.Prompt
	if req.Schema != nil {
		builder := strings.Builder{}
		builder.WriteString(prompt)
		builder.WriteString("\n\nRespond with a single JSON document matching this schema:\n")
		builder.WriteString(req.Schema.PromptInstructions())
		prompt = builder.String()
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return messages
}

// cleanJSONBlock removes markdown code fences some models wrap around JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
