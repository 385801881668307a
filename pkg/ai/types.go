package ai

import (
	"context"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request describes a single generation call. When Schema is nil the model
// is free to answer with plain text; otherwise the response must be a JSON
// document and the caller validates it against the declared schema.
type Request struct {
	System string
	Prompt string
	Schema *Schema
}

// Generator issues one logical generation request to an external model.
// Implementations may retry transport failures internally, but never cache:
// every call is fresh.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Model() string
}

var (
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eduspark",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of generation requests to the model provider",
	}, []string{"provider", "model"})

	generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eduspark",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of failed generation requests, counted per attempt",
	}, []string{"provider", "model"})

	generationRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eduspark",
		Subsystem: "ai",
		Name:      "generation_retries_total",
		Help:      "Number of retried generation attempts",
	}, []string{"provider", "model"})
)

// retryDelay returns a full-jitter backoff for the given zero-based attempt.
func retryDelay(attempt int) time.Duration {
	cap := 250 * time.Millisecond << uint(attempt)
	if cap > 4*time.Second {
		cap = 4 * time.Second
	}
	return time.Duration(rand.Int63n(int64(cap)))
}

// sleepCtx waits for the delay or until the context is done.
func sleepCtx(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
