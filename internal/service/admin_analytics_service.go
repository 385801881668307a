package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

const statsCacheKey = "eduspark:admin:stats"

// AdminAnalyticsService aggregates the dashboard statistics, caching the
// result in Redis so repeated dashboard loads do not re-run the aggregate
// queries.
type AdminAnalyticsService interface {
	Stats(ctx context.Context) (dto.AdminStatsResponse, error)
}

type adminAnalyticsService struct {
	repo   repository.AdminAnalyticsRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewAdminAnalyticsService constructs the analytics service. A nil cache
// disables caching; ttl defaults to one minute when non-positive.
func NewAdminAnalyticsService(repo repository.AdminAnalyticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AdminAnalyticsService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &adminAnalyticsService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "admin_analytics").Logger(),
		tracer: otel.Tracer("eduspark/admin_analytics"),
		now:    time.Now,
	}
}

func (s *adminAnalyticsService) Stats(ctx context.Context) (dto.AdminStatsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "admin.stats")
	defer span.End()

	if cached, ok := s.fromCache(ctx); ok {
		cached.CacheHit = true
		return cached, nil
	}

	students, err := s.repo.StudentStats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student stats query failed")
		return dto.AdminStatsResponse{}, err
	}

	courses, err := s.repo.CourseStats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course stats query failed")
		return dto.AdminStatsResponse{}, err
	}

	engagement, err := s.repo.EngagementData(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "engagement query failed")
		return dto.AdminStatsResponse{}, err
	}

	stats := dto.AdminStatsResponse{
		Students:    students,
		Courses:     courses,
		Engagement:  engagement,
		GeneratedAt: s.now().UTC(),
	}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *adminAnalyticsService) fromCache(ctx context.Context) (dto.AdminStatsResponse, bool) {
	if s.cache == nil {
		return dto.AdminStatsResponse{}, false
	}

	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("stats cache read failed")
		}
		return dto.AdminStatsResponse{}, false
	}

	var stats dto.AdminStatsResponse
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn().Err(err).Msg("stats cache entry corrupt, dropping")
		s.cache.Del(ctx, statsCacheKey)
		return dto.AdminStatsResponse{}, false
	}
	return stats, true
}

func (s *adminAnalyticsService) toCache(ctx context.Context, stats dto.AdminStatsResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("stats cache write failed")
	}
}
