package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduspark-api/internal/repository"
)

type stubAnalyticsRepo struct {
	students repository.StudentStats
	courses  repository.CourseStats
	points   []repository.EngagementPoint
	err      error
	calls    int
}

func (s *stubAnalyticsRepo) StudentStats(context.Context) (repository.StudentStats, error) {
	s.calls++
	return s.students, s.err
}

func (s *stubAnalyticsRepo) CourseStats(context.Context) (repository.CourseStats, error) {
	return s.courses, s.err
}

func (s *stubAnalyticsRepo) EngagementData(context.Context) ([]repository.EngagementPoint, error) {
	return s.points, s.err
}

func newAnalyticsFixture(t *testing.T, repo *stubAnalyticsRepo) AdminAnalyticsService {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewAdminAnalyticsService(repo, cache, time.Minute, zerolog.Nop())
}

func TestStatsCachesSecondCall(t *testing.T) {
	repo := &stubAnalyticsRepo{
		students: repository.StudentStats{TotalStudents: 10, ActiveStudents: 4, AvgCompletionRate: 55, AtRiskStudents: 2},
		courses:  repository.CourseStats{TotalCourses: 3, ActiveCourses: 3},
		points:   []repository.EngagementPoint{{Date: "2026-08-30", ActiveUsers: 4}},
	}
	svc := newAnalyticsFixture(t, repo)

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Equal(t, int64(10), first.Students.TotalStudents)

	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Students, second.Students)
	require.Equal(t, 1, repo.calls, "aggregates run once while cache is warm")
}

func TestStatsPropagatesQueryErrors(t *testing.T) {
	repo := &stubAnalyticsRepo{err: errors.New("db down")}
	svc := newAnalyticsFixture(t, repo)

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
}

func TestStatsWorksWithoutCache(t *testing.T) {
	repo := &stubAnalyticsRepo{students: repository.StudentStats{TotalStudents: 1}}
	svc := NewAdminAnalyticsService(repo, nil, 0, zerolog.Nop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.False(t, stats.CacheHit)
	require.Equal(t, int64(1), stats.Students.TotalStudents)
}
