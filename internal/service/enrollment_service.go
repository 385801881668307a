package service

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

// ErrAlreadyEnrolled is returned when a user enrolls in the same course twice.
var ErrAlreadyEnrolled = errors.New("enrollment: user is already enrolled")

// EnrollmentService manages enrollments and derives course progress from
// per-lesson completion.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID string, courseID uint) (models.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	ReportLessonProgress(ctx context.Context, userID string, lessonID uint, req dto.LessonProgressRequest) (models.Enrollment, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	lessons     repository.LessonRepository
	activity    ActivityService
	logger      zerolog.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	activity ActivityService,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		lessons:     lessons,
		activity:    activity,
		logger:      logger.With().Str("component", "enrollment").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID string, courseID uint) (models.Enrollment, error) {
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		return models.Enrollment{}, err
	}

	if _, err := s.enrollments.Get(ctx, userID, courseID); err == nil {
		return models.Enrollment{}, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Enrollment{}, err
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return models.Enrollment{}, err
	}

	if err := s.activity.Record(ctx, userID, models.ActionCourseEnrolled, "course", courseID, nil); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("enrollment audit failed")
	}
	return enrollment, nil
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}

// ReportLessonProgress upserts the lesson row, recomputes the course-level
// percentage from completed lessons and stamps completed_at when it reaches
// 100.
func (s *enrollmentService) ReportLessonProgress(ctx context.Context, userID string, lessonID uint, req dto.LessonProgressRequest) (models.Enrollment, error) {
	lesson, err := s.lessons.Get(ctx, lessonID)
	if err != nil {
		return models.Enrollment{}, err
	}
	enrollment, err := s.enrollments.Get(ctx, userID, lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Enrollment{}, ErrNotEnrolled
		}
		return models.Enrollment{}, err
	}

	progress := models.LessonProgress{
		UserID:    userID,
		LessonID:  lessonID,
		CourseID:  lesson.CourseID,
		WatchTime: req.WatchTime,
		Completed: req.Completed,
	}
	if err := s.lessons.UpsertProgress(ctx, &progress); err != nil {
		return models.Enrollment{}, err
	}

	action := models.ActionLessonProgress
	if req.Completed {
		action = models.ActionLessonCompleted
	}
	if err := s.activity.Record(ctx, userID, action, "lesson", lessonID, map[string]interface{}{
		"course_id":  lesson.CourseID,
		"watch_time": req.WatchTime,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("lesson_id", lessonID).Msg("lesson progress audit failed")
	}

	total, err := s.lessons.CountByCourse(ctx, lesson.CourseID)
	if err != nil {
		return models.Enrollment{}, err
	}
	completed, err := s.lessons.CountCompleted(ctx, userID, lesson.CourseID)
	if err != nil {
		return models.Enrollment{}, err
	}

	percent := 0.0
	if total > 0 {
		percent = math.Round(float64(completed)/float64(total)*10000) / 100
	}

	enrollment.Progress = percent
	if percent >= 100 && enrollment.CompletedAt == nil {
		now := progress.LastWatchedAt
		enrollment.CompletedAt = &now
	}
	if err := s.enrollments.UpdateProgress(ctx, userID, lesson.CourseID, percent, enrollment.CompletedAt); err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}
