package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

// ErrUnsupportedImage is returned when an uploaded thumbnail is not an image.
var ErrUnsupportedImage = errors.New("course: thumbnail must be an image")

// ThumbnailUploader stores a course thumbnail and returns its public URL.
type ThumbnailUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// CourseService manages the catalog and its lessons.
type CourseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, instructorID string, req dto.CourseCreateRequest) (models.Course, error)
	Update(ctx context.Context, id uint, req dto.CourseUpdateRequest) (models.Course, error)
	Delete(ctx context.Context, id uint) error
	UploadThumbnail(ctx context.Context, id uint, name string, file io.Reader) (models.Course, error)
	ListLessons(ctx context.Context, courseID uint) ([]models.Lesson, error)
	CreateLesson(ctx context.Context, courseID uint, req dto.LessonCreateRequest) (models.Lesson, error)
}

type courseService struct {
	courses   repository.CourseRepository
	lessons   repository.LessonRepository
	activity  ActivityService
	uploader  ThumbnailUploader
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCourseService constructs the course service. A nil uploader disables
// thumbnail uploads.
func NewCourseService(
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	activity ActivityService,
	uploader ThumbnailUploader,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:   courses,
		lessons:   lessons,
		activity:  activity,
		uploader:  uploader,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "course").Logger(),
	}
}

func (s *courseService) List(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

func (s *courseService) Get(ctx context.Context, id uint) (models.Course, error) {
	return s.courses.Get(ctx, id)
}

func (s *courseService) Create(ctx context.Context, instructorID string, req dto.CourseCreateRequest) (models.Course, error) {
	course := models.Course{
		Title:         req.Title,
		Description:   s.sanitizer.Sanitize(req.Description),
		InstructorID:  instructorID,
		ThumbnailURL:  req.ThumbnailURL,
		Difficulty:    req.Difficulty,
		Category:      req.Category,
		TotalDuration: req.TotalDuration,
		IsActive:      true,
	}
	if course.Difficulty == "" {
		course.Difficulty = models.DifficultyBeginner
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return models.Course{}, err
	}

	if err := s.activity.Record(ctx, instructorID, models.ActionCourseCreated, "course", course.ID, nil); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", course.ID).Msg("course creation audit failed")
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req dto.CourseUpdateRequest) (models.Course, error) {
	course, err := s.courses.Get(ctx, id)
	if err != nil {
		return models.Course{}, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = *req.ThumbnailURL
	}
	if req.TotalDuration != nil {
		course.TotalDuration = *req.TotalDuration
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.courses.Get(ctx, id); err != nil {
		return err
	}
	return s.courses.Delete(ctx, id)
}

// UploadThumbnail sniffs the payload before handing it to storage so only
// real images end up in the media library.
func (s *courseService) UploadThumbnail(ctx context.Context, id uint, name string, file io.Reader) (models.Course, error) {
	if s.uploader == nil {
		return models.Course{}, errors.New("course: thumbnail uploads are not configured")
	}

	course, err := s.courses.Get(ctx, id)
	if err != nil {
		return models.Course{}, err
	}

	header, err := io.ReadAll(io.LimitReader(file, 3072))
	if err != nil {
		return models.Course{}, fmt.Errorf("course: reading thumbnail: %w", err)
	}
	if !mimetype.Detect(header).Is("image/jpeg") &&
		!mimetype.Detect(header).Is("image/png") &&
		!mimetype.Detect(header).Is("image/webp") {
		return models.Course{}, ErrUnsupportedImage
	}

	url, err := s.uploader.Upload(ctx, name, io.MultiReader(bytes.NewReader(header), file))
	if err != nil {
		return models.Course{}, err
	}

	course.ThumbnailURL = url
	if err := s.courses.Update(ctx, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (s *courseService) ListLessons(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		return nil, err
	}
	return s.lessons.ListByCourse(ctx, courseID)
}

func (s *courseService) CreateLesson(ctx context.Context, courseID uint, req dto.LessonCreateRequest) (models.Lesson, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return models.Lesson{}, err
	}

	lesson := models.Lesson{
		CourseID:    courseID,
		Title:       req.Title,
		Description: s.sanitizer.Sanitize(req.Description),
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		OrderIndex:  req.OrderIndex,
	}
	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return models.Lesson{}, err
	}

	total, err := s.lessons.CountByCourse(ctx, courseID)
	if err == nil {
		course.TotalLessons = int(total)
		if err := s.courses.Update(ctx, &course); err != nil {
			s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("lesson count update failed")
		}
	}
	return lesson, nil
}
