package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

func newEnrollmentFixture(t *testing.T) (*gorm.DB, EnrollmentService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "enrollment.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Course{},
		&models.Lesson{},
		&models.LessonProgress{},
		&models.Enrollment{},
		&models.ActivityLog{},
	))

	activity := NewActivityService(repository.NewActivityLogRepository(db), nil, zerolog.Nop())
	svc := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewLessonRepository(db),
		activity,
		zerolog.Nop(),
	)
	return db, svc
}

func seedCourseWithLessons(t *testing.T, db *gorm.DB, lessonCount int) (models.Course, []models.Lesson) {
	t.Helper()

	course := models.Course{Title: "Go Fundamentals", IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	lessons := make([]models.Lesson, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lesson := models.Lesson{CourseID: course.ID, Title: "Lesson", OrderIndex: i}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return course, lessons
}

func TestEnrollOnce(t *testing.T) {
	db, svc := newEnrollmentFixture(t)
	course, _ := seedCourseWithLessons(t, db, 1)

	enrollment, err := svc.Enroll(context.Background(), "user-1", course.ID)
	require.NoError(t, err)
	require.Equal(t, course.ID, enrollment.CourseID)
	require.Zero(t, enrollment.Progress)

	_, err = svc.Enroll(context.Background(), "user-1", course.ID)
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollUnknownCourse(t *testing.T) {
	_, svc := newEnrollmentFixture(t)

	_, err := svc.Enroll(context.Background(), "user-1", 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLessonProgressRecomputesCoursePercentage(t *testing.T) {
	db, svc := newEnrollmentFixture(t)
	course, lessons := seedCourseWithLessons(t, db, 2)

	_, err := svc.Enroll(context.Background(), "user-1", course.ID)
	require.NoError(t, err)

	enrollment, err := svc.ReportLessonProgress(context.Background(), "user-1", lessons[0].ID, dto.LessonProgressRequest{
		WatchTime: 300,
		Completed: true,
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, enrollment.Progress)
	require.Nil(t, enrollment.CompletedAt)

	enrollment, err = svc.ReportLessonProgress(context.Background(), "user-1", lessons[1].ID, dto.LessonProgressRequest{
		WatchTime: 200,
		Completed: true,
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, enrollment.Progress)
	require.NotNil(t, enrollment.CompletedAt)
}

func TestLessonProgressRequiresEnrollment(t *testing.T) {
	db, svc := newEnrollmentFixture(t)
	_, lessons := seedCourseWithLessons(t, db, 1)

	_, err := svc.ReportLessonProgress(context.Background(), "user-1", lessons[0].ID, dto.LessonProgressRequest{Completed: true})
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestLessonProgressUpsertIsIdempotent(t *testing.T) {
	db, svc := newEnrollmentFixture(t)
	course, lessons := seedCourseWithLessons(t, db, 2)

	_, err := svc.Enroll(context.Background(), "user-1", course.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		enrollment, err := svc.ReportLessonProgress(context.Background(), "user-1", lessons[0].ID, dto.LessonProgressRequest{
			WatchTime: 100 * (i + 1),
			Completed: true,
		})
		require.NoError(t, err)
		require.Equal(t, 50.0, enrollment.Progress)
	}

	var count int64
	require.NoError(t, db.Model(&models.LessonProgress{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
