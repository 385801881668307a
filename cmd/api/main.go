package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eduspark-api/internal/config"
	"github.com/noah-isme/eduspark-api/internal/database"
	"github.com/noah-isme/eduspark-api/internal/handler"
	"github.com/noah-isme/eduspark-api/internal/middleware"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
	"github.com/noah-isme/eduspark-api/internal/router"
	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/pkg/ai"
	cloud "github.com/noah-isme/eduspark-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.LessonProgress{},
		&models.Enrollment{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.ActivityLog{},
		&models.AIPrediction{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, activity events disabled")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	var uploader service.ThumbnailUploader
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	}

	generator, cleanup, err := buildGenerator(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create model client: %v", err)
	}
	defer cleanup()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	analyticsRepo := repository.NewAdminAnalyticsRepository(db)

	activityService := service.NewActivityService(activityRepo, natsConn, logger)
	userService := service.NewUserService(userRepo, activityService, logger)
	courseService := service.NewCourseService(courseRepo, lessonRepo, activityService, uploader, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, lessonRepo, activityService, logger)
	quizService := service.NewQuizService(quizRepo, activityService, logger)
	analyticsService := service.NewAdminAnalyticsService(analyticsRepo, redisClient, cfg.StatsCacheTTL, logger)
	insightService := service.NewInsightService(
		activityRepo,
		enrollmentRepo,
		courseRepo,
		quizRepo,
		predictionRepo,
		analyticsService,
		generator,
		logger,
	)

	insightHandler := handler.NewInsightHandler(insightService)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		HealthHandler:     handler.NewHealthHandler(),
		UserHandler:       handler.NewUserHandler(userService),
		CourseHandler:     handler.NewCourseHandler(courseService),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService),
		QuizHandler:       handler.NewQuizHandler(quizService),
		ActivityHandler:   handler.NewActivityHandler(activityService),
		InsightHandler:    insightHandler,
		AdminHandler:      handler.NewAdminHandler(analyticsService, insightHandler),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildGenerator selects the model provider from configuration. The cleanup
// func releases provider resources on shutdown.
func buildGenerator(cfg config.Config, logger zerolog.Logger) (ai.Generator, func(), error) {
	switch cfg.AIProvider {
	case "gemini":
		gen, err := ai.NewGeminiGenerator(context.Background(), ai.GeminiConfig{
			APIKey:         cfg.GeminiAPIKey,
			Model:          cfg.AIModel,
			MaxAttempts:    cfg.AIMaxAttempts,
			RequestTimeout: cfg.AIRequestTimeout,
			Logger:         logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return gen, func() { gen.Close() }, nil
	default:
		gen, err := ai.NewOpenAIGenerator(ai.OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.AIModel,
			MaxAttempts:    cfg.AIMaxAttempts,
			RequestTimeout: cfg.AIRequestTimeout,
			Logger:         logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return gen, func() {}, nil
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
