package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

// UserService resolves accounts and mirrors identity-provider profiles into
// the local store on login.
type UserService interface {
	Get(ctx context.Context, id string) (models.User, error)
	Sync(ctx context.Context, user models.User) (models.User, error)
}

type userService struct {
	users    repository.UserRepository
	activity ActivityService
	logger   zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(users repository.UserRepository, activity ActivityService, logger zerolog.Logger) UserService {
	return &userService{
		users:    users,
		activity: activity,
		logger:   logger.With().Str("component", "user").Logger(),
	}
}

func (s *userService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.Get(ctx, id)
}

// Sync upserts the profile and records a login event. The login events feed
// the active-student and dropout-risk calculations.
func (s *userService) Sync(ctx context.Context, user models.User) (models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if err := s.users.Upsert(ctx, &user); err != nil {
		return models.User{}, err
	}

	if err := s.activity.Record(ctx, user.ID, models.ActionLogin, "user", 0, nil); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("login audit failed")
	}

	return s.users.Get(ctx, user.ID)
}
