package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

const activitySubjectPrefix = "eduspark.activity."

// ActivityEvent is the message published for each recorded action.
type ActivityEvent struct {
	EventID    string                 `json:"event_id"`
	UserID     string                 `json:"user_id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type,omitempty"`
	EntityID   uint                   `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// ActivityService records the audit trail every insight is grounded on and
// fans events out over NATS for downstream consumers.
type ActivityService interface {
	Record(ctx context.Context, userID, action, entityType string, entityID uint, metadata map[string]interface{}) error
	Recent(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	nc     *nats.Conn
	logger zerolog.Logger
	now    func() time.Time
}

// NewActivityService constructs the activity service. A nil NATS connection
// disables event publishing.
func NewActivityService(repo repository.ActivityLogRepository, nc *nats.Conn, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		nc:     nc,
		logger: logger.With().Str("component", "activity").Logger(),
		now:    time.Now,
	}
}

// Record appends one audit row. The row write is authoritative; the NATS
// publish is fire-and-forget so a broker outage never fails the request.
func (s *activityService) Record(ctx context.Context, userID, action, entityType string, entityID uint, metadata map[string]interface{}) error {
	entry := models.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   datatypes.JSONMap(metadata),
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return err
	}

	s.publish(ActivityEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

func (s *activityService) Recent(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *activityService) publish(event ActivityEvent) {
	if s.nc == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("activity event marshal failed")
		return
	}
	if err := s.nc.Publish(activitySubjectPrefix+event.Action, payload); err != nil {
		s.logger.Warn().Err(err).Str("action", event.Action).Msg("activity event publish failed")
	}
}
