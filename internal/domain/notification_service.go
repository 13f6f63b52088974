package domain

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher is the fan-out side of the delivery subsystem. Publish is
// best-effort: errors mean the push channel missed this event, never that
// the notification is lost (clients reconcile by polling).
type Publisher interface {
	Publish(n *Notification) error
}

// NotificationService mediates all notification reads and writes and pushes
// created notifications through the broadcast hub.
type NotificationService struct {
	repo      NotificationRepository
	publisher Publisher
	logger    *zap.Logger
}

func NewNotificationService(repo NotificationRepository, publisher Publisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *NotificationService) List(ctx context.Context) ([]*Notification, error) {
	return s.repo.ListNotifications(ctx)
}

// Create persists the notification and then publishes it to connected
// clients. The publish is a detached side effect: its failure is logged and
// swallowed so delivery problems can never fail the write that produced the
// notification.
func (s *NotificationService) Create(ctx context.Context, params CreateNotificationParams) (*Notification, error) {
	if params.Type == "" {
		params.Type = NotificationTypeMessage
	}

	n, err := s.repo.CreateNotification(ctx, params)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(n); err != nil {
			s.logger.Warn("notification publish failed",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err),
			)
		}
	}

	return n, nil
}

// SetRead toggles the read flag. The underlying update is idempotent:
// repeating it with the same value is a no-op at the persistence layer.
func (s *NotificationService) SetRead(ctx context.Context, id uuid.UUID, isRead bool) (*Notification, error) {
	return s.repo.SetNotificationRead(ctx, id, isRead)
}

func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteNotification(ctx, id)
}
