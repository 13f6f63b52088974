package domain

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageService handles inbound contact-form messages. Every accepted
// message produces one notification for the dashboard.
type MessageService struct {
	repo          MessageRepository
	notifications *NotificationService
	logger        *zap.Logger
}

func NewMessageService(repo MessageRepository, notifications *NotificationService, logger *zap.Logger) *MessageService {
	return &MessageService{
		repo:          repo,
		notifications: notifications,
		logger:        logger,
	}
}

// Create stores the message and creates the corresponding notification.
// A notification failure is logged but never fails the message write: the
// message is the primary record, the notification a derived one.
func (s *MessageService) Create(ctx context.Context, params CreateMessageParams) (*Message, error) {
	msg, err := s.repo.CreateMessage(ctx, params)
	if err != nil {
		return nil, err
	}

	messageID := msg.ID
	_, err = s.notifications.Create(ctx, CreateNotificationParams{
		Title:     "New message from " + msg.Name,
		Message:   msg.Subject,
		Type:      NotificationTypeMessage,
		MessageID: &messageID,
	})
	if err != nil {
		s.logger.Error("failed to create notification for message",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err),
		)
	}

	return msg, nil
}

func (s *MessageService) List(ctx context.Context) ([]*Message, error) {
	return s.repo.ListMessages(ctx)
}

// Delete removes the message only. Notifications that reference it keep
// their messageId and become orphans.
func (s *MessageService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMessage(ctx, id)
}
