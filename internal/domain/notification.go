package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// NotificationTypeMessage is the only notification type produced today.
// The type field is an open set; future producers add their own tags.
const NotificationTypeMessage = "message"

// Notification is one delivered event shown to a dashboard user.
// MessageID is a weak reference to the inbound message that produced it:
// deleting the message leaves the notification orphaned, never cascades.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
	MessageID *uuid.UUID `json:"messageId,omitempty"`
}

// CreateNotificationParams holds the fields the caller controls at creation.
// ID and CreatedAt are assigned by the repository.
type CreateNotificationParams struct {
	Title     string
	Message   string
	Type      string
	MessageID *uuid.UUID
}

// NotificationRepository is the persistence contract for notifications.
// The list is always ordered newest-first by creation time.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, params CreateNotificationParams) (*Notification, error)
	ListNotifications(ctx context.Context) ([]*Notification, error)
	SetNotificationRead(ctx context.Context, id uuid.UUID, isRead bool) (*Notification, error)
	DeleteNotification(ctx context.Context, id uuid.UUID) error
}
