package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is an inbound contact-form submission.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateMessageParams struct {
	Name    string
	Email   string
	Subject string
	Content string
}

// MessageRepository is the persistence contract for inbound messages.
// DeleteMessage does not cascade to notifications referencing the message.
type MessageRepository interface {
	CreateMessage(ctx context.Context, params CreateMessageParams) (*Message, error)
	ListMessages(ctx context.Context) ([]*Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}
