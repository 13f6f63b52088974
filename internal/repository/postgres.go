package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portosite/backend/internal/domain"
)

// PostgresRepository implements domain.NotificationRepository and
// domain.MessageRepository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateNotification inserts a notification. ID and createdAt are assigned
// by the database.
func (r *PostgresRepository) CreateNotification(ctx context.Context, params domain.CreateNotificationParams) (*domain.Notification, error) {
	query := `
		INSERT INTO notifications (title, message, type, message_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, message, type, is_read, created_at, message_id
	`
	row := r.db.QueryRow(ctx, query, params.Title, params.Message, params.Type, params.MessageID)
	return scanNotification(row)
}

// ListNotifications returns every notification, newest first.
func (r *PostgresRepository) ListNotifications(ctx context.Context) ([]*domain.Notification, error) {
	query := `
		SELECT id, title, message, type, is_read, created_at, message_id
		FROM notifications
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// SetNotificationRead updates the read flag. The update is idempotent:
// writing the value already stored succeeds and changes nothing.
func (r *PostgresRepository) SetNotificationRead(ctx context.Context, id uuid.UUID, isRead bool) (*domain.Notification, error) {
	query := `
		UPDATE notifications SET is_read = $2
		WHERE id = $1
		RETURNING id, title, message, type, is_read, created_at, message_id
	`
	row := r.db.QueryRow(ctx, query, id, isRead)
	return scanNotification(row)
}

// DeleteNotification removes a notification.
func (r *PostgresRepository) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateMessage inserts an inbound contact-form message.
func (r *PostgresRepository) CreateMessage(ctx context.Context, params domain.CreateMessageParams) (*domain.Message, error) {
	query := `
		INSERT INTO messages (name, email, subject, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, subject, content, created_at
	`
	row := r.db.QueryRow(ctx, query, params.Name, params.Email, params.Subject, params.Content)
	return scanMessage(row)
}

// ListMessages returns every message, newest first.
func (r *PostgresRepository) ListMessages(ctx context.Context) ([]*domain.Message, error) {
	query := `
		SELECT id, name, email, subject, content, created_at
		FROM messages
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteMessage removes a message. Notifications keep their message_id;
// the reference is weak and the schema has no cascade.
func (r *PostgresRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &n.MessageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Content, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
