package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/portosite/backend/internal/domain"
)

// Writer is the mutation side of the collaborator contract, satisfied by
// *Client.
type Writer interface {
	SetRead(ctx context.Context, id uuid.UUID, isRead bool) (*domain.Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Mutator translates UI intent into write-through operations against the
// server. Local state is only touched after the server confirms, so a
// failed mutation needs no rollback.
type Mutator struct {
	writer Writer
	store  *Store
	logger *zap.Logger
}

func NewMutator(writer Writer, store *Store, logger *zap.Logger) *Mutator {
	return &Mutator{
		writer: writer,
		store:  store,
		logger: logger,
	}
}

// MarkRead marks one notification read. Idempotent: repeating the call is a
// no-op on both server and local state.
func (m *Mutator) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := m.writer.SetRead(ctx, id, true); err != nil {
		return err
	}
	m.store.ApplyRead(id, true)
	return nil
}

// MarkAllRead marks every unread notification read, one concurrent request
// per item. Items whose request succeeds stay read locally even when others
// fail; a partial failure is reported as a single error with no rollback.
func (m *Mutator) MarkAllRead(ctx context.Context) error {
	unread := m.store.UnreadIDs()
	if len(unread) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range unread {
		id := id
		g.Go(func() error {
			if _, err := m.writer.SetRead(ctx, id, true); err != nil {
				m.logger.Warn("mark-read failed", zap.String("id", id.String()), zap.Error(err))
				return err
			}
			m.store.ApplyRead(id, true)
			return nil
		})
	}
	return g.Wait()
}

// Delete removes a notification, locally only after the server confirms.
func (m *Mutator) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.writer.Delete(ctx, id); err != nil {
		return err
	}
	m.store.Remove(id)
	return nil
}
