package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
)

// fakeWriter records mutations and fails the IDs it is told to fail.
type fakeWriter struct {
	mu        sync.Mutex
	readCalls map[uuid.UUID]int
	failIDs   map[uuid.UUID]bool
	deleted   []uuid.UUID
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		readCalls: make(map[uuid.UUID]int),
		failIDs:   make(map[uuid.UUID]bool),
	}
}

func (w *fakeWriter) SetRead(ctx context.Context, id uuid.UUID, isRead bool) (*domain.Notification, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.readCalls[id]++
	if w.failIDs[id] {
		return nil, errors.New("patch failed")
	}
	return &domain.Notification{ID: id, IsRead: isRead}, nil
}

func (w *fakeWriter) Delete(ctx context.Context, id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failIDs[id] {
		return errors.New("delete failed")
	}
	w.deleted = append(w.deleted, id)
	return nil
}

func seedStore(t *testing.T, notifications ...*domain.Notification) *Store {
	t.Helper()
	store := NewStore()
	store.Reconcile(notifications)
	return store
}

func TestMarkReadIsIdempotent(t *testing.T) {
	t.Parallel()

	n1 := makeNotification(t, "n1")
	store := seedStore(t, n1)
	writer := newFakeWriter()
	mutator := NewMutator(writer, store, zap.NewNop())

	if err := mutator.MarkRead(context.Background(), n1.ID); err != nil {
		t.Fatalf("first MarkRead: %v", err)
	}
	if err := mutator.MarkRead(context.Background(), n1.ID); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}

	if store.UnreadCount() != 0 {
		t.Error("notification still unread after MarkRead")
	}
	if got := writer.readCalls[n1.ID]; got != 2 {
		t.Errorf("server saw %d PATCH calls, want 2", got)
	}
}

func TestMarkReadFailureLeavesLocalStateUntouched(t *testing.T) {
	t.Parallel()

	n1 := makeNotification(t, "n1")
	store := seedStore(t, n1)
	writer := newFakeWriter()
	writer.failIDs[n1.ID] = true
	mutator := NewMutator(writer, store, zap.NewNop())

	if err := mutator.MarkRead(context.Background(), n1.ID); err == nil {
		t.Fatal("MarkRead succeeded, want error")
	}
	if store.UnreadCount() != 1 {
		t.Error("failed MarkRead mutated local state")
	}
}

func TestMarkAllReadPartialFailure(t *testing.T) {
	t.Parallel()

	n1 := makeNotification(t, "n1")
	n2 := makeNotification(t, "n2")
	store := seedStore(t, n1, n2)
	writer := newFakeWriter()
	writer.failIDs[n2.ID] = true
	mutator := NewMutator(writer, store, zap.NewNop())

	err := mutator.MarkAllRead(context.Background())
	if err == nil {
		t.Fatal("MarkAllRead succeeded with a failing item, want error")
	}

	for _, n := range store.List() {
		switch n.ID {
		case n1.ID:
			if !n.IsRead {
				t.Error("succeeded item rolled back, want it to stay read")
			}
		case n2.ID:
			if n.IsRead {
				t.Error("failed item marked read locally")
			}
		}
	}
}

func TestMarkAllReadWithNothingUnread(t *testing.T) {
	t.Parallel()

	n1 := makeNotification(t, "n1")
	n1.IsRead = true
	store := seedStore(t, n1)
	writer := newFakeWriter()
	mutator := NewMutator(writer, store, zap.NewNop())

	if err := mutator.MarkAllRead(context.Background()); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if len(writer.readCalls) != 0 {
		t.Errorf("server saw %d PATCH calls, want 0", len(writer.readCalls))
	}
}

func TestDeleteRemovesLocallyOnlyOnConfirm(t *testing.T) {
	t.Parallel()

	n1 := makeNotification(t, "n1")
	n2 := makeNotification(t, "n2")
	store := seedStore(t, n1, n2)
	writer := newFakeWriter()
	writer.failIDs[n2.ID] = true
	mutator := NewMutator(writer, store, zap.NewNop())

	if err := mutator.Delete(context.Background(), n1.ID); err != nil {
		t.Fatalf("Delete(n1): %v", err)
	}
	if err := mutator.Delete(context.Background(), n2.ID); err == nil {
		t.Fatal("Delete(n2) succeeded, want error")
	}

	list := store.List()
	if len(list) != 1 || list[0].ID != n2.ID {
		t.Errorf("store = %v, want only n2 remaining", list)
	}
}
