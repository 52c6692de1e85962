package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stockroom-app/stockroom/internal/db"
	"github.com/stockroom-app/stockroom/internal/model"
)

func TestAppendAndListNotifications(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alice", "hash", model.RoleUser)

	first, err := AppendNotification(ctx, database, user.ID, "first")
	if err != nil {
		t.Fatalf("AppendNotification: %v", err)
	}
	if first.IsRead {
		t.Error("new notification should be unread")
	}
	AppendNotification(ctx, database, user.ID, "second")
	AppendNotification(ctx, database, user.ID, "third")

	notes, err := ListNotifications(ctx, database, user.ID, false)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notes))
	}
	// Newest first.
	if notes[0].Message != "third" || notes[2].Message != "first" {
		t.Errorf("expected newest-first ordering, got %q ... %q", notes[0].Message, notes[2].Message)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash", model.RoleUser)
	bob, _ := CreateUser(ctx, database, "bob", "hash", model.RoleUser)

	n, _ := AppendNotification(ctx, database, alice.ID, "hello")

	// Bob must not be able to mark Alice's notification.
	if err := MarkNotificationRead(ctx, database, n.ID, bob.ID); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if err := MarkNotificationRead(ctx, database, n.ID, alice.ID); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}

	// Idempotent.
	if err := MarkNotificationRead(ctx, database, n.ID, alice.ID); err != nil {
		t.Errorf("second mark should succeed, got %v", err)
	}

	if err := MarkNotificationRead(ctx, database, 9999, alice.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	unread, _ := ListNotifications(ctx, database, alice.ID, true)
	if len(unread) != 0 {
		t.Errorf("expected 0 unread, got %d", len(unread))
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash", model.RoleUser)
	bob, _ := CreateUser(ctx, database, "bob", "hash", model.RoleUser)

	AppendNotification(ctx, database, alice.ID, "a")
	AppendNotification(ctx, database, alice.ID, "b")
	AppendNotification(ctx, database, alice.ID, "c")
	AppendNotification(ctx, database, bob.ID, "not yours")

	count, err := MarkAllNotificationsRead(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 marked, got %d", count)
	}

	// Second pass has nothing left to mark.
	count, _ = MarkAllNotificationsRead(ctx, database, alice.ID)
	if count != 0 {
		t.Errorf("expected 0 marked on second pass, got %d", count)
	}

	// Bob's notification is untouched.
	unread, _ := CountUnreadNotifications(ctx, database, bob.ID)
	if unread != 1 {
		t.Errorf("expected bob to still have 1 unread, got %d", unread)
	}
}

func TestCountUnreadNotifications(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash", model.RoleUser)

	count, err := CountUnreadNotifications(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}

	n, _ := AppendNotification(ctx, database, alice.ID, "a")
	AppendNotification(ctx, database, alice.ID, "b")

	MarkNotificationRead(ctx, database, n.ID, alice.ID)

	count, _ = CountUnreadNotifications(ctx, database, alice.ID)
	if count != 1 {
		t.Errorf("expected 1 unread, got %d", count)
	}
}
