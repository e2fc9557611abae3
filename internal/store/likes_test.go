package store

import (
	"errors"
	"testing"

	"github.com/warblerhq/warbler/internal/models"
)

func TestLikeAndUnlike(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	msg := seedMessage(t, db, bob.ID, "Test Message")
	s := NewLikeStore(db)

	if err := s.Like(alice.ID, msg.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	liked, err := s.LikedMessages(alice.ID)
	if err != nil {
		t.Fatalf("liked messages: %v", err)
	}
	if len(liked) != 1 || liked[0].ID != msg.ID {
		t.Fatalf("expected exactly the liked message, got %#v", liked)
	}

	if err := s.Unlike(alice.ID, msg.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	liked, _ = s.LikedMessages(alice.ID)
	if len(liked) != 0 {
		t.Fatalf("expected empty liked list, got %d", len(liked))
	}
}

func TestLikeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	msg := seedMessage(t, db, bob.ID, "Test Message")
	s := NewLikeStore(db)

	if err := s.Like(alice.ID, msg.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Like(alice.ID, msg.ID); err != nil {
		t.Fatalf("repeat like should be a no-op, got %v", err)
	}
	var count int64
	db.Model(&models.Like{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one like row, got %d", count)
	}
}

func TestLikeMissingMessage(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	if err := NewLikeStore(db).Like(alice.ID, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnlikeMissingRowIsNoop(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	msg := seedMessage(t, db, bob.ID, "Test Message")

	if err := NewLikeStore(db).Unlike(alice.ID, msg.ID); err != nil {
		t.Fatalf("unlike of absent row should be a no-op, got %v", err)
	}
}

func TestSelfLikePermitted(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	msg := seedMessage(t, db, alice.ID, "my own words")
	s := NewLikeStore(db)

	if err := s.Like(alice.ID, msg.ID); err != nil {
		t.Fatalf("self-like is currently permitted, got %v", err)
	}
	count, err := s.Count(msg.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected like count 1, got %d (%v)", count, err)
	}
}
