package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/warblerhq/warbler/internal/models"
)

func TestSignupHashesPassword(t *testing.T) {
	db := setupTestDB(t)
	s := NewUserStore(db)

	user, err := s.Signup("alice", "alice@test.com", "plaintext", "")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if user.PasswordHash == "plaintext" {
		t.Fatal("password stored in plaintext")
	}
	if !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", user.PasswordHash)
	}
	if user.ImageURL != models.DefaultImageURL {
		t.Fatalf("expected default image url, got %q", user.ImageURL)
	}
}

func TestSignupKeepsExplicitImageURL(t *testing.T) {
	db := setupTestDB(t)
	user, err := NewUserStore(db).Signup("bob", "bob@test.com", "pw", "/pics/bob.png")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ImageURL != "/pics/bob.png" {
		t.Fatalf("image url overridden: %q", user.ImageURL)
	}
}

func TestSignupMissingFields(t *testing.T) {
	db := setupTestDB(t)
	s := NewUserStore(db)

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "", "a@test.com", "pw"},
		{"no email", "a", "", "pw"},
		{"no password", "a", "a@test.com", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := s.Signup(c.username, c.email, c.password, ""); !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
		})
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid signups left %d user rows", count)
	}
}

func TestSignupDuplicateUsernameAndEmail(t *testing.T) {
	db := setupTestDB(t)
	s := NewUserStore(db)
	seedUser(t, db, "alice")

	if _, err := s.Signup("alice", "other@test.com", "pw", ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username: expected ErrDuplicate, got %v", err)
	}
	if _, err := s.Signup("alice2", "alice@test.com", "pw", ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email: expected ErrDuplicate, got %v", err)
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user row after failed signups, got %d", count)
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	s := NewUserStore(db)
	seeded := seedUser(t, db, "alice") // password secret-alice

	got, err := s.Authenticate("alice", "secret-alice")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got == nil || got.ID != seeded.ID {
		t.Fatalf("expected user %d, got %#v", seeded.ID, got)
	}

	if got, err := s.Authenticate("alice", "wrong"); err != nil || got != nil {
		t.Fatalf("wrong password should return nil, nil; got %#v, %v", got, err)
	}
	if got, err := s.Authenticate("nobody", "secret-alice"); err != nil || got != nil {
		t.Fatalf("unknown user should return nil, nil; got %#v, %v", got, err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	msg := seedMessage(t, db, alice.ID, "hello")
	bobMsg := seedMessage(t, db, bob.ID, "hi back")

	social := NewSocialStore(db)
	likes := NewLikeStore(db)
	if err := social.Follow(alice.ID, bob.ID); err != nil {
		t.Fatal(err)
	}
	if err := social.Follow(bob.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if err := likes.Like(bob.ID, msg.ID); err != nil {
		t.Fatal(err)
	}
	if err := likes.Like(alice.ID, bobMsg.ID); err != nil {
		t.Fatal(err)
	}

	if err := NewUserStore(db).Delete(alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var users, msgs, follows, likeRows int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Message{}).Count(&msgs)
	db.Model(&models.Follow{}).Count(&follows)
	db.Model(&models.Like{}).Count(&likeRows)
	if users != 1 {
		t.Fatalf("expected bob only, got %d users", users)
	}
	if msgs != 1 {
		t.Fatalf("expected bob's message only, got %d messages", msgs)
	}
	if follows != 0 {
		t.Fatalf("expected no follow edges, got %d", follows)
	}
	if likeRows != 0 {
		t.Fatalf("expected no like rows, got %d", likeRows)
	}
}
