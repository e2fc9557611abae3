package store

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/warblerhq/warbler/internal/models"
)

// UserStore holds user identity and password verification.
type UserStore struct{ DB *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{DB: db} }

// Signup hashes the password and persists a new user. Username and email must
// be unique; the unique indexes raise on commit and are mapped to ErrDuplicate.
// imageURL falls back to the default profile picture when blank.
func (s *UserStore) Signup(username, email, password, imageURL string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("signup: %w", ErrMissingField)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("signup: hash password: %w", err)
	}
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}
	user := models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, fmt.Errorf("signup %q: %w", username, ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("signup: %w", err)
	}
	return user, nil
}

// Authenticate looks the user up by username and verifies the password.
// Returns (nil, nil) on unknown username or wrong password alike, so callers
// cannot tell which one failed.
func (s *UserStore) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *UserStore) Get(id uint) (models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Exists reports whether a user row is still present. The session middleware
// uses this to drop sessions that outlived their user.
func (s *UserStore) Exists(id uint) bool {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// Delete removes a user and everything that references them: their messages,
// likes on those messages, their own likes, and both directions of follow
// edges. Cascades are spelled out here rather than left to relationship
// configuration, all inside one transaction.
func (s *UserStore) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var messageIDs []uint
		if err := tx.Model(&models.Message{}).Where("author_id = ?", id).Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
