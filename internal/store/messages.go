package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/warblerhq/warbler/internal/models"
)

// MessageStore manages messages and their explicit like cascade.
type MessageStore struct{ DB *gorm.DB }

func NewMessageStore(db *gorm.DB) *MessageStore { return &MessageStore{DB: db} }

// Create persists a message for authorID. Text is required and bounded by
// models.MaxMessageLength runes; the timestamp is assigned server-side.
func (s *MessageStore) Create(authorID uint, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, fmt.Errorf("create message: %w", ErrMissingField)
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return models.Message{}, fmt.Errorf("create message: %w", ErrTextTooLong)
	}
	msg := models.Message{
		Text:      text,
		Timestamp: time.Now().UTC(),
		AuthorID:  authorID,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// Get fetches a message by id.
func (s *MessageStore) Get(id uint) (models.Message, error) {
	var msg models.Message
	err := s.DB.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Message{}, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// Delete removes a message and its likes. Only the author may delete; anyone
// else gets ErrNotOwner and the message stays. The like cascade is explicit
// and runs in the same transaction as the message delete.
func (s *MessageStore) Delete(messageID, requesterID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		err := tx.First(&msg, messageID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("message %d: %w", messageID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		if msg.GetUserID() != requesterID {
			return fmt.Errorf("delete message %d: %w", messageID, ErrNotOwner)
		}
		if err := tx.Where("message_id = ?", messageID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete message likes: %w", err)
		}
		if err := tx.Delete(&models.Message{}, messageID).Error; err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		return nil
	})
}

// ByAuthor lists a user's messages, newest first.
func (s *MessageStore) ByAuthor(userID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Where("author_id = ?", userID).Order("timestamp DESC").Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("messages of %d: %w", userID, err)
	}
	return msgs, nil
}

// Timeline lists the newest messages from userID and the users they follow.
func (s *MessageStore) Timeline(userID uint) ([]models.Message, error) {
	followed := s.DB.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)
	var msgs []models.Message
	err := s.DB.
		Where("author_id = ? OR author_id IN (?)", userID, followed).
		Order("timestamp DESC").
		Limit(100).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("timeline of %d: %w", userID, err)
	}
	return msgs, nil
}
