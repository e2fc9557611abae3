package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warblerhq/warbler/internal/models"
)

// LikeStore manages like edges between users and messages.
type LikeStore struct{ DB *gorm.DB }

func NewLikeStore(db *gorm.DB) *LikeStore { return &LikeStore{DB: db} }

// Like records that userID liked messageID. The message must exist. A repeat
// like is a no-op: the composite key conflict leaves the single existing row.
// Users may like their own messages.
func (s *LikeStore) Like(userID, messageID uint) error {
	var msg models.Message
	err := s.DB.First(&msg, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("like message %d: %w", messageID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("like: %w", err)
	}
	like := models.Like{UserID: userID, MessageID: messageID}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		return fmt.Errorf("like: %w", err)
	}
	return nil
}

// Unlike removes the like if present; absent is a no-op.
func (s *LikeStore) Unlike(userID, messageID uint) error {
	err := s.DB.Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
	if err != nil {
		return fmt.Errorf("unlike: %w", err)
	}
	return nil
}

// LikedMessages lists the messages userID has liked, newest like first.
func (s *LikeStore) LikedMessages(userID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("liked messages of %d: %w", userID, err)
	}
	return msgs, nil
}

// Count reports how many users liked a message.
func (s *LikeStore) Count(messageID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Like{}).Where("message_id = ?", messageID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("like count: %w", err)
	}
	return count, nil
}
