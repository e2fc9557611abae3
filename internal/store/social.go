package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warblerhq/warbler/internal/models"
)

// SocialStore manages directional follow edges.
type SocialStore struct{ DB *gorm.DB }

func NewSocialStore(db *gorm.DB) *SocialStore { return &SocialStore{DB: db} }

// Follow inserts a follow edge. A duplicate pair is a no-op: the conflict on
// the composite key is swallowed so exactly one row remains. Nothing prevents
// followerID == followedID; the route layer does not expose that action but
// the store permits it.
func (s *SocialStore) Follow(followerID, followedID uint) error {
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	if err != nil {
		return fmt.Errorf("follow %d->%d: %w", followerID, followedID, err)
	}
	return nil
}

// Unfollow removes the edge if present. Removing an absent edge is a no-op.
func (s *SocialStore) Unfollow(followerID, followedID uint) error {
	err := s.DB.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("unfollow %d->%d: %w", followerID, followedID, err)
	}
	return nil
}

// IsFollowing reports whether a follows b.
func (s *SocialStore) IsFollowing(a, b uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return count > 0, nil
}

// IsFollowedBy reports whether a is followed by b.
func (s *SocialStore) IsFollowedBy(a, b uint) (bool, error) {
	return s.IsFollowing(b, a)
}

// Followers lists the users following userID.
func (s *SocialStore) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("followers of %d: %w", userID, err)
	}
	return users, nil
}

// Following lists the users userID follows.
func (s *SocialStore) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("following of %d: %w", userID, err)
	}
	return users, nil
}
