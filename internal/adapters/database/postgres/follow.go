package postgres

import (
	"context"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowStorage struct {
	db *gorm.DB
}

func NewFollowStorage(db *gorm.DB) *FollowStorage {
	return &FollowStorage{
		db: db,
	}
}

// Create adds the follow edge. An existing edge is left as is.
func (s *FollowStorage) Create(ctx context.Context, userID string, clubID int64) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Follow{UserID: userID, ClubID: clubID}).Error
	return errorz.NewStoreError("follows.create", err)
}

func (s *FollowStorage) Delete(ctx context.Context, userID string, clubID int64) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Delete(&entity.Follow{}).Error
	return errorz.NewStoreError("follows.delete", err)
}
