package postgres

import (
	"context"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"gorm.io/gorm"
)

type PostStorage struct {
	db *gorm.DB
}

func NewPostStorage(db *gorm.DB) *PostStorage {
	return &PostStorage{
		db: db,
	}
}

func (s *PostStorage) Create(ctx context.Context, clubID int64, post dto.NewPost) (*dto.Post, error) {
	row := entity.Post{
		ClubID: clubID,
		Text:   post.Text,
		Image:  post.Image,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, errorz.NewStoreError("posts.create", err)
	}

	result := postToDTO(row)
	return &result, nil
}

// Delete removes the post and, through the foreign key, its comments.
// Deleting a missing post is not an error.
func (s *PostStorage) Delete(ctx context.Context, clubID, postID int64) error {
	err := s.db.WithContext(ctx).Where("id = ? AND club_id = ?", postID, clubID).Delete(&entity.Post{}).Error
	return errorz.NewStoreError("posts.delete", err)
}
