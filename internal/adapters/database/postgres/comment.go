package postgres

import (
	"context"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"gorm.io/gorm"
)

type CommentStorage struct {
	db *gorm.DB
}

func NewCommentStorage(db *gorm.DB) *CommentStorage {
	return &CommentStorage{
		db: db,
	}
}

func (s *CommentStorage) Create(ctx context.Context, postID int64, comment dto.NewComment) (*dto.Comment, error) {
	row := entity.Comment{
		PostID: postID,
		UserID: comment.UserID,
		Text:   comment.Text,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, errorz.NewStoreError("comments.create", err)
	}

	result := commentToDTO(row)
	return &result, nil
}

// Delete is idempotent.
func (s *CommentStorage) Delete(ctx context.Context, postID, commentID int64) error {
	err := s.db.WithContext(ctx).Where("id = ? AND post_id = ?", commentID, postID).Delete(&entity.Comment{}).Error
	return errorz.NewStoreError("comments.delete", err)
}
