package postgres

import (
	"context"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"gorm.io/gorm"
)

type MerchStorage struct {
	db *gorm.DB
}

func NewMerchStorage(db *gorm.DB) *MerchStorage {
	return &MerchStorage{
		db: db,
	}
}

// Create is only used when seeding; merch is read-only for users.
func (s *MerchStorage) Create(ctx context.Context, clubID int64, item dto.NewMerch) (*dto.Merch, error) {
	row := entity.Merch{
		ClubID: clubID,
		Name:   item.Name,
		Price:  item.Price,
		Image:  item.Image,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, errorz.NewStoreError("merch.create", err)
	}

	result := merchToDTO(row)
	return &result, nil
}
