package postgres

import (
	"context"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"gorm.io/gorm"
)

type PlayerStorage struct {
	db *gorm.DB
}

func NewPlayerStorage(db *gorm.DB) *PlayerStorage {
	return &PlayerStorage{
		db: db,
	}
}

func (s *PlayerStorage) Create(ctx context.Context, clubID int64, player dto.NewPlayer) (*dto.Player, error) {
	row := entity.Player{
		ClubID:   clubID,
		Name:     player.Name,
		Position: player.Position,
		Number:   player.Number,
		Avatar:   player.Avatar,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, errorz.NewStoreError("players.create", err)
	}

	result := playerToDTO(row)
	return &result, nil
}
