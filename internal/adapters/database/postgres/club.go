package postgres

import (
	"context"
	"errors"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"gorm.io/gorm"
)

type ClubStorage struct {
	db *gorm.DB
}

func NewClubStorage(db *gorm.DB) *ClubStorage {
	return &ClubStorage{
		db: db,
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// withChildren assembles posts (newest first) with their comments, players
// and merch into the club rows.
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Posts.Comments", orderByID).
		Preload("Players", orderByID).
		Preload("Merch", orderByID)
}

// GetAll returns every club, most recently created first.
func (s *ClubStorage) GetAll(ctx context.Context) ([]dto.Club, error) {
	var clubs []entity.Club
	err := withChildren(s.db.WithContext(ctx)).Order("created_at DESC, id DESC").Find(&clubs).Error
	if err != nil {
		return nil, errorz.NewStoreError("clubs.get_all", err)
	}

	result := make([]dto.Club, 0, len(clubs))
	for _, club := range clubs {
		result = append(result, clubToDTO(club))
	}
	return result, nil
}

// Get returns nil, nil when the club does not exist.
func (s *ClubStorage) Get(ctx context.Context, id int64) (*dto.Club, error) {
	var club entity.Club
	err := withChildren(s.db.WithContext(ctx)).Where("id = ?", id).First(&club).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errorz.NewStoreError("clubs.get", err)
	}

	result := clubToDTO(club)
	return &result, nil
}

func (s *ClubStorage) Create(ctx context.Context, club dto.NewClub) (*dto.Club, error) {
	row := entity.Club{
		Name:           club.Name,
		Sport:          club.Sport,
		Logo:           club.Logo,
		Tagline:        club.Tagline,
		Description:    club.Description,
		CreatorID:      club.CreatorID,
		FundingCurrent: club.Funding.Current,
		FundingGoal:    club.Funding.Goal,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, errorz.NewStoreError("clubs.create", err)
	}

	result := clubToDTO(row)
	return &result, nil
}

// UpdateSettings writes the editable club fields and funding.
func (s *ClubStorage) UpdateSettings(ctx context.Context, id int64, settings dto.ClubSettings) error {
	res := s.db.WithContext(ctx).Model(&entity.Club{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":            settings.Name,
		"sport":           settings.Sport,
		"logo":            settings.Logo,
		"tagline":         settings.Tagline,
		"description":     settings.Description,
		"funding_current": settings.Funding.Current,
		"funding_goal":    settings.Funding.Goal,
	})
	if res.Error != nil {
		return errorz.NewStoreError("clubs.update_settings", res.Error)
	}
	if res.RowsAffected == 0 {
		return errorz.ErrNotFound
	}
	return nil
}

func (s *ClubStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Club{}).Count(&count).Error
	return count, errorz.NewStoreError("clubs.count", err)
}
