package postgres

import (
	"context"
	"errors"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{
		db: db,
	}
}

func withFollows(db *gorm.DB) *gorm.DB {
	return db.Preload("Follows", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at, club_id")
	})
}

// GetAll returns every user with its followed clubs. ManagedClubs is left
// empty; it is derived from the club collection by dto.NewState.
func (s *UserStorage) GetAll(ctx context.Context) ([]dto.User, error) {
	var users []entity.User
	err := withFollows(s.db.WithContext(ctx)).Order("created_at").Find(&users).Error
	if err != nil {
		return nil, errorz.NewStoreError("users.get_all", err)
	}

	result := make([]dto.User, 0, len(users))
	for _, user := range users {
		result = append(result, userToDTO(user, nil))
	}
	return result, nil
}

// GetByEmail returns nil, nil when no user has the email.
func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*dto.User, error) {
	return s.getBy(ctx, "users.get_by_email", "email = ?", email)
}

// GetByID returns nil, nil when the user does not exist.
func (s *UserStorage) GetByID(ctx context.Context, id string) (*dto.User, error) {
	return s.getBy(ctx, "users.get_by_id", "id = ?", id)
}

func (s *UserStorage) getBy(ctx context.Context, op, query string, arg any) (*dto.User, error) {
	var user entity.User
	err := withFollows(s.db.WithContext(ctx)).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errorz.NewStoreError(op, err)
	}

	var managed []int64
	err = s.db.WithContext(ctx).Model(&entity.Club{}).Where("creator_id = ?", user.ID).Order("id").Pluck("id", &managed).Error
	if err != nil {
		return nil, errorz.NewStoreError(op, err)
	}

	result := userToDTO(user, managed)
	return &result, nil
}

// Create inserts a user. An empty ID gets a fresh uuid; identity-backed users
// reuse the identity id.
func (s *UserStorage) Create(ctx context.Context, user dto.NewUser) (*dto.User, error) {
	row := entity.User{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
		Role:     string(user.Role),
		Avatar:   user.Avatar,
		Bio:      user.Bio,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = errorz.NewAuthError(errorz.AlreadyRegistered, err)
		}
		return nil, errorz.NewStoreError("users.create", err)
	}

	result := userToDTO(row, nil)
	return &result, nil
}

// UpdateProfile writes name, avatar and bio only.
func (s *UserStorage) UpdateProfile(ctx context.Context, id string, profile dto.UserProfile) error {
	res := s.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":   profile.Name,
		"avatar": profile.Avatar,
		"bio":    profile.Bio,
	})
	if res.Error != nil {
		return errorz.NewStoreError("users.update_profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return errorz.ErrNotFound
	}
	return nil
}

func (s *UserStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error
	return count, errorz.NewStoreError("users.count", err)
}
