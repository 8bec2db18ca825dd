package postgres

import (
	"context"
	"errors"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"gorm.io/gorm"
)

// IdentityStorage keeps identity provider accounts. It returns rows rather
// than domain shapes because the provider needs the password hash.
type IdentityStorage struct {
	db *gorm.DB
}

func NewIdentityStorage(db *gorm.DB) *IdentityStorage {
	return &IdentityStorage{
		db: db,
	}
}

func (s *IdentityStorage) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return s.getBy(ctx, "identities.get_by_email", "email = ?", email)
}

func (s *IdentityStorage) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	return s.getBy(ctx, "identities.get_by_id", "id = ?", id)
}

func (s *IdentityStorage) GetByGoogleID(ctx context.Context, googleID string) (*entity.Identity, error) {
	return s.getBy(ctx, "identities.get_by_google_id", "google_id = ?", googleID)
}

func (s *IdentityStorage) getBy(ctx context.Context, op, query string, arg any) (*entity.Identity, error) {
	var identity entity.Identity
	err := s.db.WithContext(ctx).Where(query, arg).First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errorz.NewStoreError(op, err)
	}
	return &identity, nil
}

func (s *IdentityStorage) Create(ctx context.Context, identity *entity.Identity) error {
	err := s.db.WithContext(ctx).Create(identity).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = errorz.NewAuthError(errorz.AlreadyRegistered, err)
	}
	return errorz.NewStoreError("identities.create", err)
}

func (s *IdentityStorage) Confirm(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&entity.Identity{}).Where("id = ?", id).Update("confirmed", true)
	if res.Error != nil {
		return errorz.NewStoreError("identities.confirm", res.Error)
	}
	if res.RowsAffected == 0 {
		return errorz.ErrNotFound
	}
	return nil
}

// LinkGoogle attaches a Google account to an existing identity and marks it
// confirmed, since Google has verified the address.
func (s *IdentityStorage) LinkGoogle(ctx context.Context, id, googleID string) error {
	res := s.db.WithContext(ctx).Model(&entity.Identity{}).Where("id = ?", id).Updates(map[string]interface{}{
		"google_id": googleID,
		"confirmed": true,
	})
	if res.Error != nil {
		return errorz.NewStoreError("identities.link_google", res.Error)
	}
	if res.RowsAffected == 0 {
		return errorz.ErrNotFound
	}
	return nil
}

// Delete removes an identity. Deleting a missing identity is not an error.
func (s *IdentityStorage) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Identity{}).Error
	return errorz.NewStoreError("identities.delete", err)
}
