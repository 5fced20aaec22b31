package repositories

import (
	"context"
	"fmt"

	"carclub/paddock/internal/constants"
	models "carclub/paddock/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository manages actors with GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user with its memberships preloaded
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Preload("Memberships").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "failed to fetch user")
	}

	return &user, nil
}

// GetByExternalID retrieves a user by the identity the session resolver issued
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "failed to fetch user by external id")
	}

	return &user, nil
}

// EnsureByExternalID returns the user for externalID, creating a USER-role
// row on first sight.
func (r *UserRepository) EnsureByExternalID(ctx context.Context, externalID, displayName string) (*models.User, error) {
	user := models.User{
		ExternalID:  externalID,
		DisplayName: displayName,
		SiteRole:    constants.SiteRoleUser,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_id"}}, DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return nil, translate(err, "failed to provision user")
	}

	return r.GetByExternalID(ctx, externalID)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "failed to create user")
}

// UpdateSiteRole changes a user's site-wide role
func (r *UserRepository) UpdateSiteRole(ctx context.Context, id string, role constants.SiteRole) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("site_role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to update site role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
