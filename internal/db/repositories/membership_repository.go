package repositories

import (
	"context"
	"fmt"

	"carclub/paddock/internal/constants"
	models "carclub/paddock/internal/models/gorm"

	"gorm.io/gorm"
)

// MembershipRepository manages club memberships with GORM
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// GetByUserAndClub retrieves a user's membership in a specific club
func (r *MembershipRepository) GetByUserAndClub(ctx context.Context, userID, clubID string) (*models.Membership, error) {
	var m models.Membership

	err := forUpdate(r.db.WithContext(ctx)).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "failed to fetch membership")
	}

	return &m, nil
}

// ListByClub retrieves every member of a club with user details, highest role first
func (r *MembershipRepository) ListByClub(ctx context.Context, clubID string) ([]models.Membership, error) {
	var ms []models.Membership

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("club_id = ?", clubID).
		Order("joined_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch club members: %w", err)
	}

	return ms, nil
}

func (r *MembershipRepository) Create(ctx context.Context, m *models.Membership) error {
	return translate(r.db.WithContext(ctx).Create(m).Error, "failed to create membership")
}

// UpdateRole sets the role of an existing membership
func (r *MembershipRepository) UpdateRole(ctx context.Context, userID, clubID string, role constants.ClubRole) error {
	res := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to update membership role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a membership, returning whether a row existed
func (r *MembershipRepository) Delete(ctx context.Context, userID, clubID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Delete(&models.Membership{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete membership: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
