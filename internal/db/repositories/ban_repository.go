package repositories

import (
	"context"
	"fmt"

	models "carclub/paddock/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BanRepository struct {
	db *gorm.DB
}

func NewBanRepository(db *gorm.DB) *BanRepository {
	return &BanRepository{db: db}
}

// GetByUserAndClub returns the ban record for a pair whether or not it has
// expired. Callers decide activity with Ban.IsActive.
func (r *BanRepository) GetByUserAndClub(ctx context.Context, userID, clubID string) (*models.Ban, error) {
	var ban models.Ban

	err := forUpdate(r.db.WithContext(ctx)).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		First(&ban).Error
	if err != nil {
		return nil, translate(err, "failed to fetch ban")
	}

	return &ban, nil
}

// Upsert creates the ban or replaces the existing record for the pair
func (r *BanRepository) Upsert(ctx context.Context, ban *models.Ban) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "club_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"issued_by", "reason", "is_permanent", "expires_at", "updated_at"}),
		}).
		Create(ban).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ban: %w", err)
	}
	return nil
}

// Delete removes the ban for a pair, returning whether a row existed
func (r *BanRepository) Delete(ctx context.Context, userID, clubID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Delete(&models.Ban{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete ban: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
