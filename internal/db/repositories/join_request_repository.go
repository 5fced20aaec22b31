package repositories

import (
	"context"
	"fmt"
	"time"

	"carclub/paddock/internal/constants"
	models "carclub/paddock/internal/models/gorm"

	"gorm.io/gorm"
)

type JoinRequestRepository struct {
	db *gorm.DB
}

func NewJoinRequestRepository(db *gorm.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

// GetByID retrieves and locks a join request
func (r *JoinRequestRepository) GetByID(ctx context.Context, id string) (*models.JoinRequest, error) {
	var jr models.JoinRequest

	err := forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&jr).Error
	if err != nil {
		return nil, translate(err, "failed to fetch join request")
	}

	return &jr, nil
}

// FindPending returns the pending request for a pair, or ErrNotFound
func (r *JoinRequestRepository) FindPending(ctx context.Context, userID, clubID string) (*models.JoinRequest, error) {
	var jr models.JoinRequest

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND club_id = ? AND status = ?", userID, clubID, constants.JoinRequestPending).
		First(&jr).Error
	if err != nil {
		return nil, translate(err, "failed to fetch pending join request")
	}

	return &jr, nil
}

// ListPendingByClub lists the requests awaiting review, oldest first
func (r *JoinRequestRepository) ListPendingByClub(ctx context.Context, clubID string) ([]models.JoinRequest, error) {
	var jrs []models.JoinRequest

	err := r.db.WithContext(ctx).
		Where("club_id = ? AND status = ?", clubID, constants.JoinRequestPending).
		Order("created_at ASC").
		Find(&jrs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}

	return jrs, nil
}

func (r *JoinRequestRepository) Create(ctx context.Context, jr *models.JoinRequest) error {
	return translate(r.db.WithContext(ctx).Create(jr).Error, "failed to create join request")
}

// Review moves a PENDING request to status. It returns false when the
// request was no longer pending, so two reviewers cannot both win.
func (r *JoinRequestRepository) Review(ctx context.Context, id string, status constants.JoinRequestStatus, reviewerID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", id, constants.JoinRequestPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to review join request: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// RejectPending closes any pending request for the pair, used when a ban
// supersedes it
func (r *JoinRequestRepository) RejectPending(ctx context.Context, userID, clubID, reviewerID string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("user_id = ? AND club_id = ? AND status = ?", userID, clubID, constants.JoinRequestPending).
		Updates(map[string]interface{}{
			"status":      constants.JoinRequestRejected,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to reject pending join request: %w", err)
	}
	return nil
}
