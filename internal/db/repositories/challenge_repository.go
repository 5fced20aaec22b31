package repositories

import (
	"context"
	"fmt"
	"time"

	"carclub/paddock/internal/constants"
	models "carclub/paddock/internal/models/gorm"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// GetByID retrieves and locks a challenge, with its event and club preloaded
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	var ch models.Challenge

	err := forUpdate(r.db.WithContext(ctx)).
		Preload("Event.Club").
		Where("id = ?", id).
		First(&ch).Error
	if err != nil {
		return nil, translate(err, "failed to fetch challenge")
	}

	return &ch, nil
}

func (r *ChallengeRepository) Create(ctx context.Context, ch *models.Challenge) error {
	return translate(r.db.WithContext(ctx).Create(ch).Error, "failed to create challenge")
}

// UpdateStatus moves a challenge from one status to another, returning
// false if it was no longer in from
func (r *ChallengeRepository) UpdateStatus(ctx context.Context, id string, from, to constants.ChallengeStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update challenge status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// CancelOpenByEvent cancels every PENDING or ACTIVE challenge of an event
// and returns how many moved.
func (r *ChallengeRepository) CancelOpenByEvent(ctx context.Context, eventID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("event_id = ? AND status IN ?", eventID,
			[]constants.ChallengeStatus{constants.ChallengePending, constants.ChallengeActive}).
		Update("status", constants.ChallengeCancelled)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to cancel event challenges: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Settlement is the set of columns written when a challenge completes.
type Settlement struct {
	Winners    [3]string
	BonusPool  decimal.Decimal
	Payouts    [3]decimal.Decimal
	ReleasedAt time.Time
}

// Complete writes the settlement in one conditional update. It returns
// false when the challenge was not ACTIVE, which is how a second
// completion is detected even under concurrent calls.
func (r *ChallengeRepository) Complete(ctx context.Context, id string, s Settlement) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("id = ? AND status = ?", id, constants.ChallengeActive).
		Updates(map[string]interface{}{
			"status":                  constants.ChallengeCompleted,
			"first_place_user_id":     s.Winners[0],
			"second_place_user_id":    s.Winners[1],
			"third_place_user_id":     s.Winners[2],
			"bonus_pool_usd":          s.BonusPool,
			"first_place_payout_usd":  s.Payouts[0],
			"second_place_payout_usd": s.Payouts[1],
			"third_place_payout_usd":  s.Payouts[2],
			"payouts_released_at":     s.ReleasedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to complete challenge: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
