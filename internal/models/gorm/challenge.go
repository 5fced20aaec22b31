package gorm

import (
	"time"

	"carclub/paddock/internal/constants"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Challenge is a competition inside an event. The settlement columns
// (winners, payouts, PayoutsReleasedAt) are written together, once, by
// completion.
type Challenge struct {
	ID                          string                    `gorm:"column:id;primaryKey;type:uuid"`
	EventID                     string                    `gorm:"column:event_id;type:uuid;not null;index"`
	Title                       string                    `gorm:"column:title;not null"`
	EntryFeeUSD                 decimal.NullDecimal       `gorm:"column:entry_fee_usd;type:numeric(12,2)"`
	BonusPoolPercentOfEventFees int                       `gorm:"column:bonus_pool_percent_of_event_fees;not null;default:0"`
	Status                      constants.ChallengeStatus `gorm:"column:status;type:varchar(16);not null;default:PENDING"`

	FirstPlaceUserID  *string             `gorm:"column:first_place_user_id;type:uuid"`
	SecondPlaceUserID *string             `gorm:"column:second_place_user_id;type:uuid"`
	ThirdPlaceUserID  *string             `gorm:"column:third_place_user_id;type:uuid"`
	BonusPoolUSD      decimal.NullDecimal `gorm:"column:bonus_pool_usd;type:numeric(12,2)"`
	FirstPlacePayout  decimal.NullDecimal `gorm:"column:first_place_payout_usd;type:numeric(12,2)"`
	SecondPlacePayout decimal.NullDecimal `gorm:"column:second_place_payout_usd;type:numeric(12,2)"`
	ThirdPlacePayout  decimal.NullDecimal `gorm:"column:third_place_payout_usd;type:numeric(12,2)"`
	PayoutsReleasedAt *time.Time          `gorm:"column:payouts_released_at"`

	CreatedBy string    `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Event Event `gorm:"foreignKey:EventID"`
}

func (Challenge) TableName() string {
	return "challenges"
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
