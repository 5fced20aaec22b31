package gorm

import (
	"time"

	"carclub/paddock/internal/constants"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Event struct {
	ID           string                `gorm:"column:id;primaryKey;type:uuid"`
	ClubID       string                `gorm:"column:club_id;type:uuid;not null;index"`
	Title        string                `gorm:"column:title;not null"`
	EntryFeeUSD  decimal.NullDecimal   `gorm:"column:entry_fee_usd;type:numeric(12,2)"`
	MaxAttendees *int                  `gorm:"column:max_attendees"`
	IsPublic     bool                  `gorm:"column:is_public;not null;default:false"`
	Status       constants.EventStatus `gorm:"column:status;type:varchar(16);not null;default:DRAFT"`
	CreatedBy    string                `gorm:"column:created_by;type:uuid"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	Club Club `gorm:"foreignKey:ClubID"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// HasFee is true when a positive entry fee is configured.
func (e *Event) HasFee() bool {
	return e.EntryFeeUSD.Valid && e.EntryFeeUSD.Decimal.IsPositive()
}
