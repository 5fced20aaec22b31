package gorm

import (
	"time"

	"gorm.io/gorm"
)

type EventEntry struct {
	ID         string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID     string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_event_entries_user_event"`
	EventID    string    `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_event_entries_user_event;index"`
	PaymentRef *string   `gorm:"column:payment_ref"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (EventEntry) TableName() string {
	return "event_entries"
}

func (e *EventEntry) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

type ChallengeEntry struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_challenge_entries_user_challenge"`
	ChallengeID string    `gorm:"column:challenge_id;type:uuid;not null;uniqueIndex:idx_challenge_entries_user_challenge;index"`
	PaymentRef  *string   `gorm:"column:payment_ref"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ChallengeEntry) TableName() string {
	return "challenge_entries"
}

func (e *ChallengeEntry) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}
