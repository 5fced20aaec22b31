package gorm

import (
	"time"

	"carclub/paddock/internal/constants"

	"gorm.io/gorm"
)

// JoinRequest tracks a user's request to enter a private or public club.
// The partial unique index keeps at most one PENDING row per pair.
type JoinRequest struct {
	ID         string                      `gorm:"column:id;primaryKey;type:uuid"`
	UserID     string                      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_join_requests_pending,where:status = 'PENDING'"`
	ClubID     string                      `gorm:"column:club_id;type:uuid;not null;index;uniqueIndex:idx_join_requests_pending,where:status = 'PENDING'"`
	Status     constants.JoinRequestStatus `gorm:"column:status;type:varchar(16);not null;default:PENDING"`
	Message    *string                     `gorm:"column:message"`
	ReviewedBy *string                     `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt *time.Time                  `gorm:"column:reviewed_at"`
	CreatedAt  time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (JoinRequest) TableName() string {
	return "join_requests"
}

func (j *JoinRequest) BeforeCreate(tx *gorm.DB) error {
	assignID(&j.ID)
	return nil
}
