package gorm

import (
	"time"

	"gorm.io/gorm"
)

// Ban excludes a user from a club. Expiry is never swept; callers ask
// IsActive with the current time on every read.
type Ban struct {
	ID          string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	UserID      string     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_bans_user_club" json:"user_id"`
	ClubID      string     `gorm:"column:club_id;type:uuid;not null;uniqueIndex:idx_bans_user_club" json:"club_id"`
	IssuedBy    string     `gorm:"column:issued_by;type:uuid;not null" json:"issued_by"`
	Reason      *string    `gorm:"column:reason" json:"reason,omitempty"`
	IsPermanent bool       `gorm:"column:is_permanent;not null;default:false" json:"is_permanent"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Ban) TableName() string {
	return "bans"
}

func (b *Ban) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// IsActive reports whether the ban applies at now.
func (b *Ban) IsActive(now time.Time) bool {
	if b == nil {
		return false
	}
	if b.IsPermanent {
		return true
	}
	return b.ExpiresAt != nil && b.ExpiresAt.After(now)
}
