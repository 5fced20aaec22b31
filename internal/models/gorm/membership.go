package gorm

import (
	"time"

	"carclub/paddock/internal/constants"

	"gorm.io/gorm"
)

// Membership is the (user, club, role) relation. At most one row exists
// per pair; removal and bans delete it.
type Membership struct {
	ID        string             `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string             `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_memberships_user_club"`
	ClubID    string             `gorm:"column:club_id;type:uuid;not null;uniqueIndex:idx_memberships_user_club;index"`
	Role      constants.ClubRole `gorm:"column:role;type:varchar(16);not null"`
	JoinedAt  time.Time          `gorm:"column:joined_at;not null"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
	Club Club `gorm:"foreignKey:ClubID"`
}

func (Membership) TableName() string {
	return "memberships"
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return nil
}
