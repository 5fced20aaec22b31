package gorm

import (
	"time"

	"carclub/paddock/internal/constants"

	"gorm.io/gorm"
)

// User is an authenticated actor. ExternalID is the identity handed to us
// by the session resolver.
type User struct {
	ID          string             `gorm:"column:id;primaryKey;type:uuid"`
	ExternalID  string             `gorm:"column:external_id;uniqueIndex;not null"`
	DisplayName string             `gorm:"column:display_name"`
	SiteRole    constants.SiteRole `gorm:"column:site_role;type:varchar(16);not null;default:USER"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Memberships []Membership `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	if u.SiteRole == "" {
		u.SiteRole = constants.SiteRoleUser
	}
	return nil
}
