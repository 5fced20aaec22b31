package gorm

import (
	"time"

	"gorm.io/gorm"
)

type Club struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;not null"`
	IsPrivate bool      `gorm:"column:is_private;not null;default:false"`
	CreatorID string    `gorm:"column:creator_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Creator User `gorm:"foreignKey:CreatorID"`
}

func (Club) TableName() string {
	return "clubs"
}

func (c *Club) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
