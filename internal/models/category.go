package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category classifies incidents. Categories are never hard-deleted; IsActive
// is the only removal mechanism, so names stay unique across inactive rows too.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100;uniqueIndex" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Icon        string    `gorm:"not null;size:50;default:'alert-circle'" json:"icon"`
	Color       string    `gorm:"not null;size:20;default:'#FF5722'" json:"color"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Order       int       `gorm:"column:display_order;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Category) TableName() string {
	return "categories"
}
