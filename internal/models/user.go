package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

// User is a registered reporter or administrator. Password holds the bcrypt
// hash; services hash explicitly before constructing the record, never via a
// save hook.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"`
	FirstName   string     `gorm:"not null;size:100" json:"first_name"`
	LastName    string     `gorm:"not null;size:100" json:"last_name"`
	Phone       *string    `gorm:"size:20" json:"phone,omitempty"`
	Role        string     `gorm:"size:20;not null;default:'citizen'" json:"role"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	IsAnonymous bool       `gorm:"not null;default:false" json:"is_anonymous"`
	AvatarURL   *string    `gorm:"size:500" json:"avatar_url,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
