package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Role      string `gorm:"size:20;default:'user';not null" json:"role"`
	Bio       string `gorm:"type:text" json:"bio"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Superuser bool   `gorm:"default:false" json:"-"`

	// bcrypt hash of the outstanding confirmation code; cleared once a token
	// has been issued so each code is single-use
	ConfirmationHash string `gorm:"column:confirmation_hash" json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Superuser
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
