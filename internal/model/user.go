package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognized by the authorization middleware.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User stores terminal operators.
// Role: "admin" | "staff"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
