package model

import (
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	InviteCode  string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Memberships []Membership `gorm:"foreignKey:BoardID"`
}
