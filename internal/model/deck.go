package model

import (
	"time"

	"github.com/google/uuid"
)

type Deck struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Visibility  string    `gorm:"not null;default:'board';check:visibility IN ('private', 'board', 'public')"`
	Position    int       `gorm:"not null"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Board   Board `gorm:"foreignKey:BoardID"`
	Creator User  `gorm:"foreignKey:CreatedBy"`
}

// Видимость колоды
const (
	VisibilityPrivate = "private" // видна только создателю
	VisibilityBoard   = "board"   // видна участникам доски
	VisibilityPublic  = "public"  // видна всем аутентифицированным пользователям
)
