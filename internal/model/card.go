package model

import (
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	DeckID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title      string     `gorm:"not null"`
	Content    string
	Position   int        `gorm:"not null"`
	DueDate    *time.Time
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	AssignedTo *uuid.UUID `gorm:"type:uuid"`

	Deck     Deck `gorm:"foreignKey:DeckID"`
	Creator  User `gorm:"foreignKey:CreatedBy"`
	Assignee User `gorm:"foreignKey:AssignedTo"`
}
