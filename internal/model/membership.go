package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership представляет связь между пользователем и доской
// с набором board-ролей и непрозрачным состоянием карт участника.
// Инвариант: не более одной записи на пару (BoardID, UserID).
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_board_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_board_user"`
	CardState string    `gorm:"type:jsonb;default:'{}'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board  `gorm:"foreignKey:BoardID"`
	User  User   `gorm:"foreignKey:UserID"`
	Roles []Role `gorm:"many2many:membership_roles"`
}
