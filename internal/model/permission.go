package model

import (
	"time"

	"github.com/google/uuid"
)

// Permission представляет именованную возможность вида DOMAIN:RESOURCE:ACTION
type Permission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Встроенные разрешения, создаются сидом миграции
const (
	PermBoardsView          = "API:BOARDS:VIEW"
	PermBoardsEdit          = "API:BOARDS:EDIT"
	PermBoardsManageMembers = "API:BOARDS:MANAGE_MEMBERS"
	PermDecksView           = "API:DECKS:VIEW"
	PermDecksEdit           = "API:DECKS:EDIT"
	PermCardsView           = "API:CARDS:VIEW"
	PermCardsEdit           = "API:CARDS:EDIT"
	PermRolesManage         = "API:ROLES:MANAGE"
	PermPermissionsManage   = "API:PERMISSIONS:MANAGE"
	PermUsersManage         = "API:USERS:MANAGE"
)
