package model

import (
	"time"

	"github.com/google/uuid"
)

// Role представляет именованный набор разрешений с областью действия
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Scope     string    `gorm:"not null;check:scope IN ('global', 'board')"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Permissions []Permission `gorm:"many2many:role_permissions"`
}

// Области действия ролей
const (
	ScopeGlobal = "global" // роль действует везде
	ScopeBoard  = "board"  // роль действует только внутри членства на доске
)

// ValidScope reports whether s is one of the recognized role scopes.
func ValidScope(s string) bool {
	return s == ScopeGlobal || s == ScopeBoard
}

// Встроенные роли, создаются сидом миграции
const (
	RoleSuperadmin  = "superadmin"
	RoleBoardAdmin  = "board-admin"
	RoleBoardMember = "board-member"
)

// HasAdminRole reports whether any of the roles is a board-scoped admin role.
func HasAdminRole(roles []Role) bool {
	for _, r := range roles {
		if r.Scope == ScopeBoard && r.IsAdmin {
			return true
		}
	}
	return false
}
