package rbac

import (
	"errors"
	"fmt"
)

// Доменные виды ошибок RBAC-ядра. Транспортный слой сопоставляет
// их со статусами ответов, само ядро никаких статусов не знает.
var (
	// ErrNotFound is returned when a referenced role, permission, board or membership does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned on a role or permission name collision
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidScope is returned when a role scope is outside {global, board}
	ErrInvalidScope = errors.New("invalid role scope")

	// ErrInvalidCode is returned when a presented invite code does not match the current one
	ErrInvalidCode = errors.New("invalid invite code")

	// ErrLastAdminProtected is returned when a removal would leave a board without an admin
	ErrLastAdminProtected = errors.New("board must retain at least one admin")

	// ErrUserNotFound is returned when an operation references a nonexistent user
	ErrUserNotFound = errors.New("user not found")

	// ErrStorageFailure wraps persistence errors; never reported as partial success
	ErrStorageFailure = errors.New("storage failure")
)

// storageFailure оборачивает ошибку хранилища, сохраняя ее для errors.Is/As
func storageFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}
