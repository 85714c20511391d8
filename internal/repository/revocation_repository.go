package repository

import (
	"context"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevocationRepository struct {
	db *gorm.DB
}

type RevocationRepositoryInterface interface {
	Add(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error
	Set(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error
	Remove(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error
	Get(ctx context.Context, userID uuid.UUID) ([]model.Permission, error)
}

var _ RevocationRepositoryInterface = (*RevocationRepository)(nil)

func NewRevocationRepository(db *gorm.DB) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// Add добавляет разрешения в denylist пользователя
func (r *RevocationRepository) Add(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error {
	user := model.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("RevokedPermissions").Append(permissions)
}

// Set полностью заменяет denylist пользователя
func (r *RevocationRepository) Set(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error {
	user := model.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("RevokedPermissions").Replace(permissions)
}

// Remove убирает разрешения из denylist пользователя
func (r *RevocationRepository) Remove(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error {
	user := model.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("RevokedPermissions").Delete(permissions)
}

func (r *RevocationRepository) Get(ctx context.Context, userID uuid.UUID) ([]model.Permission, error) {
	var permissions []model.Permission
	user := model.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&user).Association("RevokedPermissions").Find(&permissions)
	return permissions, err
}
