package repository

import (
	"context"
	"errors"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

type PermissionRepositoryInterface interface {
	Create(ctx context.Context, permission *model.Permission) error
	FindByName(ctx context.Context, name string) (*model.Permission, error)
	FindByNames(ctx context.Context, names []string) ([]model.Permission, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error)
	List(ctx context.Context) ([]model.Permission, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

var _ PermissionRepositoryInterface = (*PermissionRepository)(nil)

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(ctx context.Context, permission *model.Permission) error {
	err := r.db.WithContext(ctx).Create(permission).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *PermissionRepository) FindByName(ctx context.Context, name string) (*model.Permission, error) {
	var permission model.Permission
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

// FindByNames возвращает существующие разрешения из списка имен,
// отсутствующие имена молча пропускаются
func (r *PermissionRepository) FindByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&permissions).Error
	return permissions, err
}

// GetByIDs возвращает существующие разрешения по списку ID,
// неизвестные ID молча пропускаются
func (r *PermissionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&permissions).Error
	return permissions, err
}

func (r *PermissionRepository) List(ctx context.Context) ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.WithContext(ctx).Order("name").Find(&permissions).Error
	return permissions, err
}

// DeleteCascade удаляет разрешение вместе со всеми ссылками на него:
// из наборов разрешений ролей и из denylist'ов пользователей.
// Либо удаляется все, либо ничего.
func (r *PermissionRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_revoked_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Permission{}, "id = ?", id).Error
	})
}
