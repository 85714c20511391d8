package repository

import (
	"context"
	"errors"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

type RoleRepositoryInterface interface {
	CreateWithGrants(ctx context.Context, role *model.Role, grantUserIDs []uuid.UUID) error
	FindByName(ctx context.Context, name string) (*model.Role, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Role, error)
	List(ctx context.Context, scope string) ([]model.Role, error)
	Update(ctx context.Context, role *model.Role, permissions *[]model.Permission) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	ListUserIDsWithRole(ctx context.Context, roleName string) ([]uuid.UUID, error)
}

var _ RoleRepositoryInterface = (*RoleRepository)(nil)

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// CreateWithGrants создает роль и в той же транзакции добавляет ее
// в глобальные наборы ролей перечисленных пользователей
func (r *RoleRepository) CreateWithGrants(ctx context.Context, role *model.Role, grantUserIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateKey
			}
			return err
		}
		for _, userID := range grantUserIDs {
			err := tx.Exec(
				"INSERT INTO user_global_roles (user_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				userID, role.ID,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("id = ?", id).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByIDs возвращает существующие роли по списку ID, неизвестные ID молча пропускаются
func (r *RoleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

// List возвращает роли, опционально отфильтрованные по области действия
func (r *RoleRepository) List(ctx context.Context, scope string) ([]model.Role, error) {
	var roles []model.Role
	query := r.db.WithContext(ctx).Preload("Permissions").Order("name")
	if scope != "" {
		query = query.Where("scope = ?", scope)
	}
	err := query.Find(&roles).Error
	return roles, err
}

// Update сохраняет роль; если permissions не nil, набор разрешений полностью заменяется
func (r *RoleRepository) Update(ctx context.Context, role *model.Role, permissions *[]model.Permission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Save(role).Error; err != nil {
			return err
		}
		if permissions != nil {
			if err := tx.Model(role).Association("Permissions").Replace(*permissions); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCascade удаляет роль вместе со всеми ссылками на нее:
// из глобальных наборов пользователей, из членств на досках
// и из таблицы связей с разрешениями. Либо удаляется все, либо ничего.
func (r *RoleRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_global_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM membership_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Role{}, "id = ?", id).Error
	})
}

// ListUserIDsWithRole возвращает ID всех пользователей, у которых
// роль с данным именем есть в глобальном наборе
func (r *RoleRepository) ListUserIDsWithRole(ctx context.Context, roleName string) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("user_global_roles").
		Joins("JOIN roles ON roles.id = user_global_roles.role_id").
		Where("roles.name = ?", roleName).
		Pluck("user_global_roles.user_id", &userIDs).Error
	return userIDs, err
}
