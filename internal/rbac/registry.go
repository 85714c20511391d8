package rbac

import (
	"context"
	"errors"

	"cardstack/internal/model"
	"cardstack/internal/repository"

	"github.com/google/uuid"
)

// Registry управляет реестром ролей
type Registry struct {
	roles       repository.RoleRepositoryInterface
	permissions repository.PermissionRepositoryInterface
	resolver    *Resolver
}

func NewRegistry(
	roles repository.RoleRepositoryInterface,
	permissions repository.PermissionRepositoryInterface,
	resolver *Resolver,
) *Registry {
	return &Registry{roles: roles, permissions: permissions, resolver: resolver}
}

// RoleUpdate перечисляет изменяемые поля роли; nil-поле остается без изменений
type RoleUpdate struct {
	Name          *string
	Scope         *string
	PermissionIDs *[]uuid.UUID
}

// RoleFilter задает фильтр для списка ролей.
// Scope: "" — все роли, иначе только роли с указанной областью действия.
type RoleFilter struct {
	Scope string
}

// Create создает роль. Намеренный побочный эффект: новая роль сразу
// добавляется в глобальные наборы всех суперадминистраторов и создателя,
// чтобы они гарантированно могли управлять только что введенной ролью.
// Board-роли при этом не добавляются ни в одно членство: вне членства
// board-роль ничего не значит.
func (r *Registry) Create(ctx context.Context, creatorID uuid.UUID, name, scope string, permissionIDs []uuid.UUID) (*model.Role, error) {
	if !model.ValidScope(scope) {
		return nil, ErrInvalidScope
	}

	existing, err := r.roles.FindByName(ctx, name)
	if err != nil {
		return nil, storageFailure(err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	// Неизвестные ID разрешений молча пропускаются
	permissions, err := r.permissions.GetByIDs(ctx, permissionIDs)
	if err != nil {
		return nil, storageFailure(err)
	}

	superadmins, err := r.roles.ListUserIDsWithRole(ctx, model.RoleSuperadmin)
	if err != nil {
		return nil, storageFailure(err)
	}
	grantees := superadmins
	if !containsID(grantees, creatorID) {
		grantees = append(grantees, creatorID)
	}

	role := &model.Role{
		Name:        name,
		Scope:       scope,
		Permissions: permissions,
	}
	if err := r.roles.CreateWithGrants(ctx, role, grantees); err != nil {
		// Гонка двух одновременных Create с одним именем
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateName
		}
		return nil, storageFailure(err)
	}

	for _, userID := range grantees {
		r.resolver.InvalidateUser(userID)
	}
	return role, nil
}

// Update изменяет роль; nil-поля RoleUpdate остаются нетронутыми
func (r *Registry) Update(ctx context.Context, roleID uuid.UUID, update RoleUpdate) (*model.Role, error) {
	role, err := r.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, storageFailure(err)
	}
	if role == nil {
		return nil, ErrNotFound
	}

	if update.Name != nil {
		role.Name = *update.Name
	}
	if update.Scope != nil {
		if !model.ValidScope(*update.Scope) {
			return nil, ErrInvalidScope
		}
		role.Scope = *update.Scope
	}

	var permissions *[]model.Permission
	if update.PermissionIDs != nil {
		found, err := r.permissions.GetByIDs(ctx, *update.PermissionIDs)
		if err != nil {
			return nil, storageFailure(err)
		}
		permissions = &found
		role.Permissions = found
	}

	if err := r.roles.Update(ctx, role, permissions); err != nil {
		return nil, storageFailure(err)
	}

	// Роль могла входить в наборы произвольных пользователей и членств
	r.resolver.InvalidateAll()
	return role, nil
}

// Delete удаляет роль. Каскад убирает ее из глобальных наборов всех
// пользователей и из всех членств в одной транзакции.
func (r *Registry) Delete(ctx context.Context, roleID uuid.UUID) error {
	role, err := r.roles.GetByID(ctx, roleID)
	if err != nil {
		return storageFailure(err)
	}
	if role == nil {
		return ErrNotFound
	}

	if err := r.roles.DeleteCascade(ctx, roleID); err != nil {
		return storageFailure(err)
	}

	r.resolver.InvalidateAll()
	return nil
}

// GetByIDs возвращает роли по списку ID, неизвестные ID молча пропускаются
func (r *Registry) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Role, error) {
	roles, err := r.roles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storageFailure(err)
	}
	return roles, nil
}

func (r *Registry) List(ctx context.Context, filter RoleFilter) ([]model.Role, error) {
	if filter.Scope != "" && !model.ValidScope(filter.Scope) {
		return nil, ErrInvalidScope
	}
	roles, err := r.roles.List(ctx, filter.Scope)
	if err != nil {
		return nil, storageFailure(err)
	}
	return roles, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
