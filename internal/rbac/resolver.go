package rbac

import (
	"context"

	"cardstack/internal/model"
	"cardstack/internal/repository"

	"github.com/google/uuid"
)

// Resolver вычисляет эффективный набор разрешений пользователя:
// объединение разрешений глобальных ролей и board-ролей членства
// (если задан контекст доски) за вычетом denylist'а пользователя.
// Только чтение, никаких мутаций.
type Resolver struct {
	users       repository.UserRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	cache       *permissionCache
}

func NewResolver(
	users repository.UserRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
) *Resolver {
	return &Resolver{
		users:       users,
		memberships: memberships,
		cache:       newPermissionCache(),
	}
}

// EffectivePermissions возвращает итоговый набор разрешений пользователя.
// boardID == nil означает глобальный контекст. Отсутствие членства на
// указанной доске не ошибка: board-шаг просто пропускается, вызов
// одинаково работает для "что может пользователь глобально" и
// "что может пользователь на этой доске".
func (r *Resolver) EffectivePermissions(ctx context.Context, userID uuid.UUID, boardID *uuid.UUID) (PermissionSet, error) {
	key := cacheKey{userID: userID}
	if boardID != nil {
		key.boardID = *boardID
	}
	if set, ok := r.cache.get(key); ok {
		return set, nil
	}

	user, err := r.users.GetWithGrants(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// Шаг 1: объединение разрешений глобальных ролей
	set := make(PermissionSet)
	for _, role := range user.GlobalRoles {
		for _, perm := range role.Permissions {
			set.Add(perm.Name)
		}
	}

	// Шаг 2: объединение разрешений board-ролей членства, если контекст задан
	if boardID != nil {
		membership, err := r.memberships.GetByBoardAndUser(ctx, *boardID, userID)
		if err != nil {
			return nil, storageFailure(err)
		}
		if membership != nil {
			for _, role := range membership.Roles {
				for _, perm := range role.Permissions {
					set.Add(perm.Name)
				}
			}
		}
	}

	// Шаг 3: вычитание denylist'а; отзыв всегда побеждает,
	// сколько бы ролей ни выдавало разрешение
	for _, perm := range user.RevokedPermissions {
		set.Remove(perm.Name)
	}

	r.cache.put(key, set)
	return set, nil
}

// IsBoardAdmin проверяет, администрирует ли пользователь доску.
// Это факт о ролях, а не о разрешениях: проверяется наличие у членства
// board-роли с административным флагом, denylist не учитывается.
func (r *Resolver) IsBoardAdmin(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	membership, err := r.memberships.GetByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		return false, storageFailure(err)
	}
	if membership == nil {
		return false, nil
	}
	return model.HasAdminRole(membership.Roles), nil
}

// InvalidateUser синхронно сбрасывает кеш пользователя во всех контекстах.
// Вызывается компонентами-мутаторами при изменении глобальных ролей,
// denylist'а или членств пользователя.
func (r *Resolver) InvalidateUser(userID uuid.UUID) {
	r.cache.invalidateUser(userID)
}

// InvalidateAll синхронно сбрасывает кеш целиком. Вызывается при
// изменениях ролей и разрешений, затрагивающих многих пользователей.
func (r *Resolver) InvalidateAll() {
	r.cache.invalidateAll()
}
