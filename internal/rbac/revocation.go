package rbac

import (
	"context"

	"cardstack/internal/model"
	"cardstack/internal/repository"

	"github.com/google/uuid"
)

// Revocations управляет персональными denylist'ами разрешений.
// Отозванное разрешение вычитается из эффективного набора независимо
// от того, сколько ролей его выдает.
type Revocations struct {
	users       repository.UserRepositoryInterface
	permissions repository.PermissionRepositoryInterface
	revocations repository.RevocationRepositoryInterface
	resolver    *Resolver
}

func NewRevocations(
	users repository.UserRepositoryInterface,
	permissions repository.PermissionRepositoryInterface,
	revocations repository.RevocationRepositoryInterface,
	resolver *Resolver,
) *Revocations {
	return &Revocations{
		users:       users,
		permissions: permissions,
		revocations: revocations,
		resolver:    resolver,
	}
}

// Add добавляет разрешения в denylist пользователя
func (s *Revocations) Add(ctx context.Context, userID uuid.UUID, permissionIDs []uuid.UUID) error {
	return s.mutate(ctx, userID, permissionIDs, s.revocations.Add)
}

// Set полностью заменяет denylist пользователя
func (s *Revocations) Set(ctx context.Context, userID uuid.UUID, permissionIDs []uuid.UUID) error {
	return s.mutate(ctx, userID, permissionIDs, s.revocations.Set)
}

// Remove убирает разрешения из denylist пользователя
func (s *Revocations) Remove(ctx context.Context, userID uuid.UUID, permissionIDs []uuid.UUID) error {
	return s.mutate(ctx, userID, permissionIDs, s.revocations.Remove)
}

// Get возвращает имена отозванных у пользователя разрешений
func (s *Revocations) Get(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	permissions, err := s.revocations.Get(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}
	names := make([]string, len(permissions))
	for i, perm := range permissions {
		names[i] = perm.Name
	}
	return names, nil
}

func (s *Revocations) mutate(
	ctx context.Context,
	userID uuid.UUID,
	permissionIDs []uuid.UUID,
	op func(context.Context, uuid.UUID, []model.Permission) error,
) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storageFailure(err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	// Неизвестные ID разрешений молча пропускаются
	permissions, err := s.permissions.GetByIDs(ctx, permissionIDs)
	if err != nil {
		return storageFailure(err)
	}

	if err := op(ctx, userID, permissions); err != nil {
		return storageFailure(err)
	}

	s.resolver.InvalidateUser(userID)
	return nil
}
