package rbac

import (
	"context"
	"errors"

	"cardstack/internal/model"
	"cardstack/internal/repository"
)

// Catalog управляет каталогом именованных разрешений
type Catalog struct {
	permissions repository.PermissionRepositoryInterface
	resolver    *Resolver
}

func NewCatalog(permissions repository.PermissionRepositoryInterface, resolver *Resolver) *Catalog {
	return &Catalog{permissions: permissions, resolver: resolver}
}

// Create создает разрешение с уникальным именем
func (c *Catalog) Create(ctx context.Context, name string) (*model.Permission, error) {
	existing, err := c.permissions.FindByName(ctx, name)
	if err != nil {
		return nil, storageFailure(err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	permission := &model.Permission{Name: name}
	if err := c.permissions.Create(ctx, permission); err != nil {
		// Гонка двух одновременных Create с одним именем: проверку выше
		// оба прошли, уникальный индекс пропустил только одного
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateName
		}
		return nil, storageFailure(err)
	}
	return permission, nil
}

// Delete удаляет разрешение по имени. Каскад убирает его из всех ролей
// и всех denylist'ов в одной транзакции: после возврата ни одной
// висячей ссылки на разрешение не остается.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	permission, err := c.permissions.FindByName(ctx, name)
	if err != nil {
		return storageFailure(err)
	}
	if permission == nil {
		return ErrNotFound
	}

	if err := c.permissions.DeleteCascade(ctx, permission.ID); err != nil {
		return storageFailure(err)
	}

	// Каскад мог затронуть роли произвольных пользователей
	c.resolver.InvalidateAll()
	return nil
}

func (c *Catalog) List(ctx context.Context) ([]model.Permission, error) {
	permissions, err := c.permissions.List(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	return permissions, nil
}

// FindByNames возвращает существующее подмножество разрешений;
// отсутствующие имена молча пропускаются. Вызывающая сторона сама
// сверяет длину результата, если ей нужны все.
func (c *Catalog) FindByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	permissions, err := c.permissions.FindByNames(ctx, names)
	if err != nil {
		return nil, storageFailure(err)
	}
	return permissions, nil
}
