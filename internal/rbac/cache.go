package rbac

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Допустимая несвежесть кеша. Инвалидация при мутациях происходит
// синхронно, TTL — подстраховка на случай внешних изменений хранилища.
const cacheTTL = 30 * time.Second

type cacheKey struct {
	userID  uuid.UUID
	boardID uuid.UUID // uuid.Nil для глобального контекста
}

type cacheEntry struct {
	set      PermissionSet
	storedAt time.Time
}

// permissionCache хранит вычисленные эффективные наборы разрешений
// по ключу (userID, boardID|nil)
type permissionCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
}

func newPermissionCache() *permissionCache {
	return &permissionCache{entries: make(map[cacheKey]cacheEntry)}
}

// get отдает копию записи: вызывающая сторона вольна мутировать
// полученное множество, не трогая кеш других читателей того же ключа
func (c *permissionCache) get(key cacheKey) (PermissionSet, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Since(entry.storedAt) > cacheTTL {
		return nil, false
	}
	return entry.set.Clone(), true
}

func (c *permissionCache) put(key cacheKey, set PermissionSet) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{set: set.Clone(), storedAt: time.Now()}
	c.mu.Unlock()
}

// invalidateUser удаляет все записи пользователя во всех контекстах
func (c *permissionCache) invalidateUser(userID uuid.UUID) {
	c.mu.Lock()
	for key := range c.entries {
		if key.userID == userID {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// invalidateAll сбрасывает кеш целиком; используется при изменениях
// ролей и разрешений, затрагивающих неизвестное множество пользователей
func (c *permissionCache) invalidateAll() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry)
	c.mu.Unlock()
}
