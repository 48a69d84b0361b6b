package services

import (
	"sync"
	"time"

	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
)

// DefaultRoleCacheTTL bounds how stale a cached role row can get.
const DefaultRoleCacheTTL = 30 * time.Second

type roleCacheEntry struct {
	role      *models.Role
	expiresAt time.Time
}

// RoleCache memoizes role-title lookups. Roles are seeded reference data,
// but the cache still expires entries on a short TTL so role-table changes
// are picked up without a process restart.
type RoleCache struct {
	repo repository.RoleRepository
	ttl  time.Duration

	mu      sync.Mutex
	entries map[models.RoleTitle]roleCacheEntry
}

// NewRoleCache creates a RoleCache. A non-positive ttl falls back to the default.
func NewRoleCache(repo repository.RoleRepository, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultRoleCacheTTL
	}
	return &RoleCache{
		repo:    repo,
		ttl:     ttl,
		entries: make(map[models.RoleTitle]roleCacheEntry),
	}
}

// Get returns the role row for a title, from cache when fresh.
func (c *RoleCache) Get(title models.RoleTitle) (*models.Role, error) {
	c.mu.Lock()
	entry, ok := c.entries[title]
	c.mu.Unlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.role, nil
	}

	role, err := c.repo.FindByTitle(title)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[title] = roleCacheEntry{role: role, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return role, nil
}

// Invalidate drops all cached entries.
func (c *RoleCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[models.RoleTitle]roleCacheEntry)
	c.mu.Unlock()
}
