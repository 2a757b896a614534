package cache

import (
	"strings"
	"sync"

	"labdesk/models"
)

// UserCache holds users resolved at login and by session lookups. Keys are
// case-folded usernames, matching the case-insensitive login.
type UserCache struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserCache() *UserCache {
	return &UserCache{users: make(map[string]models.User)}
}

func userKey(username string) string { return strings.ToLower(strings.TrimSpace(username)) }

func (c *UserCache) Add(username string, user models.User) {
	c.mu.Lock()
	c.users[userKey(username)] = user
	c.mu.Unlock()
}

func (c *UserCache) Get(username string) (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	user, ok := c.users[userKey(username)]
	return user, ok
}

// Remove drops a user after an admin edit so the next request reloads the
// role and department from sqlite.
func (c *UserCache) Remove(username string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.users, userKey(username))
	c.mu.Unlock()
}
