package userRepo

import (
	"context"
	"sort"
	"sync"

	"kommunity/models"
)

// MemoryUserRepo serves a fixed roster, used in development and tests.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepo(users ...models.User) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]models.User, len(users))}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

// Put adds or replaces a user.
func (r *MemoryUserRepo) Put(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Username] = u
}

func (r *MemoryUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepo) GetAllByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.User{}
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
