// Package persistence implements the user repository for each store driver.
package persistence

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
)

type userRecord struct {
	id        types.UserID
	email     domain.Email
	name      domain.Name
	phone     domain.Phone
	role      domain.Role
	status    domain.Status
	createdAt time.Time
	updatedAt time.Time
}

func (rec userRecord) user() *domain.User {
	return domain.Reconstitute(rec.id, rec.email, rec.name, rec.phone, rec.role, rec.status, rec.createdAt, rec.updatedAt)
}

func (rec userRecord) live() bool { return rec.status != domain.StatusDeleted }

// InMemoryRepository implements UserRepository in process memory.
// Users are stored by value so loaded aggregates never alias stored state.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]userRecord
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users: make(map[string]userRecord),
	}
}

// Compile-time interface check.
var _ domain.UserRepository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID().String()] = userRecord{
		id:        user.ID(),
		email:     user.Email(),
		name:      user.Name(),
		phone:     user.Phone(),
		role:      user.Role(),
		status:    user.Status(),
		createdAt: user.CreatedAt(),
		updatedAt: user.UpdatedAt(),
	}
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id types.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id.String()]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return rec.user(), nil
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if rec.live() && rec.email.Equals(email) {
			return rec.user(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryRepository) FindAll(ctx context.Context, offset, limit int) ([]*domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var live []userRecord
	for _, rec := range r.users {
		if rec.live() {
			live = append(live, rec)
		}
	}
	slices.SortFunc(live, func(a, b userRecord) int {
		if c := b.createdAt.Compare(a.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})

	total := len(live)
	if offset >= total {
		return []*domain.User{}, total, nil
	}
	end := min(offset+limit, total)

	users := make([]*domain.User, 0, end-offset)
	for _, rec := range live[offset:end] {
		users = append(users, rec.user())
	}
	return users, total, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, rec := range r.users {
		if rec.live() {
			n++
		}
	}
	return n, nil
}
