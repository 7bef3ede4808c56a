package user

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kbukum/usermodel/observability"
)

var (
	// ErrNotFound is returned by a Repository when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned by Save when the store rejects a
	// username that is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)

// Repository stores users.
type Repository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	Save(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id int64) error
}

// MemoryRepository is a Repository backed by a map. IDs are assigned
// sequentially starting at 1.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]User), nextID: 1}
}

// FindAll returns every user ordered by id.
func (r *MemoryRepository) FindAll(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// FindByUsername matches usernames case-insensitively.
func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// Save inserts u when its ID is zero and replaces the stored user otherwise.
func (r *MemoryRepository) Save(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	} else if _, ok := r.users[u.ID]; !ok {
		return User{}, ErrNotFound
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// CheckHealth implements observability.HealthChecker.
func (r *MemoryRepository) CheckHealth(_ context.Context) observability.Health {
	r.mu.RLock()
	n := len(r.users)
	r.mu.RUnlock()

	return observability.Health{
		Name:    "user-repository",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"users": strconv.Itoa(n)},
	}
}
