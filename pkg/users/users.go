// Package users reads the identity fields the notification pipeline needs.
// Accounts are owned by the application's user service; this package only
// looks them up.
package users

import (
	"context"
	"errors"
	"sync"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/pg"
)

var ErrUserNotFound = errors.New("users: not found")

// User is the addressable identity of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HasEmail reports whether the user can receive email.
func (u User) HasEmail() bool { return u.Email != "" }

// DisplayName returns the name, falling back to the email address.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Store looks users up by id. Missing users yield an errs.NotFound error.
type Store interface {
	Get(ctx context.Context, id string) (User, error)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryStore(users ...User) *MemoryStore {
	s := &MemoryStore{users: make(map[string]User, len(users))}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, errs.NotFound("users.Get", ErrUserNotFound)
	}
	return u, nil
}

// Put inserts or replaces u.
func (s *MemoryStore) Put(u User) {
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
}

// PostgresStore reads from the application's users table.
type PostgresStore struct {
	db pg.Querier
}

func NewPostgresStore(db pg.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id::text, email, COALESCE(name, '') FROM users WHERE id::text = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name)
	if err != nil {
		return User{}, pg.Classify("users.Get", err)
	}
	return u, nil
}
