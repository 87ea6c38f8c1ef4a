package preferences

import (
	"context"
	"sync"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
)

// Store reads and writes preference records. Get returns an errs.NotFound
// error when the user has no record.
type Store interface {
	Get(ctx context.Context, userID string) (*Preferences, error)
	Save(ctx context.Context, prefs *Preferences) error
}

// GetOrDefault reads prefs for userID, substituting Defaults when the record
// does not exist. Other errors are returned as is.
func GetOrDefault(ctx context.Context, s Store, userID string) (*Preferences, error) {
	p, err := s.Get(ctx, userID)
	if errs.IsNotFound(err) {
		return Defaults(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preferences
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]Preferences)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prefs[userID]
	if !ok {
		return nil, errs.NotFound("preferences.Get", ErrPreferencesNotFound)
	}
	return &p, nil
}

func (s *MemoryStore) Save(_ context.Context, prefs *Preferences) error {
	if prefs == nil || prefs.UserID == "" {
		return errs.Invalid("preferences.Save", ErrMissingUserID)
	}

	p := *prefs
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	s.prefs[p.UserID] = p
	s.mu.Unlock()
	return nil
}
