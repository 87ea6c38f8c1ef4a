package notifications

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
)

// MemoryStorage is an in-memory Storage.
type MemoryStorage struct {
	notifications map[string][]Notification // by user id
	now           func() time.Time
	mu            sync.RWMutex
}

type MemoryStorageOption func(*MemoryStorage)

// WithStorageClock replaces time.Now for expiry checks and default timestamps.
func WithStorageClock(now func() time.Time) MemoryStorageOption {
	return func(s *MemoryStorage) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStorage(opts ...MemoryStorageOption) *MemoryStorage {
	s := &MemoryStorage{
		notifications: make(map[string][]Notification),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStorage) Create(_ context.Context, notif Notification) error {
	if notif.ID == "" {
		return errs.Invalid("notifications.Create", ErrMissingID)
	}
	if notif.UserID == "" {
		return errs.Invalid("notifications.Create", ErrMissingUserID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[notif.UserID] {
		if n.ID == notif.ID {
			return errs.Conflict("notifications.Create", ErrNotificationExists)
		}
	}
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = s.now()
	}
	notif.Data = maps.Clone(notif.Data)

	s.notifications[notif.UserID] = append(s.notifications[notif.UserID], notif)
	return nil
}

func (s *MemoryStorage) Get(_ context.Context, userID, notifID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications[userID] {
		if n.ID == notifID {
			return &n, nil
		}
	}
	return nil, errs.NotFound("notifications.Get", ErrNotificationNotFound)
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	filtered := make([]Notification, 0)
	for _, n := range s.notifications[userID] {
		switch {
		case n.ExpiredAt(now):
		case opts.OnlyUnread && n.Read:
		case len(opts.Types) > 0 && !slices.Contains(opts.Types, n.Type):
		case len(opts.EventTypes) > 0 && !slices.Contains(opts.EventTypes, n.EventType):
		case opts.Since != nil && n.CreatedAt.Before(*opts.Since):
		default:
			filtered = append(filtered, n)
		}
	}

	slices.SortStableFunc(filtered, func(a, b Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	start := min(max(opts.Offset, 0), len(filtered))
	end := len(filtered)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, end)
	}
	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	list := s.notifications[userID]
	for i := range list {
		if slices.Contains(notifIDs, list[i].ID) {
			list[i].MarkReadAt(now)
		}
	}
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := slices.DeleteFunc(s.notifications[userID], func(n Notification) bool {
		return slices.Contains(notifIDs, n.ID)
	})
	if len(list) == 0 {
		delete(s.notifications, userID)
	} else {
		s.notifications[userID] = list
	}
	return nil
}

func (s *MemoryStorage) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, list := range s.notifications {
		before := len(list)
		list = slices.DeleteFunc(list, func(n Notification) bool { return n.ExpiredAt(now) })
		removed += before - len(list)
		if len(list) == 0 {
			delete(s.notifications, userID)
		} else {
			s.notifications[userID] = list
		}
	}
	return removed, nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read && !n.ExpiredAt(now) {
			count++
		}
	}
	return count, nil
}
