package dispatcher_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/dispatcher"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/preferences"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/users"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Welcome(ctx context.Context, to email.Recipient) (string, error) {
	args := m.Called(ctx, to)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) PasswordReset(ctx context.Context, to email.Recipient, token string) (string, error) {
	args := m.Called(ctx, to, token)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) TaskReminder(ctx context.Context, to email.Recipient, task email.TaskSummary) (string, error) {
	args := m.Called(ctx, to, task)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) Digest(ctx context.Context, to email.Recipient, items []email.DigestItem) (string, error) {
	args := m.Called(ctx, to, items)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) Notification(ctx context.Context, to email.Recipient, msg email.Message) (string, error) {
	args := m.Called(ctx, to, msg)
	return args.String(0), args.Error(1)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var ann = users.User{ID: "u1", Email: "ann@example.com", Name: "Ann"}

var annRecipient = email.Recipient{Email: "ann@example.com", Name: "Ann"}

type fixture struct {
	users  *users.MemoryStore
	prefs  *preferences.MemoryStore
	mailer *MockMailer
	clock  *clock
	d      *dispatcher.Dispatcher
}

func newFixture(opts ...dispatcher.Option) *fixture {
	f := &fixture{
		users:  users.NewMemoryStore(ann),
		prefs:  preferences.NewMemoryStore(),
		mailer: new(MockMailer),
		clock:  newClock(),
	}
	opts = append([]dispatcher.Option{
		dispatcher.WithClock(f.clock.Now),
		dispatcher.WithLogger(logger.NewNop()),
	}, opts...)
	f.d = dispatcher.New(f.users, f.prefs, f.mailer, dispatcher.DefaultConfig(), opts...)
	return f
}

func (f *fixture) savePrefs(p *preferences.Preferences) {
	if err := f.prefs.Save(context.Background(), p); err != nil {
		panic(err)
	}
}

func dueSoon(taskID, title string) map[string]any {
	return map[string]any{"userId": "u1", "taskId": taskID, "title": title, "dueDate": "tomorrow"}
}
