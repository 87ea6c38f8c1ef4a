package main

import (
	"context"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/eventbus"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/users"
)

// directory keeps the in-memory user store in step with account events. It
// runs as middleware so the users exist before any subscriber looks them up.
func directory(store *users.MemoryStore) eventbus.Middleware {
	return func(_ context.Context, ev eventbus.Event) (eventbus.Event, error) {
		if ev.Type != events.UserRegistered && ev.Type != events.UserUpdated {
			return ev, nil
		}
		id, ok := ev.UserID()
		if !ok {
			return ev, nil
		}
		addr := ev.String(events.KeyEmail)
		if addr == "" {
			return ev, nil
		}
		store.Put(users.User{ID: id, Email: addr, Name: ev.String(events.KeyName)})
		return ev, nil
	}
}

// loginFailuresOnly limits user.login_failed per user and lets everything
// else through.
func loginFailuresOnly(ev eventbus.Event) string {
	if ev.Type != events.UserLoginFailed {
		return ""
	}
	return eventbus.ByUserAndType(ev)
}
