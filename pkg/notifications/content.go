package notifications

import (
	"fmt"
	"strings"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
)

// Content is the user-facing part of a notification derived from an event.
type Content struct {
	Type     Type
	Priority Priority
	Title    string
	Message  string
}

// ContentFor derives the notification text for eventType from its payload.
func ContentFor(eventType string, payload map[string]any) Content {
	task, _ := events.String(payload, events.KeyTitle)
	if task == "" {
		task = "A task"
	} else {
		task = fmt.Sprintf("%q", task)
	}
	msg, _ := events.String(payload, events.KeyMessage)

	switch eventType {
	case events.TaskCreated:
		return Content{TypeInfo, PriorityNormal, "Task created", task + " was added to your list."}
	case events.TaskUpdated:
		return Content{TypeInfo, PriorityLow, "Task updated", task + " was updated."}
	case events.TaskCompleted:
		return Content{TypeSuccess, PriorityNormal, "Task completed", task + " is done."}
	case events.TaskDeleted:
		return Content{TypeInfo, PriorityLow, "Task deleted", task + " was removed."}
	case events.TaskDueSoon:
		due, _ := events.String(payload, events.KeyDueDate)
		text := task + " is due soon."
		if due != "" {
			text = fmt.Sprintf("%s is due %s.", task, due)
		}
		return Content{TypeWarning, PriorityHigh, "Task due soon", text}
	case events.UserRegistered:
		return Content{TypeSuccess, PriorityNormal, "Welcome to TaskMaster", "Your account is ready."}
	case events.UserPasswordChanged, events.AuthPasswordChanged:
		return Content{TypeWarning, PriorityHigh, "Password changed", "Your password was changed. Contact support if this wasn't you."}
	case events.AuthPasswordResetRequested:
		return Content{TypeInfo, PriorityHigh, "Password reset requested", "Check your email for a reset link."}
	case events.AuthNewLogin:
		return Content{TypeInfo, PriorityNormal, "New sign-in", withIP("A new sign-in to your account", payload)}
	case events.AuthSuspiciousLogin:
		return Content{TypeError, PriorityUrgent, "Suspicious sign-in attempt", withIP("We blocked a suspicious sign-in attempt", payload)}
	}

	if events.Domain(eventType) == events.DomainSystem {
		if msg == "" {
			msg = humanize(events.Action(eventType))
		}
		return Content{TypeInfo, PriorityNormal, "System notice", msg}
	}

	if msg == "" {
		msg = humanize(eventType)
	}
	return Content{TypeInfo, PriorityNormal, humanize(events.Action(eventType)), msg}
}

func withIP(text string, payload map[string]any) string {
	if ip, ok := events.String(payload, events.KeyIP); ok {
		return fmt.Sprintf("%s from %s.", text, ip)
	}
	return text + "."
}

func humanize(s string) string {
	s = strings.NewReplacer(".", " ", "_", " ").Replace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
