package dispatcher

import (
	"context"
	"fmt"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/notifications"
)

// Mailer is the email transport the dispatcher sends through.
// *email.Transport implements it.
type Mailer interface {
	Welcome(ctx context.Context, to email.Recipient) (string, error)
	PasswordReset(ctx context.Context, to email.Recipient, token string) (string, error)
	TaskReminder(ctx context.Context, to email.Recipient, task email.TaskSummary) (string, error)
	Digest(ctx context.Context, to email.Recipient, items []email.DigestItem) (string, error)
	Notification(ctx context.Context, to email.Recipient, msg email.Message) (string, error)
}

// SendFunc sends the email for one event and returns the delivery id.
type SendFunc func(ctx context.Context, m Mailer, to email.Recipient, eventType string, data map[string]any) (string, error)

type handler struct {
	send      SendFunc
	immediate bool
}

func defaultHandlers() map[string]handler {
	return map[string]handler{
		events.UserRegistered:             {send: sendWelcome, immediate: true},
		events.AuthPasswordResetRequested: {send: sendPasswordReset, immediate: true},
		events.UserPasswordChanged:        {send: sendNotification, immediate: true},
		events.AuthPasswordChanged:        {send: sendNotification, immediate: true},
		events.AuthNewLogin:               {send: sendNotification, immediate: true},
		events.AuthSuspiciousLogin:        {send: sendNotification, immediate: true},
		events.TaskDueSoon:                {send: sendTaskReminder},
		events.TaskCompleted:              {send: sendNotification},
	}
}

func sendWelcome(ctx context.Context, m Mailer, to email.Recipient, _ string, _ map[string]any) (string, error) {
	return m.Welcome(ctx, to)
}

func sendPasswordReset(ctx context.Context, m Mailer, to email.Recipient, _ string, data map[string]any) (string, error) {
	token, ok := events.String(data, events.KeyResetToken)
	if !ok {
		return "", fmt.Errorf("%w: %s payload has no %s", email.ErrInvalidParams, events.AuthPasswordResetRequested, events.KeyResetToken)
	}
	return m.PasswordReset(ctx, to, token)
}

func sendTaskReminder(ctx context.Context, m Mailer, to email.Recipient, _ string, data map[string]any) (string, error) {
	task := email.TaskSummary{}
	task.ID, _ = events.String(data, events.KeyTaskID)
	task.Title, _ = events.String(data, events.KeyTitle)
	task.DueDate, _ = events.String(data, events.KeyDueDate)
	return m.TaskReminder(ctx, to, task)
}

func sendNotification(ctx context.Context, m Mailer, to email.Recipient, eventType string, data map[string]any) (string, error) {
	c := notifications.ContentFor(eventType, data)
	msg := email.Message{
		Subject: c.Title,
		Title:   c.Title,
		Body:    c.Message,
		Tag:     events.Domain(eventType),
	}
	if ip, ok := events.String(data, events.KeyIP); ok {
		msg.Details = append(msg.Details, "IP address: "+ip)
	}
	return m.Notification(ctx, to, msg)
}

// digestItem summarises a queued entry the way the notification center does.
func digestItem(e QueueEntry) email.DigestItem {
	c := notifications.ContentFor(e.Type, e.Data)
	return email.DigestItem{
		Title:   c.Title,
		Message: c.Message,
		At:      e.Timestamp.UTC().Format("Jan 2, 15:04 MST"),
	}
}
