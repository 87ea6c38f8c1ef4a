package email

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email/templates"
)

// Recipient is the addressee of a transport email.
type Recipient struct {
	Email string
	Name  string
}

func (r Recipient) displayName() string {
	if r.Name != "" {
		return r.Name
	}
	if at := strings.IndexByte(r.Email, '@'); at > 0 {
		return r.Email[:at]
	}
	return "there"
}

// TaskSummary is what a task reminder shows.
type TaskSummary struct {
	ID      string
	Title   string
	DueDate string
}

// DigestItem is one queued notification summarised in a digest.
type DigestItem struct {
	Title   string
	Message string
	At      string
}

// Message is a generic notification email.
type Message struct {
	Subject string
	Title   string
	Body    string
	Details []string
	Tag     string
}

// Transport renders and sends the notification emails.
type Transport struct {
	sender         EmailSender
	brand          templates.Brand
	digestMaxItems int
}

type TransportOption func(*Transport)

func WithAppName(name string) TransportOption {
	return func(t *Transport) {
		if name != "" {
			t.brand.AppName = name
		}
	}
}

func WithAppURL(u string) TransportOption {
	return func(t *Transport) {
		if u != "" {
			t.brand.AppURL = strings.TrimRight(u, "/")
		}
	}
}

// WithDigestMaxItems caps the items listed in a digest. The rest are
// summarised as a count.
func WithDigestMaxItems(n int) TransportOption {
	return func(t *Transport) {
		if n > 0 {
			t.digestMaxItems = n
		}
	}
}

func NewTransport(sender EmailSender, opts ...TransportOption) *Transport {
	if sender == nil {
		panic("email: NewTransport called with nil sender")
	}
	t := &Transport{
		sender:         sender,
		brand:          templates.Brand{AppName: "TaskMaster", AppURL: "http://localhost:3000"},
		digestMaxItems: 20,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DigestMaxItems returns the digest cap.
func (t *Transport) DigestMaxItems() int { return t.digestMaxItems }

func (t *Transport) Welcome(ctx context.Context, to Recipient) (string, error) {
	return t.send(ctx, to, "Welcome to "+t.brand.AppName, "welcome",
		templates.Welcome(templates.WelcomeData{Brand: t.brand, Name: to.displayName()}))
}

func (t *Transport) PasswordReset(ctx context.Context, to Recipient, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: reset token is required", ErrInvalidParams)
	}
	resetURL := t.brand.AppURL + "/reset-password?token=" + url.QueryEscape(token)
	return t.send(ctx, to, "Reset your password", "password-reset",
		templates.PasswordReset(templates.PasswordResetData{Brand: t.brand, Name: to.displayName(), ResetURL: resetURL}))
}

func (t *Transport) TaskReminder(ctx context.Context, to Recipient, task TaskSummary) (string, error) {
	title := task.Title
	if title == "" {
		title = "Your task"
	}
	taskURL := t.brand.AppURL + "/tasks"
	if task.ID != "" {
		taskURL += "/" + url.PathEscape(task.ID)
	}
	return t.send(ctx, to, "Reminder: "+title, "task-reminder",
		templates.TaskReminder(templates.TaskReminderData{
			Brand: t.brand, Name: to.displayName(), TaskTitle: title, DueDate: task.DueDate, TaskURL: taskURL,
		}))
}

// Digest sends one summary of items, listing at most DigestMaxItems of them.
func (t *Transport) Digest(ctx context.Context, to Recipient, items []DigestItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("%w: digest has no items", ErrInvalidParams)
	}

	shown := items
	if len(shown) > t.digestMaxItems {
		shown = shown[:t.digestMaxItems]
	}
	data := templates.DigestData{Brand: t.brand, Name: to.displayName(), Remaining: len(items) - len(shown)}
	for _, it := range shown {
		data.Items = append(data.Items, templates.DigestItem(it))
	}

	subject := fmt.Sprintf("%d new notifications", len(items))
	if len(items) == 1 {
		subject = "1 new notification"
	}
	return t.send(ctx, to, subject, "digest", templates.Digest(data))
}

func (t *Transport) Notification(ctx context.Context, to Recipient, msg Message) (string, error) {
	tag := msg.Tag
	if tag == "" {
		tag = "notification"
	}
	title := msg.Title
	if title == "" {
		title = msg.Subject
	}
	return t.send(ctx, to, msg.Subject, tag, templates.Notification(templates.NotificationData{
		Brand: t.brand, Name: to.displayName(), Title: title, Message: msg.Body, Details: msg.Details,
	}))
}

func (t *Transport) send(ctx context.Context, to Recipient, subject, tag string, body templ.Component) (string, error) {
	html, err := templates.Render(ctx, body)
	if err != nil {
		return "", errors.Join(ErrFailedToRender, err)
	}
	return t.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to.Email,
		Subject:  subject,
		BodyHTML: html,
		Tag:      tag,
	})
}
