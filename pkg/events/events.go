// Package events holds the event type taxonomy shared by every publisher and
// subscriber. Renaming a constant here is a breaking change on the wire.
package events

import (
	"regexp"
	"strings"
)

// Type is a dot-namespaced event name such as "task.created".
type Type = string

const (
	UserRegistered      Type = "user.registered"
	UserUpdated         Type = "user.updated"
	UserPasswordChanged Type = "user.password_changed"
	UserLoginSuccess    Type = "user.login_success"
	UserLoginFailed     Type = "user.login_failed"
)

const (
	TaskCreated   Type = "task.created"
	TaskUpdated   Type = "task.updated"
	TaskCompleted Type = "task.completed"
	TaskDeleted   Type = "task.deleted"
	TaskDueSoon   Type = "task.due_soon"
)

const (
	AuthPasswordResetRequested Type = "auth.password_reset_requested"
	AuthPasswordChanged        Type = "auth.password_changed"
	AuthNewLogin               Type = "auth.new_login"
	AuthSuspiciousLogin        Type = "auth.suspicious_login_attempt"
)

const (
	SystemError       Type = "system.error"
	SystemStartup     Type = "system.startup"
	SystemShutdown    Type = "system.shutdown"
	SystemHealthCheck Type = "system.health_check"
)

// Domains of the taxonomy.
const (
	DomainUser   = "user"
	DomainTask   = "task"
	DomainAuth   = "auth"
	DomainSystem = "system"
)

// Payload keys understood by the notification pipeline.
const (
	KeyUserID     = "userId"
	KeyTaskID     = "taskId"
	KeyTitle      = "title"
	KeyDueDate    = "dueDate"
	KeyResetToken = "resetToken"
	KeyMessage    = "message"
	KeyIP         = "ip"
	KeyForceStore = "forceStore"
	KeyEmail      = "email"
	KeyName       = "name"
)

var namePattern = regexp.MustCompile(`^[a-z]+(\.[a-z][a-z_]*)+$`)

// Valid reports whether t is a well-formed event name.
func Valid(t string) bool {
	return namePattern.MatchString(t)
}

// Domain returns the first segment of t ("task" for "task.created").
func Domain(t string) string {
	domain, _, _ := strings.Cut(t, ".")
	return domain
}

// Action returns everything after the domain ("due_soon" for "task.due_soon").
func Action(t string) string {
	_, action, _ := strings.Cut(t, ".")
	return action
}

// ChannelName translates t to the live-push delimiter convention:
// "task.created" becomes "task:created".
func ChannelName(t string) string {
	return strings.ReplaceAll(t, ".", ":")
}

// Known lists the whole taxonomy.
func Known() []Type {
	return []Type{
		UserRegistered, UserUpdated, UserPasswordChanged, UserLoginSuccess, UserLoginFailed,
		TaskCreated, TaskUpdated, TaskCompleted, TaskDeleted, TaskDueSoon,
		AuthPasswordResetRequested, AuthPasswordChanged, AuthNewLogin, AuthSuspiciousLogin,
		SystemError, SystemStartup, SystemShutdown, SystemHealthCheck,
	}
}

// UserID extracts the target user id from a payload, if present.
func UserID(payload map[string]any) (string, bool) {
	return String(payload, KeyUserID)
}

// String returns payload[key] when it is a non-empty string.
func String(payload map[string]any, key string) (string, bool) {
	if payload == nil {
		return "", false
	}
	s, ok := payload[key].(string)
	return s, ok && s != ""
}
