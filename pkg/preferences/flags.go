package preferences

import "github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"

// Flag identifies one per-channel, per-event switch of Preferences.
type Flag string

const (
	FlagEmailTaskCreated    Flag = "emailTaskCreated"
	FlagEmailTaskUpdated    Flag = "emailTaskUpdated"
	FlagEmailTaskCompleted  Flag = "emailTaskCompleted"
	FlagEmailTaskDeleted    Flag = "emailTaskDeleted"
	FlagEmailTaskDueSoon    Flag = "emailTaskDueSoon"
	FlagEmailAccount        Flag = "emailAccount"
	FlagEmailSecurityAlerts Flag = "emailSecurityAlerts"

	FlagPushTaskCreated    Flag = "pushTaskCreated"
	FlagPushTaskUpdated    Flag = "pushTaskUpdated"
	FlagPushTaskCompleted  Flag = "pushTaskCompleted"
	FlagPushTaskDeleted    Flag = "pushTaskDeleted"
	FlagPushTaskDueSoon    Flag = "pushTaskDueSoon"
	FlagPushAccount        Flag = "pushAccount"
	FlagPushSecurityAlerts Flag = "pushSecurityAlerts"
)

type tableKey struct {
	eventType string
	channel   Channel
}

var flagTable = map[tableKey]Flag{
	{events.TaskCreated, ChannelEmail}:   FlagEmailTaskCreated,
	{events.TaskUpdated, ChannelEmail}:   FlagEmailTaskUpdated,
	{events.TaskCompleted, ChannelEmail}: FlagEmailTaskCompleted,
	{events.TaskDeleted, ChannelEmail}:   FlagEmailTaskDeleted,
	{events.TaskDueSoon, ChannelEmail}:   FlagEmailTaskDueSoon,

	{events.TaskCreated, ChannelPush}:   FlagPushTaskCreated,
	{events.TaskUpdated, ChannelPush}:   FlagPushTaskUpdated,
	{events.TaskCompleted, ChannelPush}: FlagPushTaskCompleted,
	{events.TaskDeleted, ChannelPush}:   FlagPushTaskDeleted,
	{events.TaskDueSoon, ChannelPush}:   FlagPushTaskDueSoon,

	{events.UserRegistered, ChannelEmail}:             FlagEmailAccount,
	{events.AuthPasswordResetRequested, ChannelEmail}: FlagEmailAccount,
	{events.UserRegistered, ChannelPush}:              FlagPushAccount,
	{events.AuthPasswordResetRequested, ChannelPush}:  FlagPushAccount,

	{events.UserPasswordChanged, ChannelEmail}: FlagEmailSecurityAlerts,
	{events.AuthPasswordChanged, ChannelEmail}: FlagEmailSecurityAlerts,
	{events.AuthNewLogin, ChannelEmail}:        FlagEmailSecurityAlerts,
	{events.AuthSuspiciousLogin, ChannelEmail}: FlagEmailSecurityAlerts,
	{events.UserPasswordChanged, ChannelPush}:  FlagPushSecurityAlerts,
	{events.AuthPasswordChanged, ChannelPush}:  FlagPushSecurityAlerts,
	{events.AuthNewLogin, ChannelPush}:         FlagPushSecurityAlerts,
	{events.AuthSuspiciousLogin, ChannelPush}:  FlagPushSecurityAlerts,
}

// FlagFor returns the flag governing eventType on ch.
func FlagFor(eventType string, ch Channel) (Flag, bool) {
	f, ok := flagTable[tableKey{eventType, ch}]
	return f, ok
}

// Value returns the value of f in p. The second result is false for an
// unknown flag.
func (p *Preferences) Value(f Flag) (bool, bool) {
	switch f {
	case FlagEmailTaskCreated:
		return p.EmailTaskCreated, true
	case FlagEmailTaskUpdated:
		return p.EmailTaskUpdated, true
	case FlagEmailTaskCompleted:
		return p.EmailTaskCompleted, true
	case FlagEmailTaskDeleted:
		return p.EmailTaskDeleted, true
	case FlagEmailTaskDueSoon:
		return p.EmailTaskDueSoon, true
	case FlagEmailAccount:
		return p.EmailAccount, true
	case FlagEmailSecurityAlerts:
		return p.EmailSecurityAlerts, true
	case FlagPushTaskCreated:
		return p.PushTaskCreated, true
	case FlagPushTaskUpdated:
		return p.PushTaskUpdated, true
	case FlagPushTaskCompleted:
		return p.PushTaskCompleted, true
	case FlagPushTaskDeleted:
		return p.PushTaskDeleted, true
	case FlagPushTaskDueSoon:
		return p.PushTaskDueSoon, true
	case FlagPushAccount:
		return p.PushAccount, true
	case FlagPushSecurityAlerts:
		return p.PushSecurityAlerts, true
	default:
		return false, false
	}
}
