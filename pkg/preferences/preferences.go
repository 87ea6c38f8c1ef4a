package preferences

import "time"

// Channel is a delivery mechanism.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

// Preferences is a user's notification settings. A channel-specific flag only
// takes effect when the channel's global switch is on.
type Preferences struct {
	UserID string `json:"userId"`

	EmailEnabled bool `json:"emailEnabled"`
	PushEnabled  bool `json:"pushEnabled"`

	EmailTaskCreated    bool `json:"emailTaskCreated"`
	EmailTaskUpdated    bool `json:"emailTaskUpdated"`
	EmailTaskCompleted  bool `json:"emailTaskCompleted"`
	EmailTaskDeleted    bool `json:"emailTaskDeleted"`
	EmailTaskDueSoon    bool `json:"emailTaskDueSoon"`
	EmailAccount        bool `json:"emailAccount"`
	EmailSecurityAlerts bool `json:"emailSecurityAlerts"`

	PushTaskCreated    bool `json:"pushTaskCreated"`
	PushTaskUpdated    bool `json:"pushTaskUpdated"`
	PushTaskCompleted  bool `json:"pushTaskCompleted"`
	PushTaskDeleted    bool `json:"pushTaskDeleted"`
	PushTaskDueSoon    bool `json:"pushTaskDueSoon"`
	PushAccount        bool `json:"pushAccount"`
	PushSecurityAlerts bool `json:"pushSecurityAlerts"`

	DailyDigest  bool `json:"dailyDigest"`
	WeeklyDigest bool `json:"weeklyDigest"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Defaults returns the settings used for users without a stored record.
// Security and account mail, due-date reminders and completion notices are
// on; the noisier task lifecycle mails are off.
func Defaults(userID string) *Preferences {
	return &Preferences{
		UserID:              userID,
		EmailEnabled:        true,
		PushEnabled:         true,
		EmailTaskCompleted:  true,
		EmailTaskDueSoon:    true,
		EmailAccount:        true,
		EmailSecurityAlerts: true,
		PushTaskCreated:     true,
		PushTaskUpdated:     true,
		PushTaskCompleted:   true,
		PushTaskDeleted:     true,
		PushTaskDueSoon:     true,
		PushAccount:         true,
		PushSecurityAlerts:  true,
		DailyDigest:         true,
	}
}

// ChannelEnabled reports the global switch for ch. Unknown channels are off.
func (p *Preferences) ChannelEnabled(ch Channel) bool {
	if p == nil {
		return false
	}
	switch ch {
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelPush:
		return p.PushEnabled
	default:
		return false
	}
}

// AnyChannelEnabled reports whether at least one channel is switched on.
func (p *Preferences) AnyChannelEnabled() bool {
	return p.ChannelEnabled(ChannelEmail) || p.ChannelEnabled(ChannelPush)
}
