package preferences

// UnmappedDefault is the answer for (event, channel) pairs absent from the
// flag table. Push is best-effort and ephemeral, so it defaults on; email is
// opt-in.
//
// TODO: product review of the push/email asymmetry for unmapped events.
func UnmappedDefault(ch Channel) bool {
	return ch == ChannelPush
}

// IsChannelEventEnabled reports whether prefs allow eventType on ch.
// Nil preferences and a disabled channel always yield false.
func IsChannelEventEnabled(eventType string, ch Channel, prefs *Preferences) bool {
	if !prefs.ChannelEnabled(ch) {
		return false
	}

	flag, ok := FlagFor(eventType, ch)
	if !ok {
		return UnmappedDefault(ch)
	}

	v, known := prefs.Value(flag)
	if !known {
		return UnmappedDefault(ch)
	}
	return v
}

// Resolver adapts IsChannelEventEnabled for injection.
type Resolver func(eventType string, ch Channel, prefs *Preferences) bool

// DefaultResolver is the static table resolver.
var DefaultResolver Resolver = IsChannelEventEnabled
