// Package preferences decides whether a user wants a given event delivered on
// a given channel.
//
// A Preferences record has one global switch per channel, one flag per known
// (channel, event) pair, and digest frequency flags. The mapping from event
// type to flag is a static table; pairs missing from it fall back to a fixed
// per-channel default: push is on, email is off.
//
//	prefs, err := store.Get(ctx, userID)
//	if errs.IsNotFound(err) {
//		prefs = preferences.Defaults(userID)
//	}
//	if preferences.IsChannelEventEnabled(events.TaskDueSoon, preferences.ChannelEmail, prefs) {
//		...
//	}
package preferences
