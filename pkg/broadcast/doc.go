// Package broadcast provides a typed, non-blocking, in-process fan-out.
//
// A MemoryBroadcaster delivers each message to every current subscriber
// through a buffered channel. A subscriber whose buffer is full loses the
// message and is dropped, so a stalled reader never blocks the sender.
// Subscriptions end when their context is cancelled, when Close is called
// on them, or when the broadcaster is closed.
package broadcast
