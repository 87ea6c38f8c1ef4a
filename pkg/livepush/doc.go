// Package livepush delivers events to connected clients in real time.
//
// Pusher is the capability the notification router consumes. Event names
// use the transport's colon convention ("task:created"). Both methods
// report whether anything received the message; false is the normal answer
// for a user without an open connection.
//
// Hub keeps one in-process broadcaster per connected user, bounded by an
// LRU. RedisPublisher publishes JSON messages on Redis channels so that
// gateway processes holding the sockets can forward them. Multi fans out to
// several pushers.
package livepush
