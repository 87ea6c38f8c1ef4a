// Package notifications persists per-user notification records and routes
// bus events to storage and live push.
//
// # Storage
//
// Storage is the persistence capability: Create, Get, List, MarkRead, Delete,
// DeleteExpired and CountUnread. MemoryStorage serves tests and single-node
// development; PostgresStorage keeps records in the notifications table
// created by db/migrations.
//
// # Router
//
// Router subscribes to the event bus and, for every event, decides
//
//   - whether to store a Notification: always for user.registered, system
//     events and callers that force it, otherwise only while the user has
//     email or push enabled. A failed preference read stores anyway.
//   - whether to push the event live: a Pusher must be configured and the
//     user's push preference for the event type must allow it. The event name
//     is sent in colon form ("task:created").
//
// Routing never fails the publish. Storage and push failures are logged and
// counted.
//
//	router := notifications.NewRouter(storage, prefStore,
//	    notifications.WithPusher(hub),
//	    notifications.WithRouterLogger(log),
//	)
//	unsubscribe := router.Subscribe(bus)
//	defer unsubscribe()
package notifications
