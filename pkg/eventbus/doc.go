// Package eventbus is the in-process publish/subscribe core of the
// notification pipeline.
//
// A Bus maps event types to ordered lists of handlers and keeps one global,
// ordered middleware chain. Publish builds an Event stamped with the current
// time, runs it through every middleware, then starts all handlers currently
// subscribed to the type concurrently and returns once each of them has
// returned.
//
//	bus := eventbus.New(eventbus.WithLogger(log))
//	bus.Use(eventbus.RequireUserID(events.TaskCreated))
//
//	unsubscribe := bus.Subscribe(events.TaskCreated, func(ctx context.Context, ev eventbus.Event) error {
//	    return router.Route(ctx, ev, notifications.RouteOptions{})
//	})
//	defer unsubscribe()
//
//	err := bus.Publish(ctx, events.TaskCreated, map[string]any{"userId": "u1", "title": "Buy milk"})
//
// # Failure isolation
//
// A handler that returns an error or panics is logged and counted; it never
// stops sibling handlers and never makes Publish fail. Middleware is part of
// the bus configuration: a middleware error aborts the publish and is returned
// to the caller, except ErrCancel, which silently stops delivery.
//
// Middleware may rewrite the payload but not the event type. Subscribers are
// chosen by the published type, so a middleware that changes it fails the
// publish with ErrMiddleware.
//
// # Snapshots
//
// Publish copies the handler list before fan-out. A handler that subscribes
// or unsubscribes while running affects the next publish, never the current
// one.
//
// # Default bus
//
// Default returns a lazily created process-wide Bus for top-level wiring.
// Components take a *Bus explicitly so tests can build isolated instances.
package eventbus
