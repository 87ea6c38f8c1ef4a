// Package logger builds *slog.Logger instances for the notification service.
//
// New assembles a JSON or text handler from functional options and wraps it in
// a decorator that pulls request-scoped attributes out of context.Context on
// every record. Attribute helpers in attr.go (UserID, EventType, Channel,
// NotificationID, Error, ...) keep key names identical across packages so log
// queries work the same for the bus, the router and the dispatcher.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "notifyd"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.LogAttrs(ctx, slog.LevelWarn, "email delivery failed",
//	    logger.UserID(userID),
//	    logger.EventType("task.due_soon"),
//	    logger.Error(err),
//	)
//
// Error and Errors return an empty attribute for nil input, so they can be
// passed unconditionally.
//
// NewNop returns a logger that discards everything; tests use it to keep
// output quiet.
package logger
