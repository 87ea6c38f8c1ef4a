// Package httpserver runs the operational HTTP endpoint of the notification
// service: liveness and readiness probes plus the Prometheus scrape handler.
//
// Server wraps http.Server with context-driven graceful shutdown. Run blocks
// until ctx is cancelled or Shutdown is called, then drains in-flight
// requests for at most the shutdown timeout.
//
//	r := httpserver.NewOpsRouter(log, registry,
//		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
//	)
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("ops server stopped", logger.Error(err))
//	}
//
// Run wraps listen errors with ErrStart and Shutdown wraps drain errors with
// ErrShutdown.
package httpserver
