// Command notifyd runs the notification pipeline: the event bus, the
// notification router, the throttled email dispatcher and an ops HTTP
// endpoint for probes and metrics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/reyer3/taskmaster-todo-app-sub001/db/migrations"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/config"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/dispatcher"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/eventbus"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/httpserver"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/livepush"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/metrics"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/notifications"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/pg"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/preferences"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/ratelimiter"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/redis"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/users"
)

func main() {
	var cfg AppConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Env, cfg.ServiceName))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("notifyd stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

type stores struct {
	notifications notifications.Storage
	prefs         preferences.Store
	users         users.Store
	memUsers      *users.MemoryStore
	checks        []httpserver.Check
	close         func()
}

func openStores(ctx context.Context, cfg AppConfig, log *slog.Logger) (*stores, error) {
	if cfg.StorageDriver == driverMemory {
		mem := users.NewMemoryStore()
		return &stores{
			notifications: notifications.NewMemoryStorage(),
			prefs:         preferences.NewMemoryStore(),
			users:         mem,
			memUsers:      mem,
			close:         func() {},
		}, nil
	}

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, fmt.Errorf("load postgres config: %w", err)
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, pool, pgCfg, migrations.FS, log); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		notifications: notifications.NewPostgresStorage(pool),
		prefs:         preferences.NewPostgresStore(pool),
		users:         users.NewPostgresStore(pool),
		checks:        []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}},
		close:         pool.Close,
	}, nil
}

type pushers struct {
	pusher livepush.Pusher
	hub    *livepush.Hub
	checks []httpserver.Check
	close  func()
}

func openLivePush(ctx context.Context, cfg AppConfig, log *slog.Logger) (*pushers, error) {
	hub := livepush.NewHub(livepush.WithHubLogger(log))
	if cfg.LivePushDriver == driverMemory {
		return &pushers{pusher: hub, hub: hub, close: func() {}}, nil
	}

	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return nil, fmt.Errorf("load redis config: %w", err)
	}
	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, err
	}
	return &pushers{
		pusher: livepush.Multi{hub, livepush.NewRedisPublisher(client, livepush.WithRedisLogger(log))},
		hub:    hub,
		checks: []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client, redisCfg.PingTimeout)}},
		close:  func() { _ = client.Close() },
	}, nil
}

func newSender(cfg email.Config) (email.EmailSender, error) {
	if cfg.Driver == driverPostmark {
		return email.NewPostmarkClient(cfg)
	}
	return email.NewDevSender(cfg.DevOutputDir), nil
}

func newBus(cfg AppConfig, log *slog.Logger, m *metrics.Metrics, st *stores) (*eventbus.Bus, func(), error) {
	bus := eventbus.New(eventbus.WithLogger(log), eventbus.WithMetrics(m))
	bus.Use(eventbus.Logging(log))
	if st.memUsers != nil {
		bus.Use(directory(st.memUsers))
	}
	bus.Use(eventbus.RequireUserID(
		events.TaskCreated, events.TaskUpdated, events.TaskCompleted, events.TaskDeleted, events.TaskDueSoon,
		events.AuthPasswordResetRequested,
	))

	limits := ratelimiter.NewMemoryStore()
	bucket, err := ratelimiter.NewBucket(limits, ratelimiter.Config{
		Capacity:       cfg.LoginFailedBurst,
		RefillRate:     1,
		RefillInterval: cfg.LoginFailedRefill,
	})
	if err != nil {
		limits.Close()
		return nil, nil, err
	}
	bus.Use(eventbus.RateLimit(bucket, loginFailuresOnly, log))

	eventbus.SetDefault(bus)
	return bus, limits.Close, nil
}

func run(ctx context.Context, cfg AppConfig, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer st.close()

	push, err := openLivePush(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open live push: %w", err)
	}
	defer push.close()
	defer push.hub.Close()

	sender, err := newSender(cfg.Email)
	if err != nil {
		return fmt.Errorf("email sender: %w", err)
	}
	transport := email.NewTransport(sender,
		email.WithAppName(cfg.Email.AppName),
		email.WithAppURL(cfg.Email.AppURL),
		email.WithDigestMaxItems(cfg.Dispatcher.DigestMaxItems),
	)

	bus, closeLimiter, err := newBus(cfg, log, m, st)
	if err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer closeLimiter()
	defer bus.Clear()

	router := notifications.NewRouter(st.notifications, st.prefs,
		notifications.WithPusher(push.pusher),
		notifications.WithRouterLogger(log),
		notifications.WithRouterMetrics(m),
		notifications.WithNotificationTTL(cfg.NotificationTTL),
	)
	defer router.Subscribe(bus)()

	d := dispatcher.New(st.users, st.prefs, transport, cfg.Dispatcher,
		dispatcher.WithLogger(log),
		dispatcher.WithMetrics(m),
	)
	d.Subscribe(bus)
	if err := d.Start(ctx); err != nil {
		return err
	}
	defer d.Close()

	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.SweepSchedule, func() {
		n, err := router.SweepExpired(ctx)
		if err != nil {
			log.Warn("expired notification sweep failed", logger.Error(err))
			return
		}
		log.Debug("expired notifications swept", logger.Count("deleted", n))
	}); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	if err := bus.Publish(ctx, events.SystemStartup, map[string]any{
		events.KeyMessage: cfg.ServiceName + " started",
	}); err != nil {
		log.Warn("startup event not published", logger.Error(err))
	}

	checks := append(st.checks, push.checks...)
	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	runErr := srv.Run(ctx, httpserver.NewOpsRouter(log, reg, checks...))

	shutdownCtx := context.WithoutCancel(ctx)
	if err := bus.Publish(shutdownCtx, events.SystemShutdown, map[string]any{
		events.KeyMessage: cfg.ServiceName + " stopping",
	}); err != nil {
		log.Warn("shutdown event not published", logger.Error(err))
	}
	return runErr
}
