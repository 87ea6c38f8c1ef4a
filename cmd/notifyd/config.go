package main

import (
	"fmt"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/dispatcher"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/httpserver"
)

const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverRedis    = "redis"
	driverPostmark = "postmark"
	driverDev      = "dev"
)

// AppConfig is the environment of notifyd. Postgres and Redis settings are
// loaded separately, only when their driver is selected.
type AppConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"notifyd"`

	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"memory"`
	LivePushDriver string `env:"LIVEPUSH_DRIVER" envDefault:"memory"`

	NotificationTTL time.Duration `env:"NOTIFICATION_TTL" envDefault:"720h"`
	SweepSchedule   string        `env:"NOTIFICATION_SWEEP_SCHEDULE" envDefault:"@hourly"`

	LoginFailedBurst  int           `env:"LOGIN_FAILED_BURST" envDefault:"5"`
	LoginFailedRefill time.Duration `env:"LOGIN_FAILED_REFILL" envDefault:"1m"`

	Dispatcher dispatcher.Config
	Email      email.Config
	HTTP       httpserver.Config
}

func (c *AppConfig) Validate() error {
	switch c.StorageDriver {
	case driverMemory, driverPostgres:
	default:
		return fmt.Errorf("STORAGE_DRIVER: unknown driver %q", c.StorageDriver)
	}
	switch c.LivePushDriver {
	case driverMemory, driverRedis:
	default:
		return fmt.Errorf("LIVEPUSH_DRIVER: unknown driver %q", c.LivePushDriver)
	}
	switch c.Email.Driver {
	case driverPostmark, driverDev:
	default:
		return fmt.Errorf("EMAIL_DRIVER: unknown driver %q", c.Email.Driver)
	}
	if c.LoginFailedBurst <= 0 || c.LoginFailedRefill <= 0 {
		return fmt.Errorf("LOGIN_FAILED_BURST and LOGIN_FAILED_REFILL must be positive")
	}
	return c.Dispatcher.Validate()
}
