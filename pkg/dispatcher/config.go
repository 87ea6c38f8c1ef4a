package dispatcher

import (
	"fmt"
	"time"
)

// Config holds the throttling and scheduling settings.
type Config struct {
	MinEmailInterval time.Duration `env:"DISPATCH_MIN_EMAIL_INTERVAL" envDefault:"5m"`
	DigestInterval   time.Duration `env:"DISPATCH_DIGEST_INTERVAL" envDefault:"1h"`
	CleanupInterval  time.Duration `env:"DISPATCH_CLEANUP_INTERVAL" envDefault:"6h"`
	CacheTTL         time.Duration `env:"DISPATCH_CACHE_TTL" envDefault:"10m"`
	DedupRetention   time.Duration `env:"DISPATCH_DEDUP_RETENTION" envDefault:"24h"`
	DigestMaxItems   int           `env:"DISPATCH_DIGEST_MAX_ITEMS" envDefault:"20"`
}

// DefaultConfig returns the same values as the envDefault tags.
func DefaultConfig() Config {
	return Config{
		MinEmailInterval: 5 * time.Minute,
		DigestInterval:   time.Hour,
		CleanupInterval:  6 * time.Hour,
		CacheTTL:         10 * time.Minute,
		DedupRetention:   24 * time.Hour,
		DigestMaxItems:   20,
	}
}

// Validate implements config.Validator.
func (c Config) Validate() error {
	for name, d := range map[string]time.Duration{
		"MinEmailInterval": c.MinEmailInterval,
		"DigestInterval":   c.DigestInterval,
		"CleanupInterval":  c.CleanupInterval,
		"CacheTTL":         c.CacheTTL,
		"DedupRetention":   c.DedupRetention,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, name, d)
		}
	}
	if c.DigestMaxItems <= 0 {
		return fmt.Errorf("%w: DigestMaxItems must be positive, got %d", ErrInvalidConfig, c.DigestMaxItems)
	}
	return nil
}
