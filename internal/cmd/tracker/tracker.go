// Package tracker parses tracker command flags and launches the service.
package tracker

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/louisbranch/tracker/internal/platform/cmd"
	server "github.com/louisbranch/tracker/internal/services/tracker/app"
)

// Config holds tracker command configuration.
type Config struct {
	Port                int    `env:"PORT"                          envDefault:"8080"`
	DatabasePath        string `env:"DATABASE_PATH"                 envDefault:"database.db"`
	SecretKey           string `env:"SECRET_KEY"                    envDefault:"dev-secret-key-change-me"`
	Debug               bool   `env:"DEBUG"`
	TrustForwardedProto bool   `env:"TRACKER_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "tracker HTTP port")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database path")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for cfg.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the tracker HTTP service.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTracker, func(context.Context) error {
		if err := server.Run(ctx, server.Config{
			Addr:                cfg.Addr(),
			DBPath:              cfg.DatabasePath,
			SecretKey:           cfg.SecretKey,
			Debug:               cfg.Debug,
			TrustForwardedProto: cfg.TrustForwardedProto,
		}); err != nil {
			return fmt.Errorf("serve tracker: %w", err)
		}
		return nil
	})
}
