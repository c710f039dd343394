// Package api parses API server flags and launches the service.
package api

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/warmnest/warmnest/internal/api/httpapi"
	"github.com/warmnest/warmnest/internal/cache"
	"github.com/warmnest/warmnest/internal/events"
	"github.com/warmnest/warmnest/internal/payfast"
	"github.com/warmnest/warmnest/internal/platform/authtoken"
	entrypoint "github.com/warmnest/warmnest/internal/platform/cmd"
	"github.com/warmnest/warmnest/internal/services/account"
	"github.com/warmnest/warmnest/internal/services/admin"
	"github.com/warmnest/warmnest/internal/services/catalog"
	"github.com/warmnest/warmnest/internal/services/order"
	"github.com/warmnest/warmnest/internal/services/vendor"
	"github.com/warmnest/warmnest/internal/shiprazor"
	"github.com/warmnest/warmnest/internal/storage/sqlite"
)

// Config holds API command configuration.
type Config struct {
	HTTPAddr string `env:"WARMNEST_HTTP_ADDR" envDefault:":8080"`
	DBPath   string `env:"WARMNEST_DB_PATH" envDefault:"warmnest.db"`
	PayFast  payfast.Config
	Shipping shiprazor.Config
	Cache    cache.Config
	Events   events.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The API HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the API HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAPI, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	if err := cfg.PayFast.Validate(); err != nil {
		return fmt.Errorf("payfast config: %w", err)
	}
	sessions, err := authtoken.LoadConfigFromEnv(nil)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	catalogCache := cache.NewCatalog(cfg.Cache)
	defer func() { _ = catalogCache.Close() }()
	if catalogCache != nil {
		log.Printf("catalog cache enabled at %s", cfg.Cache.RedisAddr)
	}

	publisher, err := events.Connect(cfg.Events)
	if err != nil {
		return fmt.Errorf("connect event broker: %w", err)
	}
	defer func() { _ = publisher.Close() }()
	var notifier payfast.Notifier
	if publisher != nil {
		notifier = publisher
		log.Printf("order events enabled")
	}

	deps := httpapi.Dependencies{
		Orders:     order.New(store, store, log.Default()),
		Catalog:    catalog.New(store, store, store, catalogCache),
		Vendors:    vendor.New(store, store, store),
		Accounts:   account.New(store),
		Admin:      admin.New(store, store, store, store, store, store, catalogCache),
		Reconciler: payfast.NewReconciler(cfg.PayFast, store, payfast.NewHTTPValidator(cfg.PayFast), notifier, log.Default()),
		PayFast:    cfg.PayFast,
		Shipping:   shiprazor.NewClient(cfg.Shipping),
		Sessions:   sessions,
		Logger:     log.Default(),
	}
	server, err := httpapi.NewServer(httpapi.Config{HTTPAddr: cfg.HTTPAddr}, deps)
	if err != nil {
		return err
	}
	defer server.Close()

	log.Printf("listening on %s", cfg.HTTPAddr)
	return server.ListenAndServe(ctx)
}
