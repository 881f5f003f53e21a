package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/checkout"
	"github.com/aretw0/checkout/internal/config"
	"github.com/aretw0/checkout/internal/logging"
	"github.com/aretw0/checkout/pkg/adapters/file"
	"github.com/aretw0/checkout/pkg/adapters/memory"
	"github.com/aretw0/checkout/pkg/adapters/redis"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/persistence/middleware"
	"github.com/aretw0/checkout/pkg/ports"
	"github.com/aretw0/checkout/pkg/session"
	"github.com/spf13/viper"
)

// app holds the pieces every command builds from the same configuration.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	store  ports.StateStore
	locker ports.DistributedLocker
	close  func() error
}

// loadConfig reads the config file and applies CHECKOUT_* env and flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return cfg, err
	}

	if v := viper.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := viper.GetString("store"); v != "" {
		cfg.Store.Backend = v
	}
	if v := viper.GetString("dir"); v != "" {
		cfg.Store.Dir = v
	}
	if v := viper.GetString("endpoint"); v != "" {
		cfg.Submit.Endpoint = v
	}
	if v := viper.GetString("encryption_key"); v != "" {
		cfg.EncryptionKey = v
	}
	if v := viper.GetString("redis_addr"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := viper.GetString("redis_password"); v != "" {
		cfg.Redis.Password = v
	}
	return cfg, cfg.Validate()
}

// newApp builds the logger and the session store. jsonLogs selects the server format
// unless the config file names one.
func newApp(jsonLogs bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	var logger *slog.Logger
	switch {
	case cfg.Log.Format == "json", cfg.Log.Format == "" && jsonLogs:
		logger = logging.NewJSON(os.Stderr, level)
	default:
		logger = logging.New(level)
	}

	a := &app{cfg: cfg, logger: logger, close: func() error { return nil }}
	if err := a.openStore(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) openStore() error {
	var base ports.StateStore
	switch a.cfg.Store.Backend {
	case config.StoreFile:
		base = file.NewStore(a.cfg.Store.Dir)
	case config.StoreRedis:
		rs := redis.New(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB,
			redis.WithTTL(a.cfg.Redis.TTL),
			redis.WithPrefix(a.cfg.Redis.Prefix),
		)
		a.locker = redis.NewLocker(rs.Client(), a.cfg.Redis.Prefix)
		a.close = rs.Close
		base = rs
	default:
		base = memory.NewStore()
	}

	var mws []middleware.Middleware
	mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns))
	if a.cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(a.cfg.EncryptionKey)
		if err != nil {
			return fmt.Errorf("invalid encryption key: %w", err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	a.store = middleware.Chain(base, mws...)
	return nil
}

// newEngine builds the flow controller over the configured endpoint.
func (a *app) newEngine(hooks domain.LifecycleHooks) (*checkout.Engine, error) {
	return checkout.New(
		checkout.WithEndpoint(a.cfg.Submit.Endpoint),
		checkout.WithSubmitTimeout(a.cfg.Submit.Timeout),
		checkout.WithLifecycleHooks(hooks),
		checkout.WithLogger(a.logger),
	)
}

// newManager wraps the store with per-session locking.
func (a *app) newManager(engine ports.FlowController) *session.Manager {
	opts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		opts = append(opts, session.WithLocker(a.locker))
	}
	return session.NewManager(a.store, engine, opts...)
}
