package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rustyeddy/fxledger/config"
	"github.com/rustyeddy/fxledger/internal/logger"
	"github.com/rustyeddy/fxledger/journal"
	"github.com/rustyeddy/fxledger/service"
)

const defaultConfigFile = "fxledger.yaml"

// app holds what every journal command needs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *journal.SQLite
	svc   *service.Service
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := journal.NewSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	log.Debug("journal opened", zap.String("path", cfg.Database.Path))

	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		svc:   service.New(store, opts, log),
	}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
	_ = a.log.Sync()
}
