package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/org/docvault/internal/api"
	"github.com/org/docvault/internal/core"
	"github.com/org/docvault/internal/storage"
)

type config struct {
	ListenAddr        string `yaml:"listen_addr"`
	TLSCertFile       string `yaml:"tls_cert"`
	TLSKeyFile        string `yaml:"tls_key"`
	DataDir           string `yaml:"data_dir"`
	DBUrl             string `yaml:"db_url"`
	MigrationsDir     string `yaml:"migrations_dir"`
	LogLevel          string `yaml:"log_level"`
	PasswordScheme    string `yaml:"password_scheme"`
	EmergencyPassword string `yaml:"emergency_password"`
}

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load config
	cfgFile := "config.yaml"
	if v := os.Getenv("DOCVAULT_CONFIG"); v != "" {
		cfgFile = v
	}

	cfg := config{
		ListenAddr:    ":5000",
		DataDir:       "data",
		MigrationsDir: "migrations",
		LogLevel:      "info",
	}

	if data, err := os.ReadFile(cfgFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to parse config")
		}
	} else {
		log.Warn().Str("file", cfgFile).Msg("config file not found, using defaults")
	}

	// Env overrides
	if v := os.Getenv("DOCVAULT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DOCVAULT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DBUrl = v
	}
	if v := os.Getenv("DOCVAULT_EMERGENCY_PASSWORD"); v != "" {
		cfg.EmergencyPassword = v
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Pick the storage backend: postgres when a database is configured,
	// otherwise JSON files under data_dir.
	var store storage.Backend
	if cfg.DBUrl != "" {
		pg, err := storage.NewPostgresBackend(ctx, cfg.DBUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := storage.RunMigrations(cfg.DBUrl, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		log.Info().Msg("migrations applied")
		store = pg
	} else {
		fb, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open data dir")
		}
		log.Info().Str("dir", cfg.DataDir).Msg("using file storage")
		store = fb
	}
	defer store.Close()

	svc, err := core.NewService(ctx, store, core.Config{
		EmergencyPassword: cfg.EmergencyPassword,
		PasswordScheme:    cfg.PasswordScheme,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	srv := api.NewServer(svc, api.Config{
		ListenAddr:  cfg.ListenAddr,
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
	})

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	log.Info().Str("addr", cfg.ListenAddr).Msg("server started")
	<-quit

	log.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}
