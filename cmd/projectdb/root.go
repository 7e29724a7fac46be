package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/choplin/projectdb/internal/catalog"
	"github.com/choplin/projectdb/internal/config"
	"github.com/choplin/projectdb/internal/logging"
	"github.com/choplin/projectdb/internal/usecase"
)

// app holds what every command needs once flags and config are resolved.
type app struct {
	logger   *slog.Logger
	catalog  *catalog.Catalog
	svc      *usecase.Service
	registry *prometheus.Registry
}

var (
	configPath  string
	projectsDir string
	logLevel    string

	current *app
)

var rootCmd = &cobra.Command{
	Use:           "projectdb",
	Short:         "projectdb - per-project entry storage",
	Long:          "projectdb keeps each project in its own SQLite file and stores titled entries in it.",
	SilenceUsage:  true,
	Version:       version,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&projectsDir, "dir", "", "Directory holding the project files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cobra.OnFinalize(closeApp)

	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newEntryCmd())
	rootCmd.AddCommand(newMCPCmd())
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if projectsDir != "" {
		cfg.ProjectsDir = projectsDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, level)
	slog.SetDefault(logger)

	if err := config.EnsureProjectsDir(cfg); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	c := catalog.New(cfg.ProjectsDir,
		catalog.WithLogger(logger),
		catalog.WithRegisterer(registry),
	)
	logger.Debug("catalog ready", "dir", cfg.ProjectsDir)

	return &app{
		logger:   logger,
		catalog:  c,
		svc:      usecase.New(c),
		registry: registry,
	}, nil
}

func currentApp() (*app, error) {
	if current == nil {
		return nil, errors.New("projectdb: not initialised")
	}
	return current, nil
}

// closeApp runs after every command, including failed ones.
func closeApp() {
	if current == nil {
		return
	}
	if err := current.catalog.Close(); err != nil {
		current.logger.Warn("failed to close catalog", "error", err)
	}
	current = nil
}
