// Package config resolves projectdb settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	appName   = "projectdb"
	envPrefix = "PROJECTDB_"

	// legacyProjectsDirEnv is honoured when projects_dir is not set otherwise.
	legacyProjectsDirEnv = "PROJECTS_DIR"

	maxConfigFileSize = 1 << 20
)

// Config holds the runtime settings.
type Config struct {
	ProjectsDir string `koanf:"projects_dir"`
	LogLevel    string `koanf:"log_level"`
}

// Load reads the configuration.
//
// Precedence, highest first:
//  1. PROJECTDB_* environment variables (PROJECTDB_PROJECTS_DIR -> projects_dir)
//  2. the YAML file at path, or DefaultConfigFile() when path is empty
//  3. PROJECTS_DIR for the projects directory
//  4. defaults
//
// A missing file at the default location is not an error; a missing file that
// was asked for explicitly is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile()
	}

	content, err := readConfigFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	case !explicit && os.IsNotExist(err):
	default:
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	//nolint:gosec // G304: path is chosen by the user
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = os.Getenv(legacyProjectsDirEnv)
	}
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = DefaultProjectsDir()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// GetDataDir resolves the base directory for projectdb data, following the
// XDG base directory spec and falling back to the user's home directory.
func GetDataDir() string {
	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), appName)
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, appName)
}

// DefaultProjectsDir returns the directory holding project files when none is
// configured.
func DefaultProjectsDir() string {
	return filepath.Join(GetDataDir(), "projects")
}

// DefaultConfigFile returns the location of the optional YAML config file.
func DefaultConfigFile() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// EnsureProjectsDir creates the projects directory if it does not exist.
func EnsureProjectsDir(cfg *Config) error {
	if err := os.MkdirAll(cfg.ProjectsDir, 0o750); err != nil {
		return fmt.Errorf("failed to create projects directory: %w", err)
	}
	info, err := os.Stat(cfg.ProjectsDir)
	if err != nil {
		return fmt.Errorf("failed to stat projects directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("projects directory %s: %w", cfg.ProjectsDir, fs.ErrInvalid)
	}
	return nil
}
