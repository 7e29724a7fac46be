package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	for _, key := range []string{"PROJECTDB_PROJECTS_DIR", "PROJECTDB_LOG_LEVEL", "PROJECTS_DIR"} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
	return tmp
}

func TestLoadDefaults(t *testing.T) {
	tmp := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := filepath.Join(tmp, "data", "projectdb", "projects")
	if cfg.ProjectsDir != want {
		t.Fatalf("expected projects dir %q, got %q", want, cfg.ProjectsDir)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadLegacyProjectsDir(t *testing.T) {
	tmp := isolate(t)
	legacy := filepath.Join(tmp, "legacy")
	t.Setenv("PROJECTS_DIR", legacy)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ProjectsDir != legacy {
		t.Fatalf("expected %q, got %q", legacy, cfg.ProjectsDir)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	tmp := isolate(t)

	file := filepath.Join(tmp, "config", "projectdb", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		t.Fatal(err)
	}
	content := "projects_dir: /from/file\nlog_level: debug\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ProjectsDir != "/from/file" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config from file: %+v", cfg)
	}

	t.Setenv("PROJECTDB_PROJECTS_DIR", "/from/env")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ProjectsDir != "/from/env" {
		t.Fatalf("expected env to override file, got %q", cfg.ProjectsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level from file, got %q", cfg.LogLevel)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	tmp := isolate(t)

	if _, err := Load(filepath.Join(tmp, "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestEnsureProjectsDir(t *testing.T) {
	tmp := isolate(t)
	cfg := &Config{ProjectsDir: filepath.Join(tmp, "a", "b")}

	if err := EnsureProjectsDir(cfg); err != nil {
		t.Fatalf("EnsureProjectsDir returned error: %v", err)
	}
	if info, err := os.Stat(cfg.ProjectsDir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s: %v", cfg.ProjectsDir, err)
	}

	file := filepath.Join(tmp, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := EnsureProjectsDir(&Config{ProjectsDir: file}); err == nil {
		t.Fatalf("expected error when projects dir is a file")
	}
}
