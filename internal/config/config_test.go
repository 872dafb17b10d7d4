package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("TODO_BACKEND", "")
	t.Setenv("TODO_BASE_URL", "")

	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendREST {
		t.Errorf("expected backend %q, got %q", BackendREST, cfg.Backend)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected base url %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %s, got %s", DefaultTimeout, cfg.Timeout)
	}
}

func TestNew_FromFile(t *testing.T) {
	t.Setenv("TODO_BACKEND", "")
	t.Setenv("TODO_BASE_URL", "")

	dir := t.TempDir()
	data := "backend: googletasks\nbase_url: http://tasks.local:8080\ntimeout: 2s\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendGoogleTasks {
		t.Errorf("expected backend %q, got %q", BackendGoogleTasks, cfg.Backend)
	}
	if cfg.BaseURL != "http://tasks.local:8080" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %s", cfg.Timeout)
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("base_url: http://from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODO_BACKEND", "")
	t.Setenv("TODO_BASE_URL", "http://from-env")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://from-env" {
		t.Errorf("expected env base url, got %q", cfg.BaseURL)
	}
}

func TestNew_InvalidBackend(t *testing.T) {
	t.Setenv("TODO_BACKEND", "carrier-pigeon")
	if _, err := New(t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	t.Setenv("TODO_BACKEND", "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("timeout: soon\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestSaveBackend_KeepsFileSettingsOnly(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("timeout: 3s\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODO_BACKEND", "")
	t.Setenv("TODO_BASE_URL", "http://from-env")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.BaseURL = "http://from-flag"

	changed, err := cfg.SaveBackend(BackendGoogleTasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Error("expected the file to change")
	}
	if cfg.Backend != BackendGoogleTasks {
		t.Errorf("expected backend %q, got %q", BackendGoogleTasks, cfg.Backend)
	}

	t.Setenv("TODO_BASE_URL", "")
	loaded, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Backend != BackendGoogleTasks {
		t.Errorf("expected saved backend %q, got %q", BackendGoogleTasks, loaded.Backend)
	}
	if loaded.BaseURL != DefaultBaseURL {
		t.Errorf("override base url must not be saved, got %q", loaded.BaseURL)
	}
	if loaded.Timeout != 3*time.Second {
		t.Errorf("expected file timeout to survive, got %s", loaded.Timeout)
	}
}

func TestSaveBackend_EnvBackendStillWritten(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	t.Setenv("TODO_BACKEND", BackendGoogleTasks)
	t.Setenv("TODO_BASE_URL", "")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	changed, err := cfg.SaveBackend(BackendGoogleTasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Error("expected the file to be written although the environment selects the backend")
	}

	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		t.Fatalf("read %s: %v", ConfigFile, err)
	}
	if string(data) != "backend: googletasks\n" {
		t.Errorf("unexpected file contents %q", data)
	}

	changed, err = cfg.SaveBackend(BackendGoogleTasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("expected no change on second save")
	}
}

func TestSaveBackend_Unknown(t *testing.T) {
	cfg := &Config{Dir: t.TempDir(), Backend: BackendREST}
	if _, err := cfg.SaveBackend("carrier-pigeon"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if cfg.Backend != BackendREST {
		t.Errorf("backend should be unchanged, got %q", cfg.Backend)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}
