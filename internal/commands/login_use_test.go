package commands

import (
	"bytes"
	"os"
	"testing"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
)

func TestLoginFinish_UseSavesBackendOnly(t *testing.T) {
	cfg := &config.Config{
		Dir:     t.TempDir(),
		Backend: config.BackendREST,
		BaseURL: "http://from-flag",
		Timeout: config.DefaultTimeout,
	}
	c := &LoginCmd{use: true}

	var outBuf, errBuf bytes.Buffer
	code := c.finish(cfg, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "backend: googletasks\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		t.Fatalf("read %s: %v", config.ConfigFile, err)
	}
	if string(data) != "backend: googletasks\n" {
		t.Errorf("only the backend should be saved, got %q", data)
	}
}

func TestLoginFinish_UseWithBackendFromEnv(t *testing.T) {
	// The environment already selects Google Tasks; the file must still record it.
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendGoogleTasks, Quiet: true}
	c := &LoginCmd{use: true}

	var outBuf, errBuf bytes.Buffer
	if code := c.finish(cfg, &outBuf, &errBuf); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if _, err := os.Stat(cfg.Path()); err != nil {
		t.Errorf("expected %s to be written: %v", config.ConfigFile, err)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", outBuf.String())
	}
}

func TestLoginFinish_WithoutUse(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendREST}
	c := &LoginCmd{}

	var outBuf, errBuf bytes.Buffer
	if code := c.finish(cfg, &outBuf, &errBuf); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if _, err := os.Stat(cfg.Path()); !os.IsNotExist(err) {
		t.Errorf("%s should not have been written", config.ConfigFile)
	}
}
