package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/km-arc/go-beans/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	t.Setenv(key, val) // automatically restored after test
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoBeans"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"Beans.File", cfg.Beans.File, ""},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Metrics.Namespace", cfg.Metrics.Namespace, "beans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
	if cfg.Beans.Watch {
		t.Error("expected Beans.Watch to default to false")
	}
	if cfg.Beans.DebounceMS != 200 {
		t.Errorf("Beans.DebounceMS: got %d want 200", cfg.Beans.DebounceMS)
	}
	if cfg.IsProduction() {
		t.Error("expected local defaults not to be production")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setEnv(t, "APP_NAME", "Inventory")
	setEnv(t, "APP_ENV", "production")
	setEnv(t, "APP_PORT", "9000")
	setEnv(t, "BEANS_FILE", "beans.yaml")
	setEnv(t, "BEANS_WATCH", "true")
	setEnv(t, "BEANS_WATCH_DEBOUNCE_MS", "50")

	cfg := config.Load("testdata/empty.env")

	if cfg.App.Name != "Inventory" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "Inventory")
	}
	if cfg.App.Env != "production" {
		t.Errorf("App.Env: got %q want %q", cfg.App.Env, "production")
	}
	if cfg.App.Port != "9000" {
		t.Errorf("App.Port: got %q want %q", cfg.App.Port, "9000")
	}
	if cfg.Beans.File != "beans.yaml" || !cfg.Beans.Watch || cfg.Beans.DebounceMS != 50 {
		t.Errorf("Beans: got %+v", cfg.Beans)
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction for APP_ENV=production")
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg := config.Load(path)
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q want debug", cfg.Log.Level)
	}
}

// ── Validate ─────────────────────────────────────────────────────────────────

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"bad env", func(c *config.Config) { c.App.Env = "staging" }},
		{"non-numeric port", func(c *config.Config) { c.App.Port = "http" }},
		{"bad log level", func(c *config.Config) { c.Log.Level = "trace" }},
		{"bad beans file", func(c *config.Config) { c.Beans.File = "beans.toml" }},
		{"missing namespace", func(c *config.Config) { c.Metrics.Namespace = "" }},
		{"negative debounce", func(c *config.Config) { c.Beans.DebounceMS = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Load("testdata/empty.env")
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	setEnv(t, "CUSTOM_KEY", "hello")
	if got := config.Get("CUSTOM_KEY", "default"); got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

func TestGet_ReturnsFallback(t *testing.T) {
	os.Unsetenv("MISSING_KEY")
	if got := config.Get("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q want %q", got, "fallback")
	}
}

func TestGetInt(t *testing.T) {
	setEnv(t, "SOME_INT", "42")
	if got := config.GetInt("SOME_INT", 0); got != 42 {
		t.Errorf("got %d want %d", got, 42)
	}
	setEnv(t, "SOME_INT", "notanint")
	if got := config.GetInt("SOME_INT", 99); got != 99 {
		t.Errorf("got %d want %d", got, 99)
	}
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		setEnv(t, "BOOL_KEY", val)
		if !config.GetBool("BOOL_KEY", false) {
			t.Errorf("expected true for %q", val)
		}
	}
	setEnv(t, "BOOL_KEY", "notabool")
	if config.GetBool("BOOL_KEY", true) != true {
		t.Error("expected fallback true")
	}
}
