package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig
	Beans   BeansConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type AppConfig struct {
	Name  string `validate:"required"`
	Env   string `validate:"oneof=local production testing"`
	Debug bool
	Port  string `validate:"required,numeric"`
}

// BeansConfig points at the bean definitions file.
type BeansConfig struct {
	File  string `validate:"omitempty,endswith=.yaml|endswith=.yml|endswith=.json"`
	Watch bool
	// DebounceMS delays a reload until the file has been quiet this long.
	DebounceMS int `validate:"gte=0"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string `validate:"required_if=Enabled true"`
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  Get("APP_NAME", "GoBeans"),
			Env:   Get("APP_ENV", "local"),
			Debug: GetBool("APP_DEBUG", true),
			Port:  Get("APP_PORT", "8000"),
		},
		Beans: BeansConfig{
			File:       Get("BEANS_FILE", ""),
			Watch:      GetBool("BEANS_WATCH", false),
			DebounceMS: GetInt("BEANS_WATCH_DEBOUNCE_MS", 200),
		},
		Log: LogConfig{
			Level: Get("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Enabled:   GetBool("METRICS_ENABLED", true),
			Namespace: Get("METRICS_NAMESPACE", "beans"),
		},
	}
}

var validate = validator.New()

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// ── Env helpers ──────────────────────────────────────────────────────────────

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
