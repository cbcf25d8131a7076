package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	EventsChannel      string
	JWTSecret          string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	AdminWindow        time.Duration
	AdminCacheTTL      time.Duration
	FunctionRateLimit  int
	FunctionRateWindow time.Duration
	MaxUploadBytes     int64
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
// An empty OpenAI key is accepted; completion calls report it.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FLOWCOACH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "FlowCoach API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.url", "sqlite://flowcoach.db")
	v.SetDefault("events.channel", "flowcoach:submissions")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("admin.window", "10h")
	v.SetDefault("admin.cache_ttl", "30s")
	v.SetDefault("functions.rate_limit", 10)
	v.SetDefault("functions.rate_window", "1m")
	v.SetDefault("upload.max_bytes", 2<<20)

	window, err := parseDuration(v, "admin.window", 10*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid admin window: %w", err)
	}

	cacheTTL, err := parseDuration(v, "admin.cache_ttl", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid admin cache ttl: %w", err)
	}

	rateWindow, err := parseDuration(v, "functions.rate_window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid function rate window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		EventsChannel:      v.GetString("events.channel"),
		JWTSecret:          v.GetString("jwt.secret"),
		OpenAIAPIKey:       v.GetString("openai_api_key"),
		OpenAIModel:        v.GetString("openai.model"),
		OpenAIBaseURL:      v.GetString("openai.base_url"),
		AdminWindow:        window,
		AdminCacheTTL:      cacheTTL,
		FunctionRateLimit:  v.GetInt("functions.rate_limit"),
		FunctionRateWindow: rateWindow,
		MaxUploadBytes:     v.GetInt64("upload.max_bytes"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 2 << 20
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return fallback, nil
	}
	return value, nil
}
