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
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	StatsCacheTTL          time.Duration
	AIProvider             string
	AIModel                string
	AIMaxAttempts          int
	AIRequestTimeout       time.Duration
	OpenAIAPIKey           string
	GeminiAPIKey           string
	AIRateLimitMax         int
	AIRateLimitWindow      time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDUSPARK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EduSpark API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "eduspark/thumbnails")
	v.SetDefault("stats.cache_ttl", "1m")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.max_attempts", 2)
	v.SetDefault("ai.request_timeout", "30s")
	v.SetDefault("ai.rate_limit_max", 10)
	v.SetDefault("ai.rate_limit_window", "1m")

	ttl, err := time.ParseDuration(v.GetString("stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	requestTimeout, err := time.ParseDuration(v.GetString("ai.request_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai request timeout: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("ai.rate_limit_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai rate limit window: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		StatsCacheTTL:          ttl,
		AIProvider:             strings.ToLower(v.GetString("ai.provider")),
		AIModel:                v.GetString("ai.model"),
		AIMaxAttempts:          v.GetInt("ai.max_attempts"),
		AIRequestTimeout:       requestTimeout,
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		GeminiAPIKey:           v.GetString("gemini_api_key"),
		AIRateLimitMax:         v.GetInt("ai.rate_limit_max"),
		AIRateLimitWindow:      rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AIMaxAttempts <= 0 {
		cfg.AIMaxAttempts = 2
	}

	return cfg, nil
}
