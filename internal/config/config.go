package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingSecret is returned by Load when JWT_SECRET is not configured.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Config is the process-wide configuration. It is built once at startup and
// shared read-only by every component that needs it.
type Config struct {
	AppPort        string
	Environment    string
	JWTSecret      string
	BcryptCost     int
	AllowedClients []string

	DatabaseDriver string
	DatabaseDSN    string

	RabbitMQURL string

	RedisAddr      string
	RedisPassword  string
	MentorCacheTTL time.Duration

	OpenRouterAPIKey string
	OpenRouterURL    string
	AdviceModel      string
}

// SetDefaults registers the default value of every key Load reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("ALLOWED_CLIENTS", "http://localhost:3000")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=campusconnect port=5432 sslmode=disable")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("MENTOR_CACHE_TTL", 5*time.Minute)
	v.SetDefault("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("ADVICE_MODEL", "anthropic/claude-3-haiku")
}

// Load builds a Config from v. Defaults are applied and environment variables
// are read before any key is resolved.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:          v.GetString("APP_PORT"),
		Environment:      strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		JWTSecret:        v.GetString("JWT_SECRET"),
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		AllowedClients:   splitOrigins(v.GetString("ALLOWED_CLIENTS")),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		MentorCacheTTL:   v.GetDuration("MENTOR_CACHE_TTL"),
		OpenRouterAPIKey: v.GetString("OPENROUTER_API_KEY"),
		OpenRouterURL:    v.GetString("OPENROUTER_URL"),
		AdviceModel:      v.GetString("ADVICE_MODEL"),
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, ErrMissingSecret
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}
	if len(cfg.AllowedClients) == 0 {
		cfg.AllowedClients = []string{"http://localhost:3000"}
	}
	for _, origin := range cfg.AllowedClients {
		if origin == "*" {
			return nil, errors.New("ALLOWED_CLIENTS must list explicit origins because session cookies are sent with credentials")
		}
	}
	return cfg, nil
}

// IsProduction reports whether cookies must be issued cross-site capable.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
