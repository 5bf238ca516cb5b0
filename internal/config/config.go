package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	PostgresDSN   string
	RedisAddr     string
	KafkaBrokers  []string
	JWTSecret     string
	TokenTTL      time.Duration
	APIPrefix     string
	UploadDir     string
	PublicBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}

	cfg := &Config{
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  strings.Split(os.Getenv("KAFKA_BROKERS"), ","),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		APIPrefix:     os.Getenv("API_PREFIX"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = "host=localhost user=postgres password=postgres dbname=eshop sslmode=disable"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if len(cfg.KafkaBrokers) == 1 && cfg.KafkaBrokers[0] == "" {
		cfg.KafkaBrokers = []string{"localhost:9092"}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "supersecret"
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "public/uploads"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:8080"
	}

	cfg.TokenTTL = 24 * time.Hour
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			slog.Warn("invalid TOKEN_TTL, falling back to 24h", "value", ttl, "error", err)
		} else {
			cfg.TokenTTL = d
		}
	}

	slog.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"api_prefix", cfg.APIPrefix,
		"upload_dir", cfg.UploadDir,
		"token_ttl", cfg.TokenTTL)
	return cfg
}
