package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort          string        `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN       string        `env:"DATABASE_URL"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	JWTSecret         string        `env:"JWT_SECRET"`
	MailerBaseURL     string        `env:"MAILER_BASE_URL"`
	MailerInternalKey string        `env:"MAILER_INTERNAL_KEY"`
	AppBaseURL        string        `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	TempPassword      string        `env:"DEFAULT_TEMP_PASSWORD" envDefault:"Admithub@2026"`
	InviteTokenTTL    time.Duration `env:"INVITE_TOKEN_TTL" envDefault:"168h"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxIdle     time.Duration `env:"DB_CONN_MAX_IDLE" envDefault:"5m"`
	DBConnMaxLife     time.Duration `env:"DB_CONN_MAX_LIFE" envDefault:"30m"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if cfg.PostgresDSN == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.MailerBaseURL == "" {
		log.Fatal("MAILER_BASE_URL is required")
	}

	return cfg
}
