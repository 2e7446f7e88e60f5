package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/crypto"
)

type Config struct {
	Addr           string        `env:"ADDR" envDefault:":8000"`
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	JWTSecret      string        `env:"JWT_SECRET,required"`
	JWTLifetime    time.Duration `env:"JWT_LIFETIME" envDefault:"24h"`
	AllowedOrigins string        `env:"ALLOWED_ORIGINS" envDefault:"*"`
	ClientURL      string        `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	// Must decode to exactly 32 bytes; checked at startup, not per request.
	PhoneEncryptionKey string `env:"PHONE_ENCRYPTION_KEY,required"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"no-reply@fetchquest.app"`

	SpacesKey      string `env:"SPACES_KEY"`
	SpacesSecret   string `env:"SPACES_SECRET"`
	SpacesRegion   string `env:"SPACES_REGION" envDefault:"blr1"`
	SpacesBucket   string `env:"SPACES_BUCKET"`
	SpacesEndpoint string `env:"SPACES_ENDPOINT"`
}

// Load reads .env if present, then the environment. Configuration errors are
// returned so main can make them fatal; nothing here is retried at runtime.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.PhoneEncryptionKey) != crypto.KeyLength {
		return nil, fmt.Errorf("PHONE_ENCRYPTION_KEY must be %d characters long", crypto.KeyLength)
	}
	return &cfg, nil
}
