package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"

	StorePostgres = "postgres"
	StoreMongo    = "mongo"

	MailSMTP     = "smtp"
	MailResend   = "resend"
	MailDisabled = "disabled"
)

// Config centraliza la configuración del servicio.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"3000"`

	StoreDriver     string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL     string `env:"DATABASE_URL"`
	AutoMigrate     bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	MongoURI        string `env:"MONGODB_URI"`
	DBName          string `env:"DB_NAME" envDefault:"genesis-api"`
	MongoPoolSize   uint64 `env:"MONGODB_POOL_SIZE" envDefault:"10"`
	ConnectAttempts uint64 `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`

	JWTSecret       string `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresInSec int    `env:"JWT_EXPIRES_IN" envDefault:"3600"`

	MailDriver      string `env:"MAIL_DRIVER" envDefault:"smtp"`
	SMTPHost        string `env:"SMTP_HOST"`
	SMTPPort        int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser        string `env:"SMTP_USER"`
	SMTPPass        string `env:"SMTP_PASS"`
	SMTPFrom        string `env:"SMTP_FROM"`
	SMTPFromName    string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS      bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	ResendAPIKey    string `env:"RESEND_API_KEY"`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL"`
	ResendBaseURL   string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	CORSOrigins      []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5500"`
	MockUsersEnabled bool     `env:"MOCK_USERS_ENABLED" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	switch c.MailDriver {
	case MailSMTP, MailDisabled:
	case MailResend:
		if c.ResendAPIKey == "" || c.ResendFromEmail == "" {
			errs = append(errs, errors.New("RESEND_API_KEY and RESEND_FROM_EMAIL are required for the resend mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.MailDriver))
	}
	if c.JWTExpiresInSec < 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must not be negative"))
	}
	if c.IsProduction() && c.MockUsersEnabled {
		errs = append(errs, errors.New("MOCK_USERS_ENABLED cannot be used in production"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresInSec) * time.Second
}
