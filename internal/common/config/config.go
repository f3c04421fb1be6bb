package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"3001"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Database struct {
		// Driver selects the SQL driver: postgres, mysql or sqlite3.
		Driver string `env:"DB_DRIVER" envDefault:"postgres"`
		// DSN is driver-specific; mysql DSNs get parseTime enabled
		// automatically when the pool is opened.
		DSN             string        `env:"DB_DSN"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	Uploads struct {
		// Dir is the content directory for profile pictures, served
		// statically under /uploads.
		Dir string `env:"UPLOADS_DIR" envDefault:"uploads"`
	}

	Email struct {
		// An empty API key disables outgoing email entirely.
		SendGridAPIKey string        `env:"SENDGRID_API_KEY"`
		FromAddress    string        `env:"EMAIL_FROM" envDefault:"no-reply@localhost"`
		FromName       string        `env:"EMAIL_FROM_NAME" envDefault:"Course Platform"`
		SendTimeout    time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"10s"`
	}
}

func Load() (*Config, error) {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
