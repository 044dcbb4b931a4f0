package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// WorkerConfig configures the outbox worker. The worker runs in
// environments without a config file, so it reads the environment
// directly.
type WorkerConfig struct {
	DatabaseHost     string        `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int           `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string        `envconfig:"DB_USER" default:"postgres"`
	DatabasePassword string        `envconfig:"DB_PASSWORD" required:"true"`
	DatabaseName     string        `envconfig:"DB_NAME" default:"patient_records"`
	DatabaseSSLMode  string        `envconfig:"DB_SSLMODE" default:"disable"`
	RedisURL         string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	EventChannel     string        `envconfig:"EVENT_CHANNEL" default:"patient-events"`
	BatchSize        int           `envconfig:"BATCH_SIZE" default:"50"`
	PollInterval     time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	RetentionPeriod  time.Duration `envconfig:"RETENTION_PERIOD" default:"168h"`

	SMTPHost        string   `envconfig:"SMTP_HOST"`
	SMTPPort        int      `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser        string   `envconfig:"SMTP_USER"`
	SMTPPassword    string   `envconfig:"SMTP_PASSWORD"`
	SMTPFrom        string   `envconfig:"SMTP_FROM"`
	AlertRecipients []string `envconfig:"ALERT_RECIPIENTS"`
}

func LoadWorkerConfig() (*WorkerConfig, error) {
	var cfg WorkerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process worker config: %w", err)
	}
	return &cfg, nil
}

// Database returns the worker's store settings in the shape the
// shared connection helper expects.
func (c *WorkerConfig) Database() DatabaseConfig {
	return DatabaseConfig{
		Host:     c.DatabaseHost,
		Port:     c.DatabasePort,
		User:     c.DatabaseUser,
		Password: c.DatabasePassword,
		Name:     c.DatabaseName,
		SSLMode:  c.DatabaseSSLMode,
	}
}
