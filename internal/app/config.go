package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/certificate"
)

const defaultRequestTimeout = 5 * time.Second

type Config struct {
	Server struct {
		Port           string `toml:"port"`
		RequestTimeout string `toml:"request_timeout"`
	} `toml:"server"`

	Database struct {
		DSN             string `toml:"dsn"`
		ApplyMigrations bool   `toml:"apply_migrations"`
	} `toml:"database"`

	Redis struct {
		Enabled                bool   `toml:"enabled"`
		URL                    string `toml:"url"`
		CertificateKeyTemplate string `toml:"certificate_key_template"`
		OutboxKey              string `toml:"outbox_key"`
	} `toml:"redis"`

	Certificates struct {
		DateFormat string   `toml:"date_format"`
		GroupTypes []string `toml:"group_types"`
	} `toml:"certificates"`

	Display struct {
		TimestampFormat string `toml:"timestamp_format"`
	} `toml:"display"`

	requestTimeout time.Duration
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(path, data)
}

func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database dsn is not specified in config, use postgres://... or a sqlite file path")
	}
	if config.Redis.Enabled && config.Redis.URL == "" {
		return nil, fmt.Errorf("Redis is enabled but redis.url is empty")
	}

	config.requestTimeout = defaultRequestTimeout
	if config.Server.RequestTimeout != "" {
		timeout, err := time.ParseDuration(config.Server.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server.request_timeout %q: %w", config.Server.RequestTimeout, err)
		}
		config.requestTimeout = timeout
	}

	if config.Redis.CertificateKeyTemplate == "" {
		config.Redis.CertificateKeyTemplate = certificate.DefaultKeyTemplate
	}
	if config.Redis.OutboxKey == "" {
		config.Redis.OutboxKey = certificate.DefaultOutboxKey
	}
	if config.Certificates.DateFormat == "" {
		config.Certificates.DateFormat = certificate.DefaultDateFormat
	}
	if len(config.Certificates.GroupTypes) == 0 {
		config.Certificates.GroupTypes = certificate.DefaultGroupTypes
	}
	if config.Display.TimestampFormat == "" {
		config.Display.TimestampFormat = time.RFC3339
	}

	logger.Debug.Printf("Loaded certificate config: %+v", config.Certificates)

	return &config, nil
}

func (c *Config) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c *Config) CertificateConfig() certificate.Config {
	return certificate.Config{
		DateFormat: c.Certificates.DateFormat,
		GroupTypes: c.Certificates.GroupTypes,
	}
}
