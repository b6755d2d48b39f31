package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the market command-line tool.
// LoadConfig reads it from YAML and then applies environment overrides.
type Config struct {
	App struct {
		Name string `yaml:"name"`
	} `yaml:"app"`

	Market struct {
		InputFile    string `yaml:"input_file"`
		Echo         bool   `yaml:"echo"`
		SnapshotFile string `yaml:"snapshot_file"` // Empty skips the final snapshot
	} `yaml:"market"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"` // Empty disables the rotating file
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`

	Kafka struct {
		Brokers         []string `yaml:"brokers"` // Empty disables trade publishing
		Topic           string   `yaml:"topic"`
		WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	} `yaml:"kafka"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "heap-market"
	cfg.Market.InputFile = "input.txt"
	cfg.Market.Echo = true
	cfg.Logging.Level = "warn"
	cfg.Logging.MaxSizeMB = 10
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28
	cfg.Kafka.Topic = "market.trades"
	cfg.Kafka.WriteTimeoutSec = 5
	return cfg
}

// LoadConfig reads the YAML file at path over the defaults. A missing file is
// not an error: the defaults are used as they are.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Market.InputFile == "" {
		return errors.New("market.input_file is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return errors.New("log rotation limits must not be negative")
	}

	if len(c.Kafka.Brokers) > 0 {
		if c.Kafka.Topic == "" {
			return errors.New("kafka.topic is required when brokers are set")
		}
		if c.Kafka.WriteTimeoutSec <= 0 {
			return errors.New("kafka.write_timeout_sec must be positive")
		}
	}

	return nil
}

// KafkaWriteTimeout returns the per-publish deadline.
func (c *Config) KafkaWriteTimeout() time.Duration {
	return time.Duration(c.Kafka.WriteTimeoutSec) * time.Second
}

// overrideWithEnv replaces config values with environment variables when they are set.
func overrideWithEnv(cfg *Config) {
	if input := os.Getenv("MARKET_INPUT"); input != "" {
		cfg.Market.InputFile = input
	}
	if level := os.Getenv("MARKET_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if snapshot := os.Getenv("MARKET_SNAPSHOT_FILE"); snapshot != "" {
		cfg.Market.SnapshotFile = snapshot
	}
	if brokers := os.Getenv("MARKET_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
