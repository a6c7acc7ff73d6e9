package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config top-level struct
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Webhook   WebhookConfig   `yaml:"webhook"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type RateLimitConfig struct {
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

// WebhookConfig tunes the delivery engine. Zero values fall back to the
// production defaults (5s timeout, 1s retry backoff).
type WebhookConfig struct {
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	RetryBackoffMS   int    `yaml:"retry_backoff_ms"`
	UserAgent        string `yaml:"user_agent"`
	EndpointCacheTTL int    `yaml:"endpoint_cache_ttl_seconds"`
}

func (w WebhookConfig) Timeout() time.Duration {
	if w.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(w.TimeoutSeconds) * time.Second
}

func (w WebhookConfig) RetryBackoff() time.Duration {
	if w.RetryBackoffMS <= 0 {
		return time.Second
	}
	return time.Duration(w.RetryBackoffMS) * time.Millisecond
}

// CacheTTL of 0 disables the endpoint-list cache.
func (w WebhookConfig) CacheTTL() time.Duration {
	if w.EndpointCacheTTL <= 0 {
		return 0
	}
	return time.Duration(w.EndpointCacheTTL) * time.Second
}

// Load reads yaml file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// override DSN password / broker list from env if present
	if pw := os.Getenv("POSTGRES_PASSWORD"); pw != "" {
		cfg.Postgres.DSN = cfg.Postgres.DSN + " password=" + pw
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	return &cfg, nil
}
