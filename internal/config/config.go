package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "BFF_CONFIG_PATH"
	defaultConfigPath = "config/local.yaml"

	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type Config struct {
	Mocked     bool             `yaml:"mocked"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// UpstreamConfig selects where customers, orders and products come from.
// The per-service URLs fall back to BaseURL when empty.
type UpstreamConfig struct {
	Source       string        `yaml:"source"`
	BaseURL      string        `yaml:"base_url"`
	CustomersURL string        `yaml:"customers_url"`
	OrdersURL    string        `yaml:"orders_url"`
	ProductsURL  string        `yaml:"products_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

type PostgresConfig struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Host        string `yaml:"host"`
	Database    string `yaml:"database"`
	QueriesPath string `yaml:"queries_path"`
}

type MonitoringConfig struct {
	StatusURL      string        `yaml:"status_url"`
	StatusInterval time.Duration `yaml:"status_interval"`
}

var (
	mu     sync.RWMutex
	loaded *Config
)

// Default returns the configuration used for any field the file leaves unset
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Upstream: UpstreamConfig{
			Source:  SourceHTTP,
			BaseURL: "http://localhost:3000",
			Timeout: 10 * time.Second,
		},
		Postgres: PostgresConfig{
			QueriesPath: "queries",
		},
		Monitoring: MonitoringConfig{
			StatusURL:      "http://localhost:8080/status",
			StatusInterval: 30 * time.Second,
		},
	}
}

// returns the config file path from the environment, or the default path if it exists
func GetConfigPath() (string, error) {
	if p := os.Getenv(configPathEnv); p != "" {
		return p, nil
	}
	if _, err := os.Stat(defaultConfigPath); err != nil {
		return "", fmt.Errorf("%s is not set and %s is not readable: %w", configPathEnv, defaultConfigPath, err)
	}
	return defaultConfigPath, nil
}

// reads and validates the YAML file at path, making it available through GetConfig
func LoadConfig(path string) error {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(bytes)
	if err != nil {
		return err
	}

	mu.Lock()
	loaded = cfg
	mu.Unlock()
	return nil
}

// Parse decodes YAML on top of the defaults, applies env overrides and validates the result
func Parse(bytes []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// returns a copy of the loaded configuration
func GetConfig() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if loaded == nil {
		return nil, fmt.Errorf("config has not been loaded")
	}
	c := *loaded
	return &c, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"BFF_UPSTREAM_BASE_URL": &cfg.Upstream.BaseURL,
		"BFF_UPSTREAM_SOURCE":   &cfg.Upstream.Source,
		"BFF_SERVER_PORT":       &cfg.Server.Port,
		"BFF_LOG_LEVEL":         &cfg.Log.Level,
		"BFF_POSTGRES_PASSWORD": &cfg.Postgres.Password,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
}

// Validate checks that the configuration can be used to start the server
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	if c.Mocked {
		return nil
	}

	switch c.Upstream.Source {
	case SourceHTTP:
		if c.Upstream.BaseURL == "" && (c.Upstream.CustomersURL == "" || c.Upstream.OrdersURL == "" || c.Upstream.ProductsURL == "") {
			return fmt.Errorf("upstream.base_url is required unless every per-service url is set")
		}
		if c.Upstream.Timeout <= 0 {
			return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
		}
	case SourcePostgres:
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return fmt.Errorf("postgres.host and postgres.database are required for the postgres source")
		}
	default:
		return fmt.Errorf("invalid upstream.source: %s (must be %s or %s)", c.Upstream.Source, SourceHTTP, SourcePostgres)
	}

	return nil
}

func (u UpstreamConfig) CustomersBaseURL() string { return orDefault(u.CustomersURL, u.BaseURL) }

func (u UpstreamConfig) OrdersBaseURL() string { return orDefault(u.OrdersURL, u.BaseURL) }

func (u UpstreamConfig) ProductsBaseURL() string { return orDefault(u.ProductsURL, u.BaseURL) }

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
