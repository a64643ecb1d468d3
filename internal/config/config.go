package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Варианты источника данных
const (
	GatewayREST     = "rest"
	GatewayPostgres = "postgres"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "BITFORCE"

var (
	// ErrInvalidConfig возвращается при некорректной конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server" split_words:"true"`
	Logs     LogsConfig     `toml:"logs" split_words:"true"`
	Metrics  MetricsConfig  `toml:"metrics" split_words:"true"`
	Tracing  TracingConfig  `toml:"tracing" split_words:"true"`
	Gateway  GatewayConfig  `toml:"gateway" split_words:"true"`
	Database DatabaseConfig `toml:"database" split_words:"true"`
	Booking  BookingConfig  `toml:"booking" split_words:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`  // секунды
	WriteTimeout    int `toml:"write_timeout" split_words:"true"` // секунды
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`  // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled" split_words:"true"`
	OTLPEndpoint string  `toml:"otlp_endpoint" split_words:"true"`
	SampleRatio  float64 `toml:"sample_ratio" split_words:"true"`
}

// GatewayConfig источник слотов и бронирований
type GatewayConfig struct {
	Kind    string `toml:"kind" split_words:"true"` // rest | postgres
	URL     string `toml:"url" split_words:"true"`
	Timeout int    `toml:"timeout" split_words:"true"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// BookingConfig параметры доски доступности
type BookingConfig struct {
	RefreshInterval int    `toml:"refresh_interval" split_words:"true"` // секунды
	BoardIdleTTL    int    `toml:"board_idle_ttl" split_words:"true"`   // секунды
	Timezone        string `toml:"timezone" split_words:"true"`
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RefreshEvery интервал автообновления доски
func (b BookingConfig) RefreshEvery() time.Duration {
	return time.Duration(b.RefreshInterval) * time.Second
}

// IdleTTL время жизни неиспользуемой доски
func (b BookingConfig) IdleTTL() time.Duration {
	return time.Duration(b.BoardIdleTTL) * time.Second
}

// Location часовой пояс, в котором считаются границы дня
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Load читает конфигурацию из TOML файла и переменных окружения BITFORCE_*
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "bitforce_booking"
	}
	if c.Gateway.Kind == "" {
		c.Gateway.Kind = GatewayREST
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Booking.RefreshInterval == 0 {
		c.Booking.RefreshInterval = 60
	}
	if c.Booking.BoardIdleTTL == 0 {
		c.Booking.BoardIdleTTL = 15 * 60
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "America/Argentina/Buenos_Aires"
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Gateway.Kind {
	case GatewayREST:
		if c.Gateway.URL == "" {
			return fmt.Errorf("%w: gateway.url is required for rest gateway", ErrInvalidConfig)
		}
	case GatewayPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres gateway", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown gateway.kind %q", ErrInvalidConfig, c.Gateway.Kind)
	}

	if c.Booking.RefreshInterval < 0 || c.Booking.BoardIdleTTL < 0 {
		return fmt.Errorf("%w: booking intervals must be positive", ErrInvalidConfig)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: unknown booking.timezone %q: %v", ErrInvalidConfig, c.Booking.Timezone, err)
	}

	return nil
}
