package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the registry
// restructurer. All configuration is loaded from YAML and can be
// overridden by environment variables.
type Config struct {
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	Database      DatabaseConfig      `yaml:"database"`
	API           APIConfig           `yaml:"api"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	InfluxDB      InfluxDBConfig      `yaml:"influxdb"`
	Naming        NamingConfig        `yaml:"naming"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// HomeAssistantConfig contains the connection settings for the
// platform being restructured.
type HomeAssistantConfig struct {
	// BaseURL is the REST endpoint root, e.g. http://homeassistant:8123.
	BaseURL string `yaml:"base_url"`
	// WebSocketURL is the registry command endpoint. Derived from
	// BaseURL when empty.
	WebSocketURL string `yaml:"websocket_url"`
	// Token is a long-lived access token.
	Token string `yaml:"token"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Token    string           `yaml:"token"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// MQTTConfig contains MQTT broker connection settings for rename
// event publishing.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for scan and
// rename metrics.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// NamingConfig contains naming and suggestion behavior settings.
type NamingConfig struct {
	// Language selects the type-label language (e.g. "en", "de").
	Language string `yaml:"language"`
	// SuggestionLimit caps replacement suggestions per missing entity.
	SuggestionLimit int `yaml:"suggestion_limit"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: RESTRUCTURER_SECTION_KEY
// For example: RESTRUCTURER_DATABASE_PATH, RESTRUCTURER_HA_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.HomeAssistant.WebSocketURL == "" {
		cfg.HomeAssistant.WebSocketURL = deriveWebSocketURL(cfg.HomeAssistant.BaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/restructurer.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8093,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "registry-restructurer",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Naming: NamingConfig{
			Language:        "en",
			SuggestionLimit: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern:
// RESTRUCTURER_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Home Assistant
	if v := os.Getenv("RESTRUCTURER_HA_URL"); v != "" {
		cfg.HomeAssistant.BaseURL = v
	}
	if v := os.Getenv("RESTRUCTURER_HA_WEBSOCKET_URL"); v != "" {
		cfg.HomeAssistant.WebSocketURL = v
	}
	if v := os.Getenv("RESTRUCTURER_HA_TOKEN"); v != "" {
		cfg.HomeAssistant.Token = v
	}

	// Database
	if v := os.Getenv("RESTRUCTURER_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("RESTRUCTURER_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("RESTRUCTURER_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}

	// MQTT
	if v := os.Getenv("RESTRUCTURER_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("RESTRUCTURER_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("RESTRUCTURER_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("RESTRUCTURER_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// deriveWebSocketURL turns a REST base URL into the matching
// websocket endpoint: http -> ws, https -> wss, path /api/websocket.
func deriveWebSocketURL(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	ws := baseURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return strings.TrimRight(ws, "/") + "/api/websocket"
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.HomeAssistant.BaseURL == "" {
		errs = append(errs, "homeassistant.base_url is required")
	}

	// A missing token means every registry call fails with a 401;
	// refuse to start rather than limp along.
	if c.HomeAssistant.Token == "" {
		errs = append(errs, "homeassistant.token is required (set RESTRUCTURER_HA_TOKEN environment variable)")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Naming.SuggestionLimit < 1 {
		errs = append(errs, "naming.suggestion_limit must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
