package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Neo4jConfig holds the connection settings for the fact graph database.
type Neo4jConfig struct {
	Uri      string `yaml:"uri"`      // e.g. "bolt://localhost:7687"
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig holds the connection settings for the optional session store.
type RedisConfig struct {
	Address  string `yaml:"address"` // e.g. "localhost:6379"
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig holds the broker settings for the optional ledger sink.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TranscriptionConfig configures the external speech-to-text provider.
// An empty APIKey is a hard configuration error for the /transcribe
// endpoint; the rest of the pipeline does not depend on it.
type TranscriptionConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
}

// BrowsingConfig configures the external browsing/search provider.
// An empty APIKey switches the link resolver into its synthetic-link
// short-circuit; it is not a failure.
type BrowsingConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
}

// ProvidersConfig groups the external provider settings.
type ProvidersConfig struct {
	Transcription TranscriptionConfig `yaml:"transcription"`
	Browsing      BrowsingConfig      `yaml:"browsing"`
}

// SessionConfig selects where per-user tasks and activity notes live.
// "memory" keeps them in-process (lost on restart, matching the facts/
// tasks durability asymmetry); "redis" persists them in Redis.
type SessionConfig struct {
	Backend string `yaml:"backend"` // "memory" or "redis"
}

// LedgerConfig controls the optional Kafka mirror of invocation records.
type LedgerConfig struct {
	PublishToKafka bool `yaml:"publishToKafka"`
}

// DatabaseConfigs contains all backing-store configuration.
type DatabaseConfigs struct {
	Neo4j Neo4jConfig `yaml:"neo4j"`
	Redis RedisConfig `yaml:"redis"`
	Kafka KafkaConfig `yaml:"kafka"`
}

// RateLimiterConfig configures the token-bucket limiter on the API.
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"` // tokens per second
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig configures the breaker on outbound provider calls.
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // e.g. "30s"
}

// MiddlewareConfig groups resilience middleware configuration.
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// AppInfo holds basic application metadata.
type AppInfo struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggerConfig sets the log level ("debug", "info", "warn", "error").
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App        AppInfo         `yaml:"app"`
	Server     ServerConfig    `yaml:"server"`
	Logger     LoggerConfig    `yaml:"logger"`
	Databases  DatabaseConfigs `yaml:"databases"`
	Providers  ProvidersConfig `yaml:"providers"`
	Session    SessionConfig   `yaml:"session"`
	Ledger     LedgerConfig    `yaml:"ledger"`
	Middleware MiddlewareConfig `yaml:"middleware"`
}

// DefaultConfig returns a configuration suitable for a local demo run.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		App:    AppInfo{Name: "lifeops-agent", Environment: "development"},
		Server: ServerConfig{Port: 8000},
		Logger: LoggerConfig{Level: "info"},
		Databases: DatabaseConfigs{
			Neo4j: Neo4jConfig{
				Uri:      "bolt://localhost:7687",
				Username: "neo4j",
				Password: "password",
				Database: "neo4j",
			},
			Redis: RedisConfig{Address: "localhost:6379"},
			Kafka: KafkaConfig{Topic: "lifeops_invocations"},
		},
		Session: SessionConfig{Backend: "memory"},
		Middleware: MiddlewareConfig{
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				SuccessThreshold: 2,
				Timeout:          "30s",
			},
		},
	}
}

// LoadConfig reads and parses the YAML configuration file at path. A
// missing file is not an error: the defaults are returned so the service
// can be configured entirely through the environment.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the configuration. Env
// values always win over file values.
func (c *AppConfig) ApplyEnv() {
	setString(&c.Databases.Neo4j.Uri, "NEO4J_URI")
	setString(&c.Databases.Neo4j.Username, "NEO4J_USERNAME")
	setString(&c.Databases.Neo4j.Password, "NEO4J_PASSWORD")
	setString(&c.Databases.Neo4j.Database, "NEO4J_DATABASE")
	setString(&c.Databases.Redis.Address, "REDIS_ADDRESS")
	setString(&c.Providers.Transcription.APIKey, "MODULATE_API_KEY")
	setString(&c.Providers.Transcription.BaseURL, "MODULATE_BASE_URL")
	setString(&c.Providers.Browsing.APIKey, "YUTORI_API_KEY")
	setString(&c.Providers.Browsing.BaseURL, "YUTORI_BASE_URL")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
