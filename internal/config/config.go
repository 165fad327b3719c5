package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream connection and stream naming configuration
type NATSConfig struct {
	URL                 string        `mapstructure:"url"`
	StreamName          string        `mapstructure:"stream_name"`
	Subject             string        `mapstructure:"subject"`
	ConsumerName        string        `mapstructure:"consumer_name"`
	FailedStreamName    string        `mapstructure:"failed_stream_name"`
	CompletedStreamName string        `mapstructure:"completed_stream_name"`
	MaxReconnects       int           `mapstructure:"max_reconnects"`
	ReconnectWait       time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName      string        `mapstructure:"connection_name"`
}

// QueueConfig holds the delivery contract of the floor ask job queue
type QueueConfig struct {
	MaxAttempts      int           `mapstructure:"max_attempts"`
	InitialBackoff   time.Duration `mapstructure:"initial_backoff"`
	JobTimeout       time.Duration `mapstructure:"job_timeout"`
	FailedSetSize    int64         `mapstructure:"failed_set_size"`
	CompletedSetSize int64         `mapstructure:"completed_set_size"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency        int    `mapstructure:"concurrency"`
	MaxConflictRetries int    `mapstructure:"max_conflict_retries"`
	BlocklistFile      string `mapstructure:"blocklist_file"` // JSON array of contract addresses to skip
}

// ExpirySweeperConfig holds configuration for the floor ask expiry sweeper
type ExpirySweeperConfig struct {
	Interval           time.Duration `mapstructure:"interval"`
	BatchSize          int           `mapstructure:"batch_size"`
	ActivationLookback time.Duration `mapstructure:"activation_lookback"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host               string          `mapstructure:"host"`
	Port               int             `mapstructure:"port"`
	ReadTimeout        int             `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout       int             `mapstructure:"write_timeout"` // in seconds
	IdleTimeout        int             `mapstructure:"idle_timeout"`  // in seconds
	CORSAllowedOrigins []string        `mapstructure:"cors_allowed_origins"`
	RateLimit          RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds per-caller rate limiting of the admin API
type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables limiting
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// FloorAskWorkerConfig holds configuration for floor-ask-worker
type FloorAskWorkerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Queue      QueueConfig    `mapstructure:"queue"`
	Worker     WorkerConfig   `mapstructure:"worker"`
}

// APIConfig holds configuration for the admin API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig `mapstructure:"server"`
	Auth       AuthConfig   `mapstructure:"auth"`
	NATS       NATSConfig   `mapstructure:"nats"`
	Queue      QueueConfig  `mapstructure:"queue"`
}

// SweeperConfig holds configuration for the sweeper program
type SweeperConfig struct {
	BaseConfig    `mapstructure:",squash"`
	Database      DatabaseConfig      `mapstructure:"database"`
	NATS          NATSConfig          `mapstructure:"nats"`
	Queue         QueueConfig         `mapstructure:"queue"`
	ExpirySweeper ExpirySweeperConfig `mapstructure:"expiry_sweeper"`
}

// CLIConfig holds configuration for floor-ask-cli
type CLIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Queue      QueueConfig    `mapstructure:"queue"`
	Worker     WorkerConfig   `mapstructure:"worker"`
}

// LoadFloorAskWorkerConfig loads configuration for floor-ask-worker
func LoadFloorAskWorkerConfig(configFile string, envPath string) (*FloorAskWorkerConfig, error) {
	v := configureViper("floor-ask-worker", configFile, envPath)

	setDatabaseDefaults(v)
	setQueueDefaults(v)
	v.SetDefault("nats.consumer_name", "floor-ask-worker")
	v.SetDefault("nats.connection_name", "floor-ask-worker")
	v.SetDefault("worker.concurrency", domain.DEFAULT_WORKER_CONCURRENCY)
	v.SetDefault("worker.max_conflict_retries", 5)

	var config FloorAskWorkerConfig
	if err := readAndUnmarshal(v, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadAPIConfig loads configuration for the admin API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setQueueDefaults(v)
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.rate_limit.requests_per_second", 10)
	v.SetDefault("server.rate_limit.burst", 20)
	v.SetDefault("server.rate_limit.idle_ttl", "10m")
	v.SetDefault("nats.connection_name", "floor-ask-api")

	var config APIConfig
	if err := readAndUnmarshal(v, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadSweeperConfig loads configuration for the sweeper program
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	setDatabaseDefaults(v)
	setQueueDefaults(v)
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("nats.connection_name", "floor-ask-sweeper")
	v.SetDefault("expiry_sweeper.interval", "1m")
	v.SetDefault("expiry_sweeper.batch_size", 500)
	v.SetDefault("expiry_sweeper.activation_lookback", "1h")

	var cfg SweeperConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

// LoadCLIConfig loads configuration for floor-ask-cli
func LoadCLIConfig(configFile string, envPath string) (*CLIConfig, error) {
	v := configureViper("floor-ask-cli", configFile, envPath)

	setDatabaseDefaults(v)
	setQueueDefaults(v)
	v.SetDefault("nats.connection_name", "floor-ask-cli")
	v.SetDefault("worker.max_conflict_retries", 5)

	var config CLIConfig
	if err := readAndUnmarshal(v, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

func setQueueDefaults(v *viper.Viper) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "FLOOR_ASK_JOBS")
	v.SetDefault("nats.subject", "floor-ask.jobs")
	v.SetDefault("nats.failed_stream_name", "FLOOR_ASK_JOBS_FAILED")
	v.SetDefault("nats.completed_stream_name", "FLOOR_ASK_JOBS_COMPLETED")
	v.SetDefault("queue.max_attempts", domain.DEFAULT_JOB_MAX_ATTEMPTS)
	v.SetDefault("queue.initial_backoff", domain.DEFAULT_JOB_BACKOFF.String())
	v.SetDefault("queue.job_timeout", domain.DEFAULT_JOB_TIMEOUT.String())
	v.SetDefault("queue.failed_set_size", domain.DEFAULT_FAILED_SET_SIZE)
	v.SetDefault("queue.completed_set_size", domain.DEFAULT_COMPLETED_SET_SIZE)
}

// readAndUnmarshal reads the config file when present and unmarshals into out
func readAndUnmarshal(v *viper.Viper, out interface{}) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found, use environment variables
		} else {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/sweeper/, cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_FLOOR_ASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject",
		"nats.consumer_name",
		"nats.failed_stream_name",
		"nats.completed_stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Queue
		"queue.max_attempts",
		"queue.initial_backoff",
		"queue.job_timeout",
		"queue.failed_set_size",
		"queue.completed_set_size",
		// Worker
		"worker.concurrency",
		"worker.max_conflict_retries",
		"worker.blocklist_file",
		// Sweeper
		"expiry_sweeper.interval",
		"expiry_sweeper.batch_size",
		"expiry_sweeper.activation_lookback",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_allowed_origins",
		"server.rate_limit.requests_per_second",
		"server.rate_limit.burst",
		"server.rate_limit.idle_ttl",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot walks up from the working directory to the first one holding a config/ directory
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
