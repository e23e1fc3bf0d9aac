package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	CredentialsSourceEnv            = "env"
	CredentialsSourceFile           = "file"
	CredentialsSourceSecretsManager = "secretsmanager"
)

type Config struct {
	ServiceName string
	Version     string
	Environment string
	Port        string

	LogLevel  string
	LogFormat string

	CORSOrigins []string

	DBURL             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBQueryTimeout    time.Duration
	DBConnectRetries  int

	CredentialsSource          string
	BasicAuthUsername          string
	BasicAuthPassword          string
	CredentialsFile            string
	CredentialsSecretName      string
	AWSRegion                  string
	CredentialsRefreshInterval time.Duration
	JWTSecretKey               string

	RabbitMQURL string

	HealthCheckTimeout time.Duration
	ShutdownTimeout    time.Duration
}

func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	cfg := &Config{
		ServiceName:           envString("SERVICE_NAME", "customer-data-service"),
		Version:               envString("SERVICE_VERSION", "1.0.0"),
		Environment:           envString("ENVIRONMENT", "development"),
		Port:                  envString("PORT", "8080"),
		LogLevel:              strings.ToLower(envString("LOG_LEVEL", "info")),
		LogFormat:             strings.ToLower(envString("LOG_FORMAT", "json")),
		CORSOrigins:           splitList(envString("CORS_ORIGINS", "*")),
		DBURL:                 os.Getenv("DB_URL"),
		CredentialsSource:     strings.ToLower(envString("CREDENTIALS_SOURCE", CredentialsSourceEnv)),
		BasicAuthUsername:     os.Getenv("BASIC_AUTH_USERNAME"),
		BasicAuthPassword:     os.Getenv("BASIC_AUTH_PASSWORD"),
		CredentialsFile:       os.Getenv("CREDENTIALS_FILE"),
		CredentialsSecretName: os.Getenv("API_CREDENTIALS_SECRET_NAME"),
		AWSRegion:             envString("AWS_REGION", "eu-west-1"),
		JWTSecretKey:          os.Getenv("JWT_SECRET_KEY"),
		RabbitMQURL:           os.Getenv("RABBITMQ_URL"),
	}

	if cfg.DBURL == "" {
		log.Error().Msg("DB_URL environment variable is not set")
		return nil, errors.New("DB_URL is required")
	}

	var err error
	if cfg.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.DBConnectRetries, err = envInt("DB_CONNECT_RETRIES", 10); err != nil {
		return nil, err
	}
	if cfg.DBConnMaxLifetime, err = envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DBQueryTimeout, err = envDuration("DB_QUERY_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.CredentialsRefreshInterval, err = envDuration("CREDENTIALS_REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.HealthCheckTimeout, err = envDuration("HEALTH_CHECK_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.RabbitMQURL == "" {
		log.Info().Msg("RABBITMQ_URL not set, customer events will not be published")
	}

	return cfg, nil
}

// Validate checks cross-field constraints that env parsing alone cannot.
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production, got %q", c.Environment)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	switch c.CredentialsSource {
	case CredentialsSourceEnv:
		if c.BasicAuthUsername == "" || c.BasicAuthPassword == "" {
			return errors.New("BASIC_AUTH_USERNAME and BASIC_AUTH_PASSWORD are required when CREDENTIALS_SOURCE=env")
		}
	case CredentialsSourceFile:
		if c.CredentialsFile == "" {
			return errors.New("CREDENTIALS_FILE is required when CREDENTIALS_SOURCE=file")
		}
	case CredentialsSourceSecretsManager:
		if c.CredentialsSecretName == "" {
			return errors.New("API_CREDENTIALS_SECRET_NAME is required when CREDENTIALS_SOURCE=secretsmanager")
		}
	default:
		return fmt.Errorf("CREDENTIALS_SOURCE must be env, file or secretsmanager, got %q", c.CredentialsSource)
	}

	if c.DBQueryTimeout <= 0 {
		return errors.New("DB_QUERY_TIMEOUT must be positive")
	}
	if c.HealthCheckTimeout <= 0 {
		return errors.New("HEALTH_CHECK_TIMEOUT must be positive")
	}
	if c.CredentialsRefreshInterval < 0 {
		return errors.New("CREDENTIALS_REFRESH_INTERVAL cannot be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 5s, got %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
