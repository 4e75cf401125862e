package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrDatabaseNotConfigured is returned when neither DATABASE_URL nor DB_* variables are set
var ErrDatabaseNotConfigured = errors.New("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")

// Config holds everything read from the environment
type Config struct {
	Env               string
	Port              string
	BaseURL           string
	LogLevel          string
	Database          DatabaseConfig
	Storage           StorageConfig
	AssetEndpoint     string
	AssetFetchTimeout time.Duration
	RedisURL          string
	AssetCacheTTL     time.Duration
	ChromePath        string
}

// DatabaseConfig describes the PostgreSQL connection
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StorageConfig selects the object store backing the asset endpoint
type StorageConfig struct {
	Bucket          string
	CredentialsPath string
	Dir             string
}

// LoadEnvFile loads .env outside production, letting file values override the process environment
func LoadEnvFile(path string) error {
	if os.Getenv("ENV") == "production" {
		return nil
	}
	return godotenv.Overload(path)
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		Env:        getEnv("ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		RedisURL:   os.Getenv("REDIS_URL"),
		ChromePath: os.Getenv("CHROME_PATH"),
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Bucket:          os.Getenv("STORAGE_BUCKET"),
			CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			Dir:             os.Getenv("STORAGE_DIR"),
		},
	}

	// PORT from some hosts includes a leading colon
	cfg.Port = strings.TrimPrefix(getEnv("PORT", "8080"), ":")
	cfg.BaseURL = strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:"+cfg.Port), "/")
	cfg.AssetEndpoint = getEnv("ASSET_ENDPOINT", cfg.BaseURL+"/getImageBase64")

	var err error
	if cfg.AssetFetchTimeout, err = getDuration("ASSET_FETCH_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.AssetCacheTTL, err = getDuration("ASSET_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConnString returns DATABASE_URL or builds a key/value connection string from the DB_* variables
func (c DatabaseConfig) ConnString() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	if c.Host == "" || c.User == "" || c.Name == "" {
		return "", ErrDatabaseNotConfigured
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode), nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
