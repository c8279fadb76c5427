package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DBFile is the YAML connection file shape: username, password, host, port, db_name.
type DBFile struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DBName   string `yaml:"db_name"`
	SSLMode  string `yaml:"sslmode"`
}

// URL composes a postgres:// connection URL.
func (f DBFile) URL() string {
	port := f.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(f.Username, f.Password),
		Host:   fmt.Sprintf("%s:%d", f.Host, port),
		Path:   "/" + f.DBName,
	}
	if f.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(f.SSLMode)
	}
	return u.String()
}

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string
	DBMaxConns  int
	RedisURL    string
	MongoDBURL  string
	MongoDBName string

	// Admin routes
	AdminJWTSecret string

	// Cache
	ReferenceCacheTTL time.Duration

	// Generation
	GenerateMaxCount      int
	GenerateMaxConcurrent int
	GenerateRatePerMin    int
}

// Load reads the environment and, when path (or CUSTMAKER_CONFIG) names a YAML
// file, derives DATABASE_URL from it unless DATABASE_URL is already set.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8050"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 10),
		RedisURL:    getEnv("REDIS_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "custmaker"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		ReferenceCacheTTL: time.Duration(getEnvInt("CACHE_REFERENCE_TTL_MIN", 60)) * time.Minute,

		GenerateMaxCount:      getEnvInt("GENERATE_MAX_COUNT", 1_000_000),
		GenerateMaxConcurrent: getEnvInt("GENERATE_MAX_CONCURRENT", 2),
		GenerateRatePerMin:    getEnvInt("GENERATE_RATE_PER_MIN", 30),
	}

	if path == "" {
		path = os.Getenv("CUSTMAKER_CONFIG")
	}
	if path != "" && cfg.DatabaseURL == "" {
		f, err := LoadDBFile(path)
		if err != nil {
			return nil, err
		}
		cfg.DatabaseURL = f.URL()
	}

	return cfg, nil
}

// LoadDBFile reads the YAML connection file. A leading ~ is expanded.
func LoadDBFile(path string) (*DBFile, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f DBFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if f.Host == "" || f.DBName == "" {
		return nil, fmt.Errorf("config file %s: host and db_name are required", path)
	}
	return &f, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Validate checks the settings a running server needs.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL or a YAML config file is required")
	}
	if c.GenerateMaxCount <= 0 {
		return fmt.Errorf("GENERATE_MAX_COUNT must be positive, got %d", c.GenerateMaxCount)
	}
	if c.IsProduction() && c.AdminJWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
