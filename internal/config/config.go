package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string `yaml:"port" env:"SERVER_PORT"`
		Mode          string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath   string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicBaseURL string `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		// Partitions maps a connection id (jo, sa, eg, ps) to its database name.
		// From the environment: DB_PARTITIONS="jo=edu_jo,sa=edu_sa".
		Partitions map[string]string `yaml:"partitions" env:"DB_PARTITIONS"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Cache struct {
		ArticleListTTL string `yaml:"article_list_ttl" env:"CACHE_ARTICLE_LIST_TTL"`
	} `yaml:"cache"`

	Links struct {
		KeywordBasePath string `yaml:"keyword_base_path" env:"LINKS_KEYWORD_BASE_PATH"`
	} `yaml:"links"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`

	Notifications struct {
		QueueSize     int     `yaml:"queue_size" env:"NOTIFY_QUEUE_SIZE"`
		Workers       int     `yaml:"workers" env:"NOTIFY_WORKERS"`
		UserBatchSize int     `yaml:"user_batch_size" env:"NOTIFY_USER_BATCH_SIZE"`
		PushEnabled   bool    `yaml:"push_enabled" env:"PUSH_ENABLED"`
		PushEndpoint  string  `yaml:"push_endpoint" env:"PUSH_ENDPOINT"`
		PushAppID     string  `yaml:"push_app_id" env:"PUSH_APP_ID"`
		PushAPIKey    string  `yaml:"push_api_key" env:"PUSH_API_KEY"`
		PushRate      float64 `yaml:"push_rate" env:"PUSH_RATE"`
		PushBurst     int     `yaml:"push_burst" env:"PUSH_BURST"`
	} `yaml:"notifications"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; environment variables alone are enough in containers.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "storage/public"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.Partitions = map[string]string{
		"jo": "edu_jo",
		"sa": "edu_sa",
		"eg": "edu_eg",
		"ps": "edu_ps",
	}

	config.JWT.Issuer = "edu.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Cache.ArticleListTTL = "60s"

	config.Links.KeywordBasePath = "/keywords"

	config.Seed.AdminEmail = "admin@edu.app"
	config.Seed.AdminName = "Administrator"

	config.Notifications.QueueSize = 256
	config.Notifications.Workers = 2
	config.Notifications.UserBatchSize = 500
	config.Notifications.PushEndpoint = "https://onesignal.com/api/v1/notifications"
	config.Notifications.PushRate = 2
	config.Notifications.PushBurst = 5
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if len(config.Database.Partitions) == 0 {
		return fmt.Errorf("at least one database partition is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime format: %w", err)
	}

	if _, err := time.ParseDuration(config.Cache.ArticleListTTL); err != nil {
		return fmt.Errorf("invalid article list cache TTL format: %w", err)
	}

	if config.Notifications.Workers <= 0 {
		return fmt.Errorf("notification workers must be positive")
	}

	if config.Notifications.PushEnabled && (config.Notifications.PushAppID == "" || config.Notifications.PushAPIKey == "") {
		return fmt.Errorf("push app id and api key are required when push is enabled")
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string for one database name
func (c *Config) GetPostgresConnectionString(dbName string) string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		dbName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// GetEnvAsBool gets an environment variable as a boolean or returns a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	valueLower := strings.ToLower(valueStr)
	if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
		return true
	}
	if valueLower == "false" || valueLower == "0" || valueLower == "no" {
		return false
	}

	return defaultValue
}
