package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`
	DBSSLMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`

	ServerPort string `validate:"required,numeric"`

	JWTSecret      string `validate:"required,min=8"`
	JWTExpiryHours int    `validate:"min=1"`

	LogLevel string `validate:"oneof=debug info warn error"`

	AutoMigrate            bool
	ShutdownTimeoutSeconds int `validate:"min=1"`
}

// Load reads an optional .env file and the environment. It reports whether a
// .env file was found so the caller can log it once a logger exists.
func Load() (*Config, bool, error) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tasktracker"),
		DBPassword: getEnv("DB_PASSWORD", "tasktracker"),
		DBName:     getEnv("DB_NAME", "tasktracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "supersecretkey"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.JWTExpiryHours, err = getEnvInt("JWT_EXPIRY_HOURS", 72); err != nil {
		return nil, envLoaded, err
	}
	if cfg.ShutdownTimeoutSeconds, err = getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5); err != nil {
		return nil, envLoaded, err
	}
	if cfg.AutoMigrate, err = getEnvBool("AUTO_MIGRATE", true); err != nil {
		return nil, envLoaded, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, envLoaded, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, envLoaded, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
