package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Image storage
	S3Bucket  string
	AWSRegion string
}

// LoadConfig builds a Config from environment variables, falling back to
// Docker-secrets files for sensitive values outside CI.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getenvDefault("SERVER_PORT", "8080"),
		ServerHost: getenvDefault("SERVER_HOST", "0.0.0.0"),
		DBHost:     getenvDefault("DB_HOST", "localhost"),
		DBPort:     getenvDefault("DB_PORT", "5432"),
		DBUser:     getenvOrSecret("DB_USER", "db_user"),
		DBPassword: getenvOrSecret("DB_PASSWORD", "db_password"),
		DBName:     getenvDefault("DB_NAME", "recipes"),
		DBSSLMode:  getenvDefault("DB_SSL_MODE", "disable"),
		RedisHost:  getenvDefault("REDIS_HOST", "localhost"),
		RedisPort:  getenvDefault("REDIS_PORT", "6379"),
		RedisURL:   os.Getenv("REDIS_URL"),
		RedisDB:    0,
		JWTSecret:  getenvOrSecret("JWT_SECRET", "jwt_secret"),
		S3Bucket:   getenvDefault("S3_BUCKET_NAME", "platewise-recipe-images"),
		AWSRegion:  os.Getenv("AWS_REGION"),
	}
	cfg.RedisPassword = getenvOrSecret("REDIS_PASSWORD", "redis_password")

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getenvOrSecret reads an environment variable, then the matching Docker
// secret file. CI provides everything through the environment.
func getenvOrSecret(key, secret string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readSecret(secret)
}

// readSecret reads a Docker secret from the secrets directory.
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
