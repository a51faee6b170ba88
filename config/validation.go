package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the sensitive values required to run the server
// are present. Production additionally requires TLS-mode database connections.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.DBUser == "" {
		errs = append(errs, "database user is not set (DB_USER or db_user secret)")
	}
	if cfg.DBPassword == "" {
		errs = append(errs, "database password is not set (DB_PASSWORD or db_password secret)")
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT secret is not set (JWT_SECRET or jwt_secret secret)")
	}
	if IsProduction() && cfg.DBSSLMode == "disable" {
		errs = append(errs, "DB_SSL_MODE must not be 'disable' in production")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
