// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrMissingRequiredConfig is returned when a required setting is empty
var ErrMissingRequiredConfig = errors.New("missing required configuration")

const (
	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"

	LockBackendDB    = "db"
	LockBackendRedis = "redis"
)

var fieldValidator = validator.New()

// ValidateURL checks that value is an absolute http(s) URL
func ValidateURL(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, name)
	}
	if err := fieldValidator.Var(value, "url,startswith=http"); err != nil {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, value)
	}
	return nil
}

// ValidatePort checks that port is a TCP port number
func ValidatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q", port)
	}
	if err := fieldValidator.Var(n, "min=1,max=65535"); err != nil {
		return fmt.Errorf("port %d out of range", n)
	}
	return nil
}

// ValidatePositiveDuration rejects zero and negative durations
func ValidatePositiveDuration(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be a positive duration, got %s", name, d)
	}
	return nil
}

// ValidateOneOf checks value against the allowed names
func ValidateOneOf(name, value string, allowed ...string) error {
	if err := fieldValidator.Var(value, "oneof="+strings.Join(allowed, " ")); err != nil {
		return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, ", "), value)
	}
	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if strings.HasPrefix(cfg.Database.Password, "MISSING_") || cfg.Database.Password == "atelier_dev" {
		return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
	}

	if cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}

	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}

	if cfg.Storage.Driver == StorageDriverLocal {
		return fmt.Errorf("local storage driver cannot be used in production")
	}

	if strings.HasPrefix(cfg.Sync.FunctionURL, "http://") {
		return fmt.Errorf("sync function must be reached over https in production")
	}

	return nil
}
