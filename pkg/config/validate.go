package config

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g. "httpd.conf_dir").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. All errors are collected
// and returned together as a ValidationError; nil means valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validateHttpd(&cfg.Httpd)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "policy.path",
			Message: "policy document path is required",
		})
	}
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "policy.debounce_interval",
			Message: "debounce interval must be positive",
		})
	}

	return errs
}

func validateHttpd(cfg *HttpdConfig) []FieldError {
	var errs []FieldError

	if cfg.ConfDir == "" {
		errs = append(errs, FieldError{
			Field:   "httpd.conf_dir",
			Message: "configuration directory is required",
		})
	}
	if strings.ContainsRune(cfg.AuthFile, '/') {
		errs = append(errs, FieldError{
			Field:   "httpd.auth_file",
			Message: "must be a bare file name, not a path",
		})
	}
	if strings.ContainsRune(cfg.LimitFile, '/') {
		errs = append(errs, FieldError{
			Field:   "httpd.limit_file",
			Message: "must be a bare file name, not a path",
		})
	}
	if cfg.AuthFile != "" && cfg.AuthFile == cfg.LimitFile {
		errs = append(errs, FieldError{
			Field:   "httpd.limit_file",
			Message: "auth and limit files must not share a name",
		})
	}

	if cfg.FileMode != "" {
		if _, err := strconv.ParseUint(cfg.FileMode, 8, 32); err != nil {
			errs = append(errs, FieldError{
				Field:   "httpd.file_mode",
				Message: fmt.Sprintf("invalid octal mode %q", cfg.FileMode),
			})
		}
	}

	if cfg.ListenPort < 0 || cfg.ListenPort > 65535 {
		errs = append(errs, FieldError{
			Field:   "httpd.listen_port",
			Message: "port must be between 0 and 65535",
		})
	}
	if cfg.ProxyPort < 0 || cfg.ProxyPort > 65535 {
		errs = append(errs, FieldError{
			Field:   "httpd.proxy_port",
			Message: "port must be between 0 and 65535",
		})
	}

	validVerify := map[string]bool{"none": true, "optional": true, "require": true}
	if cfg.VerifyClient != "" && !validVerify[cfg.VerifyClient] {
		errs = append(errs, FieldError{
			Field:   "httpd.verify_client",
			Message: fmt.Sprintf("invalid mode %q: must be 'none', 'optional' or 'require'", cfg.VerifyClient),
		})
	}
	if cfg.VerifyDepth < 0 {
		errs = append(errs, FieldError{
			Field:   "httpd.verify_depth",
			Message: "verify depth must be non-negative",
		})
	}

	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "audit.path",
			Message: "database path is required when audit is enabled",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "retention days must be non-negative",
		})
	}

	return errs
}

func validateMetrics(cfg *MetricsConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}
	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "metrics.listen_address",
			Message: "listen address is required when metrics are enabled",
		})
	}
	if cfg.Path == "" || cfg.Path[0] != '/' {
		errs = append(errs, FieldError{
			Field:   "metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Level] {
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Format] {
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Format),
		})
	}

	return errs
}
