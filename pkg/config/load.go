package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// newBaseConfig returns a Config with the true-by-default booleans set.
// YAML unmarshaling overlays this, so an absent key keeps the default and
// an explicit `false` in the file still wins.
func newBaseConfig() *Config {
	return &Config{
		Policy:  PolicyConfig{Watch: DefaultPolicyWatch},
		Audit:   AuditConfig{Enabled: true},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. A missing file yields the pure default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := newBaseConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention LIMEN_SECTION_FIELD (e.g. LIMEN_POLICY_PATH) and always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies LIMEN_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("LIMEN_POLICY_PATH"); val != "" {
		cfg.Policy.Path = val
	}
	if val := os.Getenv("LIMEN_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.Watch = b
		}
	}
	if val := os.Getenv("LIMEN_POLICY_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Policy.DebounceInterval = d
		}
	}

	if val := os.Getenv("LIMEN_HTTPD_CONF_DIR"); val != "" {
		cfg.Httpd.ConfDir = val
	}
	if val := os.Getenv("LIMEN_HTTPD_OWNER"); val != "" {
		cfg.Httpd.Owner = val
	}
	if val := os.Getenv("LIMEN_HTTPD_GROUP"); val != "" {
		cfg.Httpd.Group = val
	}

	if val := os.Getenv("LIMEN_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("LIMEN_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}

	if val := os.Getenv("LIMEN_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("LIMEN_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}

	if val := os.Getenv("LIMEN_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("LIMEN_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}

// Mode parses the configured octal file mode. Call only on a validated
// configuration.
func (h *HttpdConfig) Mode() os.FileMode {
	mode, err := strconv.ParseUint(h.FileMode, 8, 32)
	if err != nil {
		mode = 0o640
	}
	return os.FileMode(mode)
}
