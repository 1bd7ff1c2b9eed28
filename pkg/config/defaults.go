package config

import "time"

// Default values for configuration fields.
const (
	// Policy defaults
	DefaultPolicyPath       = "/etc/limen/policy.yaml"
	DefaultPolicyWatch      = true
	DefaultDebounceInterval = 250 * time.Millisecond

	// Httpd defaults
	DefaultConfDir      = "/etc/httpd/conf.auth.d"
	DefaultAuthFile     = "auth.conf"
	DefaultLimitFile    = "limits.conf"
	DefaultFileMode     = "0640"
	DefaultVerifyClient = "none"
	DefaultVerifyDepth  = 1

	// Audit defaults
	DefaultAuditPath         = "/var/lib/limen/audit.db"
	DefaultRetentionDays     = 90
	DefaultRetentionSchedule = "0 3 * * *"

	// Metrics defaults
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// ApplyDefaults applies default values to a Config struct. It sets
// defaults for any fields that have zero values and is idempotent.
func ApplyDefaults(cfg *Config) {
	// Policy defaults
	if cfg.Policy.Path == "" {
		cfg.Policy.Path = DefaultPolicyPath
	}
	if cfg.Policy.DebounceInterval == 0 {
		cfg.Policy.DebounceInterval = DefaultDebounceInterval
	}

	// Httpd defaults
	if cfg.Httpd.ConfDir == "" {
		cfg.Httpd.ConfDir = DefaultConfDir
	}
	if cfg.Httpd.AuthFile == "" {
		cfg.Httpd.AuthFile = DefaultAuthFile
	}
	if cfg.Httpd.LimitFile == "" {
		cfg.Httpd.LimitFile = DefaultLimitFile
	}
	if cfg.Httpd.FileMode == "" {
		cfg.Httpd.FileMode = DefaultFileMode
	}
	if cfg.Httpd.VerifyClient == "" {
		cfg.Httpd.VerifyClient = DefaultVerifyClient
	}
	if cfg.Httpd.VerifyDepth == 0 {
		cfg.Httpd.VerifyDepth = DefaultVerifyDepth
	}

	// Audit defaults
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = DefaultRetentionDays
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultRetentionSchedule
	}

	// Metrics defaults
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
}
