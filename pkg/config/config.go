package config

import "time"

// Config is the root configuration structure for Limen. It configures the
// surrounding plumbing only - policy document location, httpd provisioning
// targets, audit trail, metrics and logging. The access-control policy
// itself lives in its own document (see pkg/policy) and is never mixed
// into this structure.
type Config struct {
	// Policy locates the user-supplied policy document and controls
	// watch mode.
	Policy PolicyConfig `yaml:"policy"`

	// Httpd describes the provisioning target: where generated directive
	// files go and the server knobs passed through to them.
	Httpd HttpdConfig `yaml:"httpd"`

	// Audit configures the compile audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Metrics configures the Prometheus endpoint served in run mode.
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`
}

// PolicyConfig locates the policy override document.
type PolicyConfig struct {
	// Path is the policy document path. The file holds a partial policy
	// that is merged onto the built-in defaults. A missing file means
	// "defaults only".
	// Default: "/etc/limen/policy.yaml"
	Path string `yaml:"path"`

	// Watch enables recompile-on-change in run mode.
	// Default: true
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period after a change before a
	// recompile triggers.
	// Default: 250ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// HttpdConfig describes the httpd provisioning target. The server knobs
// (ports, ciphers, TLS protocols, client-cert verification) are carried to
// the generated configuration verbatim; the compiler never interprets them.
type HttpdConfig struct {
	// ConfDir is the directory generated directive files are written to.
	// Default: "/etc/httpd/conf.auth.d"
	ConfDir string `yaml:"conf_dir"`

	// AuthFile and LimitFile are the generated file names inside ConfDir.
	// Defaults: "auth.conf", "limits.conf"
	AuthFile  string `yaml:"auth_file"`
	LimitFile string `yaml:"limit_file"`

	// FileMode is the octal permission mode for generated files.
	// Default: "0640"
	FileMode string `yaml:"file_mode"`

	// Owner and Group name the owner applied to generated files. Empty
	// leaves ownership untouched.
	Owner string `yaml:"owner"`
	Group string `yaml:"group"`

	// ListenPort and ProxyPort are passthrough knobs for the vhost the
	// generated files are included from.
	ListenPort int `yaml:"listen_port"`
	ProxyPort  int `yaml:"proxy_port"`

	// CipherSuite and TLSProtocols are passthrough TLS knobs.
	CipherSuite  string   `yaml:"cipher_suite"`
	TLSProtocols []string `yaml:"tls_protocols"`

	// VerifyClient is the client-certificate verification mode:
	// "none", "optional" or "require".
	// Default: "none"
	VerifyClient string `yaml:"verify_client"`

	// VerifyDepth is the client-certificate chain verification depth.
	// Default: 1
	VerifyDepth int `yaml:"verify_depth"`
}

// AuditConfig configures the compile audit trail.
type AuditConfig struct {
	// Enabled controls whether compile attempts are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "/var/lib/limen/audit.db"
	Path string `yaml:"path"`

	// Retention controls pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig controls audit record retention.
type RetentionConfig struct {
	// Days is the retention window. Zero disables pruning.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is a cron expression for when pruning runs.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled controls whether run mode serves metrics.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics listen address.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the metrics HTTP path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`
}
