package provision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"limen-hq/limen/pkg/compiler"
)

// Config contains configuration for the provisioner.
type Config struct {
	// ConfDir is the directory the generated files are written to.
	ConfDir string

	// AuthFileName is the file name for the authentication block.
	// Default: "auth.conf"
	AuthFileName string

	// LimitFileName is the file name for the limit block.
	// Default: "limits.conf"
	LimitFileName string

	// ServerFileName is the file name for the vhost server snippet.
	// Default: "server.conf"
	ServerFileName string

	// Server holds the vhost passthrough knobs rendered into the server
	// snippet. A zero listen port means no snippet is written.
	Server Server

	// FileMode is the permission mode applied to generated files.
	// Default: 0640
	FileMode os.FileMode

	// Owner and Group name the owner applied to generated files. Empty
	// means "leave ownership alone" (the common case when not running
	// as root).
	Owner string
	Group string

	// Notify is invoked after both files have been written, so the
	// running httpd can be told to re-read its configuration. Nil means
	// no notification (the default).
	Notify func(ctx context.Context) error
}

// DefaultConfig returns the default provisioner configuration for the
// given configuration directory.
func DefaultConfig(confDir string) *Config {
	return &Config{
		ConfDir:        confDir,
		AuthFileName:   "auth.conf",
		LimitFileName:  "limits.conf",
		ServerFileName: "server.conf",
		FileMode:       0o640,
	}
}

// Result describes what a provisioning pass actually did.
type Result struct {
	// AuthPath and LimitPath are the paths written (AuthPath is empty
	// when no auth file was written).
	AuthPath  string
	LimitPath string

	// AuthWritten is false when the compiler produced an empty auth
	// block and no authentication file exists after the pass.
	AuthWritten bool

	// ServerPath is the path of the vhost server snippet; ServerWritten
	// is false when no listen port is configured and no snippet exists
	// after the pass.
	ServerPath    string
	ServerWritten bool

	// LimitFallback is true when the hardcoded fallback block was
	// substituted for an empty compiled limit block.
	LimitFallback bool
}

// Provisioner writes compiled directive blocks to the httpd configuration
// directory, applying the fallback contract for empty blocks.
type Provisioner struct {
	config   *Config
	logger   *slog.Logger
	hostname func() (string, error)
}

// New creates a provisioner. A nil logger falls back to slog.Default.
func New(config *Config, logger *slog.Logger) *Provisioner {
	if config.AuthFileName == "" {
		config.AuthFileName = "auth.conf"
	}
	if config.LimitFileName == "" {
		config.LimitFileName = "limits.conf"
	}
	if config.ServerFileName == "" {
		config.ServerFileName = "server.conf"
	}
	if config.FileMode == 0 {
		config.FileMode = 0o640
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		config:   config,
		logger:   logger.With("component", "provision"),
		hostname: os.Hostname,
	}
}

// Apply writes the compiled output to the configuration directory and
// invokes the notify hook. Empty blocks trigger the documented fallbacks:
// the limit file always exists afterwards (with the restrictive fallback
// if need be), the auth file exists only when authentication directives
// were compiled.
func (p *Provisioner) Apply(ctx context.Context, out *compiler.Output) (*Result, error) {
	if err := os.MkdirAll(p.config.ConfDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create conf dir %q: %w", p.config.ConfDir, err)
	}

	res := &Result{
		LimitPath: filepath.Join(p.config.ConfDir, p.config.LimitFileName),
	}

	limitBlock := out.LimitBlock
	if limitBlock == "" {
		host, err := p.hostname()
		if err != nil {
			p.logger.Warn("could not determine canonical hostname for fallback", "error", err)
			host = ""
		}
		limitBlock = FallbackLimitBlock(host)
		res.LimitFallback = true
		p.logger.Info("compiled limit block empty, substituting restrictive fallback",
			"canonical_host", host,
		)
	}
	if err := p.writeFile(res.LimitPath, limitBlock); err != nil {
		return nil, err
	}

	authPath := filepath.Join(p.config.ConfDir, p.config.AuthFileName)
	if out.AuthBlock == "" {
		// No authentication directives: remove any stale auth file so
		// access control relies solely on the limit block.
		if err := os.Remove(authPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale auth file %q: %w", authPath, err)
		}
		p.logger.Info("no authentication method enabled, auth file not written")
	} else {
		if err := p.writeFile(authPath, out.AuthBlock); err != nil {
			return nil, err
		}
		res.AuthPath = authPath
		res.AuthWritten = true
	}

	serverPath := filepath.Join(p.config.ConfDir, p.config.ServerFileName)
	if block := p.config.Server.ConfigBlock(); block == "" {
		if err := os.Remove(serverPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale server snippet %q: %w", serverPath, err)
		}
	} else {
		if err := p.writeFile(serverPath, block); err != nil {
			return nil, err
		}
		res.ServerPath = serverPath
		res.ServerWritten = true
	}

	if p.config.Notify != nil {
		if err := p.config.Notify(ctx); err != nil {
			return nil, fmt.Errorf("reload notification failed: %w", err)
		}
	}

	p.logger.Info("provisioning complete",
		"limit_path", res.LimitPath,
		"limit_fallback", res.LimitFallback,
		"auth_written", res.AuthWritten,
		"server_written", res.ServerWritten,
	)

	return res, nil
}

// writeFile writes content atomically: temp file in the same directory,
// fsync-free rename over the target. httpd never sees a partial file.
func (p *Provisioner) writeFile(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %q: %w", path, err)
	}

	if err := os.Chmod(tmpName, p.config.FileMode); err != nil {
		return fmt.Errorf("failed to set mode on %q: %w", path, err)
	}
	if err := p.chown(tmpName); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}

// chown applies the configured owner and group, when set.
func (p *Provisioner) chown(path string) error {
	if p.config.Owner == "" && p.config.Group == "" {
		return nil
	}

	uid, gid := -1, -1
	if p.config.Owner != "" {
		u, err := user.Lookup(p.config.Owner)
		if err != nil {
			return fmt.Errorf("failed to look up owner %q: %w", p.config.Owner, err)
		}
		uid, err = strconv.Atoi(u.Uid)
		if err != nil {
			return fmt.Errorf("non-numeric uid for owner %q: %w", p.config.Owner, err)
		}
	}
	if p.config.Group != "" {
		g, err := user.LookupGroup(p.config.Group)
		if err != nil {
			return fmt.Errorf("failed to look up group %q: %w", p.config.Group, err)
		}
		gid, err = strconv.Atoi(g.Gid)
		if err != nil {
			return fmt.Errorf("non-numeric gid for group %q: %w", p.config.Group, err)
		}
	}

	if err := os.Chown(path, uid, gid); err != nil {
		return fmt.Errorf("failed to chown %q: %w", path, err)
	}
	return nil
}
