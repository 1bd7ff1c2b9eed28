package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"limen-hq/limen/pkg/cli"
	"limen-hq/limen/pkg/config"
	"limen-hq/limen/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile    string
	policyFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "limen",
	Short: "Limen - declarative access control for Apache httpd",
	Long: `Limen compiles a declarative access-control policy into Apache httpd
directive blocks and provisions them into the server's configuration
directory.

A policy document declares which authentication methods are enabled
(file-backed digest auth, LDAP) and which principals (hosts, users,
LDAP groups) may invoke which HTTP operations. Limen merges it with a
restrictive default policy, validates it, and generates deterministic
authentication and <Limit> directive blocks.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "/etc/limen/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&policyFile, "policy", "p", "", "policy document path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the tool configuration and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if policyFile != "" {
		cfg.Policy.Path = policyFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogging installs the default slog logger per configuration. The
// configuration is validated at load time, so setup cannot fail here.
func setupLogging(cfg *config.Config) {
	_, _ = logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}
