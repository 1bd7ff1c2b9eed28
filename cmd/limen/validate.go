package main

import (
	"errors"

	"github.com/spf13/cobra"

	"limen-hq/limen/pkg/cli"
	"limen-hq/limen/pkg/policy"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a policy document without provisioning",
	Long: `Merge the policy document with the built-in defaults and validate the
result. Nothing is compiled or written.

Exit status is non-zero when the merged policy is invalid; the offending
field path and reason are printed.

Examples:
  # Validate the configured policy document
  limen validate

  # Validate a specific document
  limen validate --policy ./policy.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	override, err := loadOverride(cfg.Policy.Path)
	if err != nil {
		return err
	}

	printer := cli.NewPrinter()
	merged := policy.Merge(policy.DefaultDocument(), override)
	if err := policy.Validate(merged); err != nil {
		var verr *policy.ValidationError
		if errors.As(err, &verr) {
			printer.Failf("%s: %s", verr.Field, verr.Message)
		}
		return cli.WithCode(cli.ExitInvalidPolicy, err)
	}

	printer.Successf("Policy valid")
	return nil
}
