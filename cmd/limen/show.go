package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"limen-hq/limen/pkg/policy"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged effective policy",
	Long: `Print the policy document after merging with the built-in defaults,
as YAML. The output is what validation and compilation actually see,
which makes override precedence questions easy to answer.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	override, err := loadOverride(cfg.Policy.Path)
	if err != nil {
		return err
	}
	merged := policy.Merge(policy.DefaultDocument(), override)

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(map[string]any(merged)); err != nil {
		return fmt.Errorf("failed to encode merged policy: %w", err)
	}
	return nil
}
