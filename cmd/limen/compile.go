package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"limen-hq/limen/pkg/cli"
	"limen-hq/limen/pkg/compiler"
	"limen-hq/limen/pkg/policy"
)

var compileFlags struct {
	stdout bool
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the policy and provision httpd directive files",
	Long: `Merge the policy document with the built-in defaults, validate it,
compile the authentication and limit directive blocks and write them to
the httpd configuration directory.

A validation failure halts provisioning: nothing is written and the
offending field path is reported.

Examples:
  # Compile and provision using the configured policy path
  limen compile

  # Compile a specific policy document
  limen compile --policy ./policy.yaml

  # Print the compiled blocks instead of writing files
  limen compile --stdout`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().BoolVar(&compileFlags.stdout, "stdout", false, "print compiled blocks instead of provisioning")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)
	ctx := context.Background()
	printer := cli.NewPrinter()

	if compileFlags.stdout {
		override, err := loadOverride(cfg.Policy.Path)
		if err != nil {
			return err
		}
		out, err := compiler.Compile(override)
		if err != nil {
			return exitCodeFor(err)
		}
		printBlock("auth", out.AuthBlock)
		printBlock("limits", out.LimitBlock)
		return nil
	}

	store, err := openAuditStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	p := newPipeline(cfg, store, nil)
	res, err := p.compileOnce(ctx)
	if err != nil {
		return exitCodeFor(err)
	}

	if res.LimitFallback {
		printer.Successf("Provisioned %s (restrictive fallback)", res.LimitPath)
	} else {
		printer.Successf("Provisioned %s", res.LimitPath)
	}
	if res.AuthWritten {
		printer.Successf("Provisioned %s", res.AuthPath)
	} else {
		printer.Notef("No authentication method enabled; auth file not written")
	}
	if res.ServerWritten {
		printer.Successf("Provisioned %s", res.ServerPath)
	}
	return nil
}

// exitCodeFor tags validation failures so scripts can tell a rejected
// policy apart from an operational failure.
func exitCodeFor(err error) error {
	var verr *policy.ValidationError
	if errors.As(err, &verr) {
		return cli.WithCode(cli.ExitInvalidPolicy, err)
	}
	return err
}

func printBlock(name, block string) {
	fmt.Printf("# --- %s ---\n", name)
	if block == "" {
		fmt.Println("# (empty: fallback applies)")
		return
	}
	fmt.Print(block)
}
