package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"limen-hq/limen/pkg/audit"
)

var auditFlags struct {
	limit int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent compile audit records",
	Long: `List recent audit records, newest first. Each record covers one compile
attempt: the hash of the merged policy, the outcome, and for rejected
attempts the offending field path.

Examples:
  # The last 20 compile attempts
  limen audit

  # A longer window
  limen audit --limit 100`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().IntVar(&auditFlags.limit, "limit", 20, "maximum records to list")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if !cfg.Audit.Enabled {
		return fmt.Errorf("auditing is disabled in the configuration")
	}
	store, err := audit.Open(&audit.StoreConfig{Path: cfg.Audit.Path})
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), auditFlags.limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No audit records.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tOUTCOME\tPOLICY\tDETAIL")
	for _, r := range records {
		detail := ""
		switch {
		case r.Outcome == audit.OutcomeRejected:
			detail = fmt.Sprintf("%s: %s", r.Field, r.Reason)
		case r.LimitEmpty:
			detail = "limit block empty (fallback)"
		case r.AuthEmpty:
			detail = "no auth method enabled"
		}
		fmt.Fprintf(w, "%s\t%s\t%.12s\t%s\n",
			r.CompiledAt.Format("2006-01-02 15:04:05"), r.Outcome, r.PolicyHash, detail)
	}
	return w.Flush()
}
