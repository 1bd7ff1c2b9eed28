// Package cli provides shared helpers for the limen command line:
// process exit codes and user-facing result output.
package cli
