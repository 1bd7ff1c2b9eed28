// Package config provides configuration management for the Limen tool.
//
// This package handles loading, validating, and managing the tool's own
// configuration from YAML files with environment variable overrides. The
// access-control policy document is separate - see pkg/policy - and is
// deliberately never mixed into this structure: tool configuration changes
// must not be able to alter the compiled access policy.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. LIMEN_* environment variable overrides
//  4. Validation (fails if invalid)
//
// Environment variables follow the naming convention LIMEN_SECTION_FIELD,
// for example LIMEN_POLICY_PATH or LIMEN_HTTPD_CONF_DIR.
package config
