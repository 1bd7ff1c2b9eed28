// Package policy defines the access-control policy document model for Limen.
//
// A policy document describes which authentication methods are enabled and
// which principals (hosts, users, LDAP groups) may invoke which HTTP
// operations. Documents move through three stages:
//
//  1. Merge - a user-supplied partial document is deep-merged onto the
//     built-in default document (override wins, key by key).
//  2. Validate - the merged raw document is checked against structural and
//     semantic constraints. Validation fails fast on the first violation
//     and reports the offending field path.
//  3. Decode - the validated raw document is converted into the typed
//     Policy value that the directive compilers consume.
//
// Merge operates on raw documents (nested maps) and is total: it never
// fails, even on structurally invalid input. Validation is the single
// gate between raw input and compilation; nothing downstream of Decode
// needs to re-check shapes.
//
// All functions in this package are pure: they perform no I/O and never
// mutate their inputs. The one exception is Load, which reads a policy
// document from a YAML file on behalf of the CLI.
package policy
