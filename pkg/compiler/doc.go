// Package compiler turns a validated access-control policy into Apache
// httpd directive blocks.
//
// Two independent compilers produce two independent text blocks:
//
//   - CompileAuth emits authentication provider directives (file-backed
//     digest auth, LDAP basic auth) for every enabled method.
//   - CompileLimits emits <Limit> blocks scoped to HTTP operation sets,
//     granting access to hosts, users and LDAP groups with satisfy-any
//     (OR) semantics across the three principal classes.
//
// Both compilers are pure functions: byte-identical output for identical
// input, no I/O, no shared state. An empty output block is a valid result
// meaning "no directives generated"; the provisioner substitutes the
// documented fallback in that case.
//
// Compile is the atomic entry point: it merges an override document onto
// the built-in defaults, validates, decodes and compiles as a unit, so a
// caller can never observe compiled output derived from an invalid policy.
package compiler
