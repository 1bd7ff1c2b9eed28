// Package provision writes compiled directive blocks to the httpd
// configuration directory and signals the server to pick them up.
//
// The provisioner is the file-system collaborator of the pure compiler in
// pkg/compiler. It owns everything the compiler deliberately does not do:
// writing the auth and limit files, substituting the hardcoded fallback
// block when the compiler returns an empty limit block, applying file
// ownership and permissions, and invoking the reload-notify hook.
//
// Fallback contract: an empty limit block is replaced by a restrictive
// default allowing GET, POST, PUT and DELETE only from loopback and from
// the local host's canonical name. An empty auth block results in no
// authentication file at all (a stale one is removed); access control then
// relies solely on the limit block. The fallback's operation set is
// deliberately wider than the policy default (it includes DELETE) - the
// two defaults serve different callers and are not unified.
//
// Writes are atomic (temp file plus rename) so httpd never observes a
// partially written configuration file.
package provision
