// Limen is a declarative access-control compiler and provisioner for
// Apache httpd.
//
// It merges a user-supplied policy document onto a safe default policy,
// validates it, compiles authentication and HTTP-method-limit directive
// blocks, and provisions them into the httpd configuration directory:
//
//	# One-shot compile and provision
//	limen compile
//
//	# Check a policy document without writing anything
//	limen validate --policy /etc/limen/policy.yaml
//
//	# Print the merged effective policy
//	limen show
//
//	# Watch mode: recompile on policy changes, serve metrics
//	limen run
//
//	# Show version information
//	limen version
package main

func main() {
	Execute()
}
