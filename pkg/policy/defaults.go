package policy

// Default values for the built-in safe baseline policy.
const (
	// DefaultLoopbackHost is the only host granted access by the default
	// policy document.
	DefaultLoopbackHost = "127.0.0.1"
)

// defaultOperations is the operation set granted by the default policy.
// Deliberately narrower than the provisioner's fallback block, which also
// permits DELETE.
var defaultOperations = []string{"GET", "POST", "PUT"}

// DefaultDocument returns the built-in default policy document: both
// authentication methods disabled and access limited to GET/POST/PUT from
// loopback. The returned document is a fresh copy on every call, so callers
// may merge into it freely.
//
// The default document always passes validation; Validate(DefaultDocument())
// succeeding is a package invariant covered by tests.
func DefaultDocument() Document {
	ops := make([]any, len(defaultOperations))
	for i, op := range defaultOperations {
		ops[i] = op
	}

	return Document{
		"methods": map[string]any{
			"file": map[string]any{
				"enabled":   false,
				"user_file": "",
			},
			"ldap": map[string]any{
				"enabled":     false,
				"url":         "",
				"security":    "STARTTLS",
				"bind_dn":     "",
				"bind_pw":     "",
				"search_base": "",
				"posix_group": false,
			},
		},
		"limits": map[string]any{
			"defaults": ops,
			"hosts": map[string]any{
				DefaultLoopbackHost: DefaultsToken,
			},
			"users":       map[string]any{},
			"ldap_groups": map[string]any{},
		},
	}
}
