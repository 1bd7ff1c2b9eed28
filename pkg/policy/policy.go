package policy

// Document is a raw, loosely typed policy document as parsed from YAML or
// assembled by a caller. Merge and Validate operate on Documents; Decode
// turns a validated Document into a typed Policy.
type Document map[string]any

// DefaultsToken is the sentinel value a principal may map to instead of an
// explicit operation list. It resolves to the document's limits.defaults set.
const DefaultsToken = "defaults"

// ValidUser is the sentinel username meaning "any successfully authenticated
// principal" rather than a literal username comparison.
const ValidUser = "valid-user"

// Recognized authentication method kinds.
const (
	MethodFile = "file"
	MethodLDAP = "ldap"
)

// Policy is the fully merged, validated configuration the compilers operate
// on. It is constructed once per compile call via Decode and is never
// mutated afterwards.
type Policy struct {
	// Methods holds the authentication method configuration.
	Methods AuthMethods

	// Limits holds the HTTP-method authorization specification.
	Limits LimitSpec
}

// AuthMethods holds the configuration for each recognized authentication
// method kind. Unknown kinds are rejected during validation, so the set of
// fields here is exhaustive.
type AuthMethods struct {
	// File configures file-backed digest authentication.
	File FileAuth

	// LDAP configures LDAP-backed basic authentication.
	LDAP LDAPAuth
}

// FileAuth configures the file-backed digest authentication provider.
type FileAuth struct {
	// Enabled controls whether file authentication directives are emitted.
	Enabled bool

	// UserFile is the absolute path to the digest user file. Required
	// (non-empty, absolute) when Enabled is true.
	UserFile string
}

// LDAPAuth configures the LDAP authentication provider.
type LDAPAuth struct {
	// Enabled controls whether LDAP authentication directives are emitted.
	Enabled bool

	// URL is the LDAP server URL, e.g. "ldap://ldap.example.org/ou=people,dc=example,dc=org?uid".
	URL string

	// Security is the connection security mode passed through to the
	// AuthLDAPURL directive, e.g. "STARTTLS", "SSL" or "NONE".
	Security string

	// BindDN is the distinguished name used to bind for searches.
	BindDN string

	// BindPW is the bind password.
	BindPW string

	// SearchBase is the base DN for user searches.
	SearchBase string

	// POSIXGroup selects POSIX group-membership semantics (memberUid
	// attribute) instead of standard group-of-names semantics. Required
	// (present and strictly boolean) when Enabled is true.
	POSIXGroup bool
}

// LimitSpec is the authorization section of a policy: which principals may
// invoke which HTTP operations.
type LimitSpec struct {
	// Defaults is the ordered operation set substituted for any principal
	// that maps to the "defaults" token or supplies no explicit list.
	Defaults []string

	// Hosts maps network addresses or CIDR blocks to operation sets.
	Hosts map[string]Operations

	// Users maps usernames (or the valid-user sentinel) to operation sets.
	Users map[string]Operations

	// LDAPGroups maps LDAP group DNs to operation sets.
	LDAPGroups map[string]Operations
}

// Operations is the value a principal maps to: either the defaults token
// or an explicit ordered operation list.
type Operations struct {
	// UseDefaults is true when the principal mapped to the defaults token
	// (or supplied no explicit list).
	UseDefaults bool

	// Explicit is the verbatim operation list when UseDefaults is false.
	Explicit []string
}

// Resolve returns the effective operation set for this value: the
// document's defaults when UseDefaults is set, the explicit list otherwise.
// The returned slice is shared with the input; callers must not mutate it.
func (o Operations) Resolve(defaults []string) []string {
	if o.UseDefaults {
		return defaults
	}
	return o.Explicit
}

// httpMethodRank defines the known HTTP operation vocabulary and its
// canonical ordering. Any operation outside this set is rejected during
// validation.
var httpMethodRank = map[string]int{
	"GET":     0,
	"POST":    1,
	"PUT":     2,
	"DELETE":  3,
	"PATCH":   4,
	"HEAD":    5,
	"OPTIONS": 6,
	"CONNECT": 7,
	"TRACE":   8,
}

// KnownOperation reports whether name is in the HTTP operation vocabulary.
func KnownOperation(name string) bool {
	_, ok := httpMethodRank[name]
	return ok
}
