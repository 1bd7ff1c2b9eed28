package policy

import (
	"fmt"
	"net/netip"
	"path"
	"sort"
	"strings"
)

// ValidationError reports the first constraint violation found in a merged
// policy document. Field is the dotted path to the offending field.
type ValidationError struct {
	// Field is the dotted path to the offending field
	// (e.g. "methods.file.user_file", "limits.hosts.10.0.0.0/33").
	Field string

	// Message is a human-readable description of the violation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("policy validation failed: %s: %s", e.Field, e.Message)
}

func violation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Recognized field sets for each method variant. Anything else in a method
// configuration is rejected.
var (
	fileAuthFields = map[string]bool{
		"enabled":   true,
		"user_file": true,
	}
	ldapAuthFields = map[string]bool{
		"enabled":     true,
		"url":         true,
		"security":    true,
		"bind_dn":     true,
		"bind_pw":     true,
		"search_base": true,
		"posix_group": true,
	}
)

// Validate checks a merged policy document against all structural and
// semantic constraints. It fails fast: the first violation found is
// returned as a *ValidationError and no further checks run. A nil return
// means the document is safe to Decode and compile.
//
// Checks run in a fixed order:
//
//  1. only recognized top-level sections and method kinds are present
//  2. file auth, when enabled, names a non-empty absolute user file
//  3. LDAP auth, when enabled, carries a strictly boolean posix_group
//  4. every limits.hosts key parses as an IP address or CIDR block
//  5. every resolved operation set is non-empty and drawn from the known
//     HTTP operation vocabulary
//
// Validation never proceeds to compilation on failure; the caller receives
// no output. This is a hard stop, never a warning.
func Validate(doc Document) error {
	for _, key := range sortedKeys(doc) {
		if key != "methods" && key != "limits" {
			return violation(key, "unknown top-level section")
		}
	}

	methods, err := sectionMap(doc, "methods")
	if err != nil {
		return err
	}
	if err := validateMethods(methods); err != nil {
		return err
	}

	limits, err := sectionMap(doc, "limits")
	if err != nil {
		return err
	}
	return validateLimits(limits)
}

// sectionMap extracts a top-level section as a map. A missing section is
// treated as empty; a present non-map section is a violation.
func sectionMap(doc Document, name string) (map[string]any, error) {
	raw, ok := doc[name]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, violation(name, "must be a mapping, got %T", raw)
	}
	return m, nil
}

func validateMethods(methods map[string]any) error {
	// Check 1: only recognized method kinds.
	for _, kind := range sortedKeys(methods) {
		if kind != MethodFile && kind != MethodLDAP {
			return violation("methods."+kind, "unknown authentication method kind")
		}
	}

	// Check 2: file auth shape.
	if raw, ok := methods[MethodFile]; ok {
		if err := validateFileAuth(raw); err != nil {
			return err
		}
	}

	// Check 3: LDAP auth shape.
	if raw, ok := methods[MethodLDAP]; ok {
		if err := validateLDAPAuth(raw); err != nil {
			return err
		}
	}

	return nil
}

func validateFileAuth(raw any) error {
	cfg, ok := raw.(map[string]any)
	if !ok {
		return violation("methods.file", "must be a mapping, got %T", raw)
	}
	for _, field := range sortedKeys(cfg) {
		if !fileAuthFields[field] {
			return violation("methods.file."+field, "unknown field")
		}
	}

	enabled, err := boolField(cfg, "enabled", "methods.file.enabled")
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	userFile, ok := cfg["user_file"].(string)
	if !ok {
		return violation("methods.file.user_file",
			"required when file auth is enabled and must be a string")
	}
	if userFile == "" {
		return violation("methods.file.user_file",
			"required when file auth is enabled")
	}
	if !path.IsAbs(userFile) {
		return violation("methods.file.user_file",
			"must be an absolute path, got %q", userFile)
	}
	return nil
}

func validateLDAPAuth(raw any) error {
	cfg, ok := raw.(map[string]any)
	if !ok {
		return violation("methods.ldap", "must be a mapping, got %T", raw)
	}
	for _, field := range sortedKeys(cfg) {
		if !ldapAuthFields[field] {
			return violation("methods.ldap."+field, "unknown field")
		}
	}

	// String fields must be strings whenever present, enabled or not.
	for _, field := range []string{"url", "security", "bind_dn", "bind_pw", "search_base"} {
		if v, ok := cfg[field]; ok {
			if _, isStr := v.(string); !isStr {
				return violation("methods.ldap."+field, "must be a string, got %T", v)
			}
		}
	}

	enabled, err := boolField(cfg, "enabled", "methods.ldap.enabled")
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	pg, present := cfg["posix_group"]
	if !present {
		return violation("methods.ldap.posix_group",
			"required when LDAP auth is enabled")
	}
	if _, isBool := pg.(bool); !isBool {
		// A truthy string like "true" is a type error, not a value.
		return violation("methods.ldap.posix_group",
			"must be a boolean, got %T", pg)
	}
	return nil
}

// boolField reads an optional boolean field. Absent means false; any
// non-boolean present value is a violation.
func boolField(cfg map[string]any, field, fieldPath string) (bool, error) {
	raw, ok := cfg[field]
	if !ok || raw == nil {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, violation(fieldPath, "must be a boolean, got %T", raw)
	}
	return b, nil
}

func validateLimits(limits map[string]any) error {
	for _, key := range sortedKeys(limits) {
		switch key {
		case "defaults", "hosts", "users", "ldap_groups":
		default:
			return violation("limits."+key, "unknown field")
		}
	}

	defaults, err := operationList(limits["defaults"], "limits.defaults")
	if err != nil {
		return err
	}

	// Check 4: host keys must parse as addresses or CIDR blocks.
	hosts, err := principalMap(limits, "hosts")
	if err != nil {
		return err
	}
	for _, host := range sortedKeys(hosts) {
		if !validHostKey(host) {
			return violation("limits.hosts."+host,
				"not a valid IP address or CIDR block")
		}
	}

	// Check 5: every resolved operation set is non-empty and known.
	for _, class := range []string{"hosts", "users", "ldap_groups"} {
		principals, err := principalMap(limits, class)
		if err != nil {
			return err
		}
		for _, name := range sortedKeys(principals) {
			fieldPath := "limits." + class + "." + name
			if err := validateOperations(principals[name], defaults, fieldPath); err != nil {
				return err
			}
		}
	}

	return nil
}

func principalMap(limits map[string]any, class string) (map[string]any, error) {
	raw, ok := limits[class]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, violation("limits."+class, "must be a mapping, got %T", raw)
	}
	return m, nil
}

// validateOperations checks one principal's value: the defaults token, an
// omitted list (both resolve to limits.defaults) or an explicit list.
func validateOperations(raw any, defaults []string, fieldPath string) error {
	switch v := raw.(type) {
	case nil:
		// No explicit list: resolves to defaults, which must then exist.
		if len(defaults) == 0 {
			return violation(fieldPath,
				"resolves to limits.defaults, which is empty")
		}
		return nil
	case string:
		if v != DefaultsToken {
			return violation(fieldPath,
				"must be the %q token or an operation list, got %q", DefaultsToken, v)
		}
		if len(defaults) == 0 {
			return violation(fieldPath,
				"resolves to limits.defaults, which is empty")
		}
		return nil
	case []any:
		ops, err := operationList(v, fieldPath)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			return violation(fieldPath, "operation set must not be empty")
		}
		return nil
	default:
		return violation(fieldPath,
			"must be the %q token or an operation list, got %T", DefaultsToken, raw)
	}
}

// operationList converts a raw list into operation names, checking each
// against the known vocabulary. A nil input yields an empty list.
func operationList(raw any, fieldPath string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, violation(fieldPath, "must be a list, got %T", raw)
	}
	ops := make([]string, 0, len(list))
	for i, e := range list {
		name, ok := e.(string)
		if !ok {
			return nil, violation(fmt.Sprintf("%s[%d]", fieldPath, i),
				"operation name must be a string, got %T", e)
		}
		if !KnownOperation(name) {
			return nil, violation(fmt.Sprintf("%s[%d]", fieldPath, i),
				"unknown HTTP operation %q", name)
		}
		ops = append(ops, name)
	}
	return ops, nil
}

// validHostKey reports whether key is a syntactically valid IPv4/IPv6
// address or CIDR block.
func validHostKey(key string) bool {
	if strings.Contains(key, "/") {
		_, err := netip.ParsePrefix(key)
		return err == nil
	}
	_, err := netip.ParseAddr(key)
	return err == nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
