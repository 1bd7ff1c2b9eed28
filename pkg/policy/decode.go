package policy

import "fmt"

// Decode converts a validated raw document into the typed Policy consumed
// by the directive compilers. Decode expects its input to have passed
// Validate; it still reports (rather than panics on) impossible shapes so
// that a skipped validation surfaces as an error instead of bad output.
func Decode(doc Document) (*Policy, error) {
	p := &Policy{}

	methods, err := sectionMap(doc, "methods")
	if err != nil {
		return nil, err
	}
	if raw, ok := methods[MethodFile]; ok {
		cfg, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode: methods.file is %T, not a mapping", raw)
		}
		r := fieldReader{cfg: cfg, base: "methods.file"}
		p.Methods.File = FileAuth{
			Enabled:  r.boolAt("enabled"),
			UserFile: r.stringAt("user_file"),
		}
		if r.err != nil {
			return nil, r.err
		}
	}
	if raw, ok := methods[MethodLDAP]; ok {
		cfg, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode: methods.ldap is %T, not a mapping", raw)
		}
		r := fieldReader{cfg: cfg, base: "methods.ldap"}
		p.Methods.LDAP = LDAPAuth{
			Enabled:    r.boolAt("enabled"),
			URL:        r.stringAt("url"),
			Security:   r.stringAt("security"),
			BindDN:     r.stringAt("bind_dn"),
			BindPW:     r.stringAt("bind_pw"),
			SearchBase: r.stringAt("search_base"),
			POSIXGroup: r.boolAt("posix_group"),
		}
		if r.err != nil {
			return nil, r.err
		}
	}

	limits, err := sectionMap(doc, "limits")
	if err != nil {
		return nil, err
	}
	p.Limits.Defaults, err = operationList(limits["defaults"], "limits.defaults")
	if err != nil {
		return nil, err
	}
	p.Limits.Hosts, err = decodePrincipals(limits, "hosts")
	if err != nil {
		return nil, err
	}
	p.Limits.Users, err = decodePrincipals(limits, "users")
	if err != nil {
		return nil, err
	}
	p.Limits.LDAPGroups, err = decodePrincipals(limits, "ldap_groups")
	if err != nil {
		return nil, err
	}

	return p, nil
}

func decodePrincipals(limits map[string]any, class string) (map[string]Operations, error) {
	raw, err := principalMap(limits, class)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Operations, len(raw))
	for name, value := range raw {
		fieldPath := "limits." + class + "." + name
		switch v := value.(type) {
		case nil:
			out[name] = Operations{UseDefaults: true}
		case string:
			if v != DefaultsToken {
				return nil, fmt.Errorf("decode: %s: unexpected token %q", fieldPath, v)
			}
			out[name] = Operations{UseDefaults: true}
		case []any:
			ops, err := operationList(v, fieldPath)
			if err != nil {
				return nil, err
			}
			out[name] = Operations{Explicit: ops}
		default:
			return nil, fmt.Errorf("decode: %s: unexpected value type %T", fieldPath, value)
		}
	}
	return out, nil
}

// fieldReader reads typed scalar fields from a raw method configuration,
// remembering the first type mismatch. Absent or nil fields read as zero
// values; a present field of the wrong type is an error, so a skipped
// validation surfaces instead of producing bad output.
type fieldReader struct {
	cfg  map[string]any
	base string
	err  error
}

func (r *fieldReader) boolAt(field string) bool {
	raw, ok := r.cfg[field]
	if r.err != nil || !ok || raw == nil {
		return false
	}
	b, ok := raw.(bool)
	if !ok {
		r.err = fmt.Errorf("decode: %s.%s: expected boolean, got %T", r.base, field, raw)
		return false
	}
	return b
}

func (r *fieldReader) stringAt(field string) string {
	raw, ok := r.cfg[field]
	if r.err != nil || !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		r.err = fmt.Errorf("decode: %s.%s: expected string, got %T", r.base, field, raw)
		return ""
	}
	return s
}
