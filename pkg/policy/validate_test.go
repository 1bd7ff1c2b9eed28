package policy

import (
	"errors"
	"testing"
)

// valid returns a fully valid merged document to mutate per test case.
func valid() Document {
	return Merge(DefaultDocument(), Document{})
}

func TestValidate_DefaultDocument(t *testing.T) {
	// The built-in default policy must always validate.
	if err := Validate(DefaultDocument()); err != nil {
		t.Fatalf("default document failed validation: %v", err)
	}
}

func TestValidate_RoundTripWithEmptyOverride(t *testing.T) {
	if err := Validate(Merge(DefaultDocument(), Document{})); err != nil {
		t.Fatalf("merge(defaults, {}) failed validation: %v", err)
	}
}

func TestValidate_FailClosed(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(Document)
		wantField string
	}{
		{
			name: "unknown top-level section",
			mutate: func(d Document) {
				d["extras"] = map[string]any{}
			},
			wantField: "extras",
		},
		{
			name: "unknown method kind",
			mutate: func(d Document) {
				d["methods"].(map[string]any)["kerberos"] = map[string]any{"enabled": true}
			},
			wantField: "methods.kerberos",
		},
		{
			name: "unknown field in file method",
			mutate: func(d Document) {
				fileCfg(d)["group_file"] = "/etc/groups"
			},
			wantField: "methods.file.group_file",
		},
		{
			name: "file enabled without user_file",
			mutate: func(d Document) {
				fileCfg(d)["enabled"] = true
				fileCfg(d)["user_file"] = ""
			},
			wantField: "methods.file.user_file",
		},
		{
			name: "file enabled with relative user_file",
			mutate: func(d Document) {
				fileCfg(d)["enabled"] = true
				fileCfg(d)["user_file"] = "users.digest"
			},
			wantField: "methods.file.user_file",
		},
		{
			name: "file enabled flag is a truthy string",
			mutate: func(d Document) {
				fileCfg(d)["enabled"] = "true"
			},
			wantField: "methods.file.enabled",
		},
		{
			name: "ldap enabled without posix_group",
			mutate: func(d Document) {
				ldapCfg(d)["enabled"] = true
				delete(ldapCfg(d), "posix_group")
			},
			wantField: "methods.ldap.posix_group",
		},
		{
			name: "ldap posix_group is a truthy string",
			mutate: func(d Document) {
				ldapCfg(d)["enabled"] = true
				ldapCfg(d)["posix_group"] = "yes"
			},
			wantField: "methods.ldap.posix_group",
		},
		{
			name: "ldap url wrong type",
			mutate: func(d Document) {
				ldapCfg(d)["url"] = 389
			},
			wantField: "methods.ldap.url",
		},
		{
			name: "malformed host address",
			mutate: func(d Document) {
				limitsOf(d)["hosts"].(map[string]any)["999.1.1.1"] = DefaultsToken
			},
			wantField: "limits.hosts.999.1.1.1",
		},
		{
			name: "malformed CIDR block",
			mutate: func(d Document) {
				limitsOf(d)["hosts"].(map[string]any)["10.0.0.0/33"] = DefaultsToken
			},
			wantField: "limits.hosts.10.0.0.0/33",
		},
		{
			name: "hostname is not a valid host key",
			mutate: func(d Document) {
				limitsOf(d)["hosts"].(map[string]any)["web.example.org"] = DefaultsToken
			},
			wantField: "limits.hosts.web.example.org",
		},
		{
			name: "unknown operation in explicit set",
			mutate: func(d Document) {
				limitsOf(d)["users"] = map[string]any{"alice": []any{"GET", "FETCH"}}
			},
			wantField: "limits.users.alice[1]",
		},
		{
			name: "empty explicit operation set",
			mutate: func(d Document) {
				limitsOf(d)["users"] = map[string]any{"alice": []any{}}
			},
			wantField: "limits.users.alice",
		},
		{
			name: "defaults token misspelled",
			mutate: func(d Document) {
				limitsOf(d)["users"] = map[string]any{"alice": "default"}
			},
			wantField: "limits.users.alice",
		},
		{
			name: "principal resolves to empty defaults",
			mutate: func(d Document) {
				limitsOf(d)["defaults"] = []any{}
			},
			wantField: "limits.hosts.127.0.0.1",
		},
		{
			name: "unknown operation in defaults",
			mutate: func(d Document) {
				limitsOf(d)["defaults"] = []any{"GIVE"}
			},
			wantField: "limits.defaults[0]",
		},
		{
			name: "unknown limits field",
			mutate: func(d Document) {
				limitsOf(d)["groups"] = map[string]any{}
			},
			wantField: "limits.groups",
		},
		{
			name: "methods section wrong type",
			mutate: func(d Document) {
				d["methods"] = []any{"file"}
			},
			wantField: "methods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)

			err := Validate(doc)
			if err == nil {
				t.Fatal("expected validation to fail")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("offending field = %q, want %q (message: %s)",
					verr.Field, tt.wantField, verr.Message)
			}
		})
	}
}

func TestValidate_AcceptsWellFormedOverrides(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Document)
	}{
		{
			name: "file auth enabled with absolute path",
			mutate: func(d Document) {
				fileCfg(d)["enabled"] = true
				fileCfg(d)["user_file"] = "/etc/limen/users.digest"
			},
		},
		{
			name: "ldap enabled with posix_group",
			mutate: func(d Document) {
				ldapCfg(d)["enabled"] = true
				ldapCfg(d)["posix_group"] = true
				ldapCfg(d)["url"] = "ldap://ldap.example.org"
			},
		},
		{
			name: "IPv6 address and CIDR hosts",
			mutate: func(d Document) {
				limitsOf(d)["hosts"].(map[string]any)["::1"] = DefaultsToken
				limitsOf(d)["hosts"].(map[string]any)["2001:db8::/32"] = []any{"GET"}
			},
		},
		{
			name: "valid-user sentinel",
			mutate: func(d Document) {
				limitsOf(d)["users"] = map[string]any{ValidUser: DefaultsToken}
			},
		},
		{
			name: "principal with no explicit list resolves to defaults",
			mutate: func(d Document) {
				limitsOf(d)["users"] = map[string]any{"alice": nil}
			},
		},
		{
			name: "empty principal maps with empty defaults",
			mutate: func(d Document) {
				limitsOf(d)["defaults"] = []any{}
				limitsOf(d)["hosts"] = map[string]any{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)
			if err := Validate(doc); err != nil {
				t.Errorf("expected valid document, got: %v", err)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(Document{"bogus": 1})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "policy validation failed: bogus: unknown top-level section"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func fileCfg(d Document) map[string]any {
	return d["methods"].(map[string]any)["file"].(map[string]any)
}

func ldapCfg(d Document) map[string]any {
	return d["methods"].(map[string]any)["ldap"].(map[string]any)
}

func limitsOf(d Document) map[string]any {
	return d["limits"].(map[string]any)
}
