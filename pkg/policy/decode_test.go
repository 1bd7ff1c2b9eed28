package policy

import (
	"reflect"
	"testing"
)

func TestDecode_DefaultDocument(t *testing.T) {
	p, err := Decode(DefaultDocument())
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if p.Methods.File.Enabled {
		t.Error("file auth should be disabled by default")
	}
	if p.Methods.LDAP.Enabled {
		t.Error("LDAP auth should be disabled by default")
	}
	if !reflect.DeepEqual(p.Limits.Defaults, []string{"GET", "POST", "PUT"}) {
		t.Errorf("Limits.Defaults = %v, want [GET POST PUT]", p.Limits.Defaults)
	}

	ops, ok := p.Limits.Hosts[DefaultLoopbackHost]
	if !ok {
		t.Fatal("default document should grant loopback access")
	}
	if !ops.UseDefaults {
		t.Error("loopback entry should resolve to defaults")
	}
	if len(p.Limits.Users) != 0 || len(p.Limits.LDAPGroups) != 0 {
		t.Error("default document should name no users or groups")
	}
}

func TestDecode_TypedFields(t *testing.T) {
	doc := Merge(DefaultDocument(), Document{
		"methods": map[string]any{
			"file": map[string]any{
				"enabled":   true,
				"user_file": "/etc/limen/users.digest",
			},
			"ldap": map[string]any{
				"enabled":     true,
				"url":         "ldap://ldap.example.org",
				"security":    "STARTTLS",
				"bind_dn":     "cn=limen,ou=svc,dc=example,dc=org",
				"bind_pw":     "secret",
				"search_base": "ou=people,dc=example,dc=org",
				"posix_group": true,
			},
		},
		"limits": map[string]any{
			"users": map[string]any{
				"alice": []any{"GET", "POST", "PUT", "DELETE"},
				"bob":   DefaultsToken,
			},
		},
	})
	if err := Validate(doc); err != nil {
		t.Fatalf("fixture document invalid: %v", err)
	}

	p, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if !p.Methods.File.Enabled || p.Methods.File.UserFile != "/etc/limen/users.digest" {
		t.Errorf("file auth decoded wrong: %+v", p.Methods.File)
	}
	want := LDAPAuth{
		Enabled:    true,
		URL:        "ldap://ldap.example.org",
		Security:   "STARTTLS",
		BindDN:     "cn=limen,ou=svc,dc=example,dc=org",
		BindPW:     "secret",
		SearchBase: "ou=people,dc=example,dc=org",
		POSIXGroup: true,
	}
	if p.Methods.LDAP != want {
		t.Errorf("LDAP auth decoded wrong:\ngot  %+v\nwant %+v", p.Methods.LDAP, want)
	}

	alice := p.Limits.Users["alice"]
	if alice.UseDefaults || !reflect.DeepEqual(alice.Explicit, []string{"GET", "POST", "PUT", "DELETE"}) {
		t.Errorf("alice decoded wrong: %+v", alice)
	}
	if !p.Limits.Users["bob"].UseDefaults {
		t.Error("bob should resolve to defaults")
	}
}

func TestDecode_RejectsMistypedScalars(t *testing.T) {
	// Decode is only called on validated documents, but a mistyped scalar
	// must still surface as an error rather than a silent zero value.
	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "truthy string for file enabled",
			doc: Document{
				"methods": map[string]any{
					"file": map[string]any{"enabled": "true"},
				},
			},
		},
		{
			name: "integer for ldap url",
			doc: Document{
				"methods": map[string]any{
					"ldap": map[string]any{"url": 389},
				},
			},
		},
		{
			name: "string for posix_group",
			doc: Document{
				"methods": map[string]any{
					"ldap": map[string]any{"posix_group": "yes"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.doc); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestOperations_Resolve(t *testing.T) {
	defaults := []string{"GET", "POST"}

	if got := (Operations{UseDefaults: true}).Resolve(defaults); !reflect.DeepEqual(got, defaults) {
		t.Errorf("Resolve(defaults) = %v", got)
	}
	explicit := Operations{Explicit: []string{"DELETE"}}
	if got := explicit.Resolve(defaults); !reflect.DeepEqual(got, []string{"DELETE"}) {
		t.Errorf("Resolve(explicit) = %v", got)
	}
}

func TestDefaultDocument_FreshCopy(t *testing.T) {
	a := DefaultDocument()
	a["limits"].(map[string]any)["hosts"].(map[string]any)["0.0.0.0/0"] = DefaultsToken

	b := DefaultDocument()
	if _, ok := b["limits"].(map[string]any)["hosts"].(map[string]any)["0.0.0.0/0"]; ok {
		t.Error("DefaultDocument() shares state between calls")
	}
}
