package compiler

import (
	"errors"
	"strings"
	"testing"

	"limen-hq/limen/pkg/policy"
)

func TestCompile_EmptyOverride(t *testing.T) {
	out, err := Compile(policy.Document{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if out.AuthBlock != "" {
		t.Errorf("no method enabled by default, AuthBlock = %q", out.AuthBlock)
	}
	want := `<Limit GET POST PUT>
  <RequireAny>
    Require ip 127.0.0.1
  </RequireAny>
</Limit>
`
	if out.LimitBlock != want {
		t.Errorf("LimitBlock =\n%s\nwant:\n%s", out.LimitBlock, want)
	}
}

func TestCompile_OverrideReplacesHostList(t *testing.T) {
	out, err := Compile(policy.Document{
		"limits": map[string]any{
			"hosts": map[string]any{"10.1.2.3": policy.DefaultsToken},
		},
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if strings.Contains(out.LimitBlock, "127.0.0.1") {
		t.Errorf("override host map must replace the default loopback entry:\n%s", out.LimitBlock)
	}
	if !strings.Contains(out.LimitBlock, "Require ip 10.1.2.3") {
		t.Errorf("override host missing:\n%s", out.LimitBlock)
	}
}

func TestCompile_FullPolicy(t *testing.T) {
	out, err := Compile(policy.Document{
		"methods": map[string]any{
			"file": map[string]any{
				"enabled":   true,
				"user_file": "/etc/limen/users.digest",
			},
		},
		"limits": map[string]any{
			"users": map[string]any{
				"alice": []any{"GET", "POST", "PUT", "DELETE"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if !strings.Contains(out.AuthBlock, `AuthUserFile "/etc/limen/users.digest"`) {
		t.Errorf("AuthBlock missing user file directive:\n%s", out.AuthBlock)
	}
	if !strings.Contains(out.LimitBlock, "<Limit GET POST PUT DELETE>") {
		t.Errorf("LimitBlock missing alice's explicit set:\n%s", out.LimitBlock)
	}
}

func TestCompile_AtomicOnValidationFailure(t *testing.T) {
	out, err := Compile(policy.Document{
		"limits": map[string]any{
			"users": map[string]any{"alice": []any{"FETCH"}},
		},
	})
	if out != nil {
		t.Errorf("invalid input must yield no output, got %+v", out)
	}
	var verr *policy.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *policy.ValidationError, got %T: %v", err, err)
	}
	if verr.Field != "limits.users.alice[0]" {
		t.Errorf("offending field = %q", verr.Field)
	}
}

func TestCompileMerged_EmptyBlocksAreNotErrors(t *testing.T) {
	// A document with no principals at all is valid and compiles to empty
	// blocks. The provisioner handles the fallback. Map merging cannot
	// remove the default loopback entry, so assemble the document directly.
	merged := policy.Merge(policy.DefaultDocument(), policy.Document{})
	merged["limits"].(map[string]any)["hosts"] = map[string]any{}

	out, err := CompileMerged(merged)
	if err != nil {
		t.Fatalf("CompileMerged() error: %v", err)
	}
	if out.AuthBlock != "" || out.LimitBlock != "" {
		t.Errorf("expected empty blocks, got auth=%q limit=%q", out.AuthBlock, out.LimitBlock)
	}
}

func TestCompile_ByteIdentical(t *testing.T) {
	override := policy.Document{
		"methods": map[string]any{
			"ldap": map[string]any{
				"enabled":     true,
				"url":         "ldap://ldap.example.org",
				"search_base": "ou=people,dc=example,dc=org",
				"posix_group": true,
			},
		},
		"limits": map[string]any{
			"hosts": map[string]any{
				"10.0.0.0/8": policy.DefaultsToken,
				"::1":        []any{"GET"},
			},
			"users": map[string]any{
				"alice": []any{"GET", "DELETE"},
				"bob":   policy.DefaultsToken,
			},
		},
	}

	first, err := Compile(override)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, err := Compile(override)
		if err != nil {
			t.Fatalf("Compile() error on iteration %d: %v", i, err)
		}
		if got.AuthBlock != first.AuthBlock || got.LimitBlock != first.LimitBlock {
			t.Fatalf("output differs on iteration %d", i)
		}
	}
}

func TestCompile_DoesNotMutateOverride(t *testing.T) {
	override := policy.Document{
		"limits": map[string]any{
			"hosts": map[string]any{"10.1.2.3": policy.DefaultsToken},
		},
	}

	if _, err := Compile(override); err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	hosts := override["limits"].(map[string]any)["hosts"].(map[string]any)
	if len(override) != 1 || len(hosts) != 1 {
		t.Errorf("Compile mutated its input: %#v", override)
	}
}
