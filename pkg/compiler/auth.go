package compiler

import (
	"strings"

	"limen-hq/limen/pkg/policy"
)

// DefaultAuthName is the realm string emitted with authentication
// directives. httpd requires an AuthName for both digest and basic auth.
const DefaultAuthName = "Restricted"

// CompileAuth converts the authentication-method section of a policy into
// an authentication directive block. One directive group is emitted per
// enabled method, in a fixed total order: file before ldap. The order is
// stable across calls for the same input; it matters because httpd applies
// first-match semantics across auth providers.
//
// If no method is enabled, CompileAuth returns an empty block. The caller
// (the provisioner) then writes no authentication directives and access
// control relies solely on the limit block.
func CompileAuth(m policy.AuthMethods) string {
	var b block

	if m.File.Enabled {
		compileFileAuth(&b, m.File)
	}
	if m.LDAP.Enabled {
		if m.File.Enabled {
			b.blank()
		}
		compileLDAPAuth(&b, m.LDAP)
	}

	return b.String()
}

func compileFileAuth(b *block, cfg policy.FileAuth) {
	b.linef("AuthType Digest")
	b.linef("AuthName %s", quote(DefaultAuthName))
	b.linef("AuthDigestProvider file")
	b.linef("AuthUserFile %s", quote(cfg.UserFile))
}

func compileLDAPAuth(b *block, cfg policy.LDAPAuth) {
	b.linef("AuthType Basic")
	b.linef("AuthName %s", quote(DefaultAuthName))
	b.linef("AuthBasicProvider ldap")

	url := ldapURL(cfg)
	if cfg.Security != "" {
		b.linef("AuthLDAPURL %s %s", quote(url), cfg.Security)
	} else {
		b.linef("AuthLDAPURL %s", quote(url))
	}
	if cfg.BindDN != "" {
		b.linef("AuthLDAPBindDN %s", quote(cfg.BindDN))
	}
	if cfg.BindPW != "" {
		b.linef("AuthLDAPBindPassword %s", quote(cfg.BindPW))
	}

	if cfg.POSIXGroup {
		// Group membership is checked against a posixGroup's memberUid
		// values, which are plain usernames rather than member DNs.
		b.linef("AuthLDAPGroupAttribute memberUid")
		b.linef("AuthLDAPGroupAttributeIsDN off")
	}
}

// ldapURL composes the AuthLDAPURL argument from the server URL and the
// search base. The search base and attribute are appended only when the
// URL does not already carry a path component.
func ldapURL(cfg policy.LDAPAuth) string {
	url := strings.TrimRight(cfg.URL, "/")
	if cfg.SearchBase == "" || strings.Contains(strings.TrimPrefix(strings.TrimPrefix(url, "ldaps://"), "ldap://"), "/") {
		return cfg.URL
	}
	return url + "/" + cfg.SearchBase + "?uid"
}
