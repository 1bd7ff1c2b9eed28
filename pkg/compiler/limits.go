package compiler

import (
	"sort"
	"strings"

	"limen-hq/limen/pkg/policy"
)

// limitGroup collects the Require lines for one resolved operation set.
type limitGroup struct {
	ops      []string
	requires []string
}

// CompileLimits converts the authorization section of a policy into a
// limit directive block.
//
// Every principal's operation set is resolved first (the "defaults" token
// substitutes spec.Defaults; explicit lists are used verbatim). Principals
// with identical resolved sets are grouped, and one <Limit> block is
// emitted per group. Inside each block a <RequireAny> container ORs the
// principal classes together: matching the host list, the user list or the
// LDAP group list is each sufficient on its own. Classes are never ANDed.
//
// Output is deterministic: groups are ordered lexicographically by their
// operation list, and within a group Require lines appear hosts first,
// then users, then LDAP groups, each class sorted by principal name. Two
// operation lists with the same members in different order are distinct
// groups, since the sets are ordered.
//
// A spec with zero principals across all three classes compiles to an
// empty block; the provisioner substitutes the restrictive fallback.
func CompileLimits(spec policy.LimitSpec) string {
	groups := make(map[string]*limitGroup)

	add := func(ops Operations, require string) {
		resolved := ops.Resolve(spec.Defaults)
		key := strings.Join(resolved, " ")
		g, ok := groups[key]
		if !ok {
			g = &limitGroup{ops: resolved}
			groups[key] = g
		}
		g.requires = append(g.requires, require)
	}

	for _, host := range sortedNames(spec.Hosts) {
		add(spec.Hosts[host], "Require ip "+host)
	}
	for _, user := range sortedNames(spec.Users) {
		req := "Require user " + user
		if user == policy.ValidUser {
			// Sentinel: any authenticated principal, not a literal name.
			req = "Require valid-user"
		}
		add(spec.Users[user], req)
	}
	for _, group := range sortedNames(spec.LDAPGroups) {
		add(spec.LDAPGroups[group], "Require ldap-group "+group)
	}

	if len(groups) == 0 {
		return ""
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b block
	for i, key := range keys {
		if i > 0 {
			b.blank()
		}
		g := groups[key]
		b.open("<Limit %s>", strings.Join(g.ops, " "))
		b.open("<RequireAny>")
		for _, req := range g.requires {
			b.linef("%s", req)
		}
		b.close("RequireAny")
		b.close("Limit")
	}
	return b.String()
}

// Operations aliases the policy value type for readability in signatures.
type Operations = policy.Operations

func sortedNames(m map[string]Operations) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
