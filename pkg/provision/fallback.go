package provision

import (
	"fmt"
	"strings"
)

// fallbackOperations is the operation set granted by the fallback limit
// block. Wider than the policy default: DELETE is included so that local
// tooling can clean up its own resources even under the fallback.
var fallbackOperations = []string{"GET", "POST", "PUT", "DELETE"}

// FallbackLimitBlock returns the hardcoded restrictive limit block used
// when the compiler produces an empty one: GET/POST/PUT/DELETE from
// loopback (IPv4 and IPv6) and from the local host's canonical name,
// everything else denied. canonicalHost may be empty, in which case only
// loopback is admitted.
func FallbackLimitBlock(canonicalHost string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<Limit %s>\n", strings.Join(fallbackOperations, " "))
	sb.WriteString("  <RequireAny>\n")
	sb.WriteString("    Require ip 127.0.0.1\n")
	sb.WriteString("    Require ip ::1\n")
	if canonicalHost != "" {
		fmt.Fprintf(&sb, "    Require host %s\n", canonicalHost)
	}
	sb.WriteString("  </RequireAny>\n")
	sb.WriteString("</Limit>\n")
	return sb.String()
}
