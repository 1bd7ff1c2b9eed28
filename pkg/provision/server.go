package provision

import (
	"fmt"
	"strings"
)

// Server carries the vhost passthrough knobs from the tool configuration.
// The values are rendered into a server snippet verbatim; nothing here is
// interpreted beyond formatting.
type Server struct {
	// ListenPort is the TLS listen port. Zero disables the snippet
	// entirely: the remaining knobs are meaningless without a vhost to
	// attach them to.
	ListenPort int

	// ProxyPort is the local backend port requests are proxied to. Zero
	// means no proxy directives.
	ProxyPort int

	// CipherSuite and TLSProtocols are passed to SSLCipherSuite and
	// SSLProtocol unchanged.
	CipherSuite  string
	TLSProtocols []string

	// VerifyClient is the client-certificate verification mode. "none"
	// or empty emits no verification directives; VerifyDepth accompanies
	// any other mode.
	VerifyClient string
	VerifyDepth  int
}

// ConfigBlock renders the server snippet, or "" when no listen port is
// configured.
func (s Server) ConfigBlock() string {
	if s.ListenPort <= 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Listen %d https\n", s.ListenPort)
	fmt.Fprintf(&sb, "<VirtualHost _default_:%d>\n", s.ListenPort)
	sb.WriteString("  SSLEngine on\n")
	if s.CipherSuite != "" {
		fmt.Fprintf(&sb, "  SSLCipherSuite %s\n", s.CipherSuite)
	}
	if len(s.TLSProtocols) > 0 {
		fmt.Fprintf(&sb, "  SSLProtocol %s\n", strings.Join(s.TLSProtocols, " "))
	}
	if s.VerifyClient != "" && s.VerifyClient != "none" {
		fmt.Fprintf(&sb, "  SSLVerifyClient %s\n", s.VerifyClient)
		fmt.Fprintf(&sb, "  SSLVerifyDepth %d\n", s.VerifyDepth)
	}
	if s.ProxyPort > 0 {
		fmt.Fprintf(&sb, "  ProxyPass / http://127.0.0.1:%d/\n", s.ProxyPort)
		fmt.Fprintf(&sb, "  ProxyPassReverse / http://127.0.0.1:%d/\n", s.ProxyPort)
	}
	sb.WriteString("</VirtualHost>\n")
	return sb.String()
}
