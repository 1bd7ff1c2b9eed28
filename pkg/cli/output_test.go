package cli

import (
	"bytes"
	"testing"
)

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Printer{Out: &out, Err: &errOut}

	p.Successf("Provisioned %s", "/etc/httpd/conf.auth.d/limits.conf")
	p.Notef("No authentication method enabled")
	p.Failf("%s: %s", "limits.users.alice[0]", "unknown operation")

	if got := out.String(); got != "✓ Provisioned /etc/httpd/conf.auth.d/limits.conf\n  No authentication method enabled\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "✗ limits.users.alice[0]: unknown operation\n" {
		t.Errorf("stderr = %q", got)
	}
}
