package compiler

import (
	"fmt"
	"strings"
)

// block accumulates directive lines with container-style indentation.
// Rendered output ends with a trailing newline unless the block is empty.
type block struct {
	sb     strings.Builder
	indent int
}

func (b *block) linef(format string, args ...any) {
	b.sb.WriteString(strings.Repeat("  ", b.indent))
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

// open writes a container opening tag and increases the indent.
func (b *block) open(format string, args ...any) {
	b.linef(format, args...)
	b.indent++
}

// close decreases the indent and writes a container closing tag.
func (b *block) close(tag string) {
	b.indent--
	b.linef("</%s>", tag)
}

func (b *block) blank() {
	b.sb.WriteByte('\n')
}

func (b *block) String() string {
	return b.sb.String()
}

// quote wraps a directive argument in double quotes, escaping embedded
// quotes and backslashes so the argument survives httpd's config parser.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
