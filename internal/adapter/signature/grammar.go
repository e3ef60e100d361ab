package signature

import (
	"regexp"
	"strings"

	"apidoc/internal/domain"
)

// sigPattern is anchored at both ends so partial matches are rejected.
//
//	[module "::"] [qualifier "."]* name ["(" args ")" ["->" return] ["[signal]"]]
var sigPattern = regexp.MustCompile(
	`^([\w.]+::)?` + // explicit module name
		`([\w.]+\.)?` + // module and/or class qualifiers
		`(\w+)\s*` + // thing name
		`(?:\((.*?)\)` + // arguments
		`(?:\s*->\s*([\w.]+(?:\[.*?\])?|\([\w.\[\], ]*\)))?` + // return annotation
		`(?:\s*\[(signal)\])?` + // signal marker
		`)?$`)

// Grammar parses the signature lines binding layers put at the top of docstrings.
type Grammar struct {
	re *regexp.Regexp
}

func New() *Grammar {
	return &Grammar{re: sigPattern}
}

// Match reports whether the whole line is a signature.
func (g *Grammar) Match(line string) bool {
	return g.re.MatchString(normalize(line))
}

// Parse returns the structured signature, or false when the line does not match.
// A mismatch is not an error here; callers decide whether it is fatal.
func (g *Grammar) Parse(line string) (domain.Signature, bool) {
	m := g.re.FindStringSubmatch(normalize(line))
	if m == nil {
		return domain.Signature{}, false
	}

	sig := domain.Signature{
		Module:     strings.TrimSuffix(m[1], "::"),
		Path:       strings.TrimSuffix(m[2], "."),
		Name:       m[3],
		ReturnType: m[5],
		IsSignal:   m[6] == "signal",
	}
	for _, chunk := range splitTopLevel(m[4], ',') {
		sig.Params = append(sig.Params, parseParam(chunk))
	}
	return sig, true
}

// Format serializes a signature in canonical form. Parse(Format(s)) yields s.
func Format(sig domain.Signature) string {
	var b strings.Builder
	b.WriteString(sig.QualifiedPrefix())
	b.WriteString(sig.Name)
	b.WriteByte('(')
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatParam(p))
	}
	b.WriteByte(')')
	if sig.ReturnType != "" {
		b.WriteString(" -> ")
		b.WriteString(sig.ReturnType)
	}
	if sig.IsSignal {
		b.WriteString(" [signal]")
	}
	return b.String()
}

func FormatParam(p domain.Param) string {
	s := p.Name
	switch {
	case p.TypeHint != "" && p.Default != "":
		s += ": " + p.TypeHint + " = " + p.Default
	case p.TypeHint != "":
		s += ": " + p.TypeHint
	case p.Default != "":
		s += "=" + p.Default
	}
	return s
}

// ParseParam parses a single "name: type = default" chunk, as found in side tables.
func ParseParam(chunk string) domain.Param {
	return parseParam(strings.TrimSpace(chunk))
}

func parseParam(chunk string) domain.Param {
	var p domain.Param
	if i := indexTopLevel(chunk, ": "); i >= 0 {
		p.Name = strings.TrimSpace(chunk[:i])
		p.TypeHint, p.Default = cutDefault(chunk[i+2:])
		return p
	}
	p.Name, p.Default = cutDefault(chunk)
	return p
}

func cutDefault(s string) (string, string) {
	if i := indexTopLevel(s, "="); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s), ""
}

func normalize(line string) string {
	return strings.TrimRight(line, " \t\r")
}

// splitTopLevel splits on sep outside brackets and quotes. Empty chunks are dropped.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	start := 0
	scan(s, func(i int) bool {
		if s[i] == sep {
			if part := strings.TrimSpace(s[start:i]); part != "" {
				parts = append(parts, part)
			}
			start = i + 1
		}
		return false
	})
	if part := strings.TrimSpace(s[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}

// indexTopLevel finds the first occurrence of sub outside brackets and quotes.
func indexTopLevel(s, sub string) int {
	found := -1
	scan(s, func(i int) bool {
		if strings.HasPrefix(s[i:], sub) {
			found = i
			return true
		}
		return false
	})
	return found
}

// scan calls visit for every byte at nesting depth zero that is not inside a quoted
// string. visit returns true to stop.
func scan(s string, visit func(i int) bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			continue
		case '(', '[', '{':
			depth++
			continue
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && visit(i) {
			return
		}
	}
}
