package xref

import (
	"fmt"
	"regexp"
)

const (
	DefaultClassPattern         = `Qgi?s[A-Z]\w+`
	DefaultPrivateModulePattern = `qgis\._(?:core|gui|analysis|processing|server|3d)\.`
	DefaultRole                 = ":py:class:"
)

// Options controls what counts as a class name and how links are written.
type Options struct {
	ClassPattern         string
	PrivateModulePattern string
	Role                 string
}

// Resolver rewrites bare class names into cross-reference directives. Resolution is
// purely lexical: targets are never checked for existence.
type Resolver struct {
	classRe   *regexp.Regexp
	privateRe *regexp.Regexp
	role      string
	cache     *Cache
}

// New compiles the naming rules. cache may be nil.
func New(opts Options, cache *Cache) (*Resolver, error) {
	if opts.ClassPattern == "" {
		opts.ClassPattern = DefaultClassPattern
	}
	if opts.Role == "" {
		opts.Role = DefaultRole
	}

	classRe, err := regexp.Compile(`\b(?:` + opts.ClassPattern + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("invalid class pattern: %w", err)
	}

	r := &Resolver{classRe: classRe, role: opts.Role, cache: cache}

	if opts.PrivateModulePattern != "" {
		r.privateRe, err = regexp.Compile(`(?:` + opts.PrivateModulePattern + `)+(?P<cls>` + opts.ClassPattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("invalid private module pattern: %w", err)
		}
	}
	return r, nil
}

// Resolve strips private module prefixes and links every class-shaped token that is not
// already part of a directive. Resolve(Resolve(x)) == Resolve(x).
func (r *Resolver) Resolve(text string) string {
	if text == "" {
		return text
	}
	if r.cache != nil {
		if v, ok := r.cache.Get(text); ok {
			return v
		}
	}

	out := r.StripPrivate(text)
	out = r.link(out)

	if r.cache != nil {
		r.cache.Put(text, out)
	}
	return out
}

// ResolveLines resolves every line into a new slice.
func (r *Resolver) ResolveLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = r.Resolve(line)
	}
	return out
}

// StripPrivate removes the binding layer's private module qualification before class names.
func (r *Resolver) StripPrivate(text string) string {
	if r.privateRe == nil {
		return text
	}
	return r.privateRe.ReplaceAllString(text, "${cls}")
}

func (r *Resolver) link(text string) string {
	matches := r.classRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	out := make([]byte, 0, len(text)+len(matches)*(len(r.role)+3))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !r.linkable(text, start, end) {
			continue
		}
		out = append(out, text[last:start]...)
		out = append(out, r.role...)
		out = append(out, "`."...)
		out = append(out, text[start:end]...)
		out = append(out, '`')
		last = end
	}
	out = append(out, text[last:]...)
	return string(out)
}

// linkable rejects tokens already inside a directive or literal and tokens that are
// one segment of a dotted path.
func (r *Resolver) linkable(text string, start, end int) bool {
	if start > 0 {
		switch text[start-1] {
		case '`', '.', '~':
			return false
		}
	}
	if end < len(text) {
		switch {
		case text[end] == '`':
			return false
		case text[end] == '.' && end+1 < len(text) && isWordByte(text[end+1]):
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
