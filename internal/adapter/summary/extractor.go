package summary

import (
	"strings"

	"apidoc/internal/domain"
)

// LineMatcher reports whether a line is a signature line.
type LineMatcher interface {
	Match(line string) bool
}

// Extractor reduces a docstring to the one paragraph shown in listing rows.
type Extractor struct {
	signatures LineMatcher
}

func NewExtractor(signatures LineMatcher) *Extractor {
	return &Extractor{signatures: signatures}
}

// Extract drops signature lines and leading blank lines, then joins the first paragraph
// with single spaces. An empty result means the docstring has no summary.
func (e *Extractor) Extract(doc domain.RawDocstring) string {
	lines := make([]string, 0, len(doc))
	for _, line := range doc {
		if strings.TrimSpace(line) != "" && e.signatures.Match(line) {
			continue
		}
		lines = append(lines, line)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// ExtractText is Extract for unsplit docstring text.
func (e *Extractor) ExtractText(text string) string {
	return e.Extract(domain.NewRawDocstring(text))
}
