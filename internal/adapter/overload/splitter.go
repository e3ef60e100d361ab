package overload

import (
	"regexp"

	"apidoc/internal/domain"
)

var anyCall = regexp.MustCompile(`^\w+\(`)

// Split is the result of splitting one docstring.
type Split struct {
	// Preamble holds the lines seen before the first signature line.
	Preamble []string
	Blocks   []domain.OverloadBlock
}

// Splitter breaks a docstring describing several call forms into one block per form.
//
// A line starting with "name(" always opens a new block, so description prose that
// happens to begin the same way is read as another overload.
type Splitter struct {
	patterns map[string]*regexp.Regexp
}

func NewSplitter() *Splitter {
	return &Splitter{patterns: make(map[string]*regexp.Regexp)}
}

// Split scans the docstring top to bottom. name is the expected call name; when empty
// any identifier followed by "(" starts a block.
func (s *Splitter) Split(doc domain.RawDocstring, name string) Split {
	pattern := s.pattern(name)

	var out Split
	var current *domain.OverloadBlock
	seeking := true

	for _, line := range doc {
		if pattern.MatchString(line) {
			if current != nil {
				out.Blocks = append(out.Blocks, *current)
			}
			current = &domain.OverloadBlock{SignatureText: line, Description: []string{}}
			seeking = false
			continue
		}

		if seeking {
			out.Preamble = append(out.Preamble, line)
			continue
		}
		current.Description = append(current.Description, line)
	}

	if current != nil {
		out.Blocks = append(out.Blocks, *current)
	}
	return out
}

// IsOverloaded reports whether the docstring describes more than one call form.
func (s *Splitter) IsOverloaded(doc domain.RawDocstring, name string) bool {
	return len(s.Split(doc, name).Blocks) > 1
}

func (s *Splitter) pattern(name string) *regexp.Regexp {
	if name == "" {
		return anyCall
	}
	if re, ok := s.patterns[name]; ok {
		return re
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `\(`)
	s.patterns[name] = re
	return re
}
