package annotate

import (
	"strings"

	"apidoc/internal/adapter/signature"
	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// Annotator injects :type and :rtype: fields derived from a parsed signature into a
// description. Every injection is idempotent and works on a copy of its input.
type Annotator struct {
	resolver port.LinkResolver
}

// New returns an annotator that passes every inserted type through resolver.
// A nil resolver leaves types untouched.
func New(resolver port.LinkResolver) *Annotator {
	return &Annotator{resolver: resolver}
}

// Annotate applies parameter typing and then return typing.
func (a *Annotator) Annotate(desc []string, sig domain.Signature) []string {
	out := a.AnnotateParams(desc, sig.Params)
	return a.AnnotateReturn(out, sig.ReturnType)
}

// AnnotateParams adds ":type <name>: <type>" after each typed parameter's ":param" field,
// appending an empty ":param" field first when the prose never documented it.
func (a *Annotator) AnnotateParams(desc []string, params []domain.Param) []string {
	out := clone(desc)
	for _, p := range params {
		if p.TypeHint == "" {
			continue
		}
		typeField := ":type " + p.Name + ":"
		if indexPrefix(out, typeField) >= 0 {
			continue
		}

		line := typeField + " " + a.resolve(p.TypeHint)
		paramField := ":param " + p.Name + ":"
		i := indexPrefix(out, paramField)
		if i < 0 {
			out = append(out, paramField, line)
			continue
		}
		out = insert(out, fieldEnd(out, i), line)
	}
	return out
}

// AnnotateReturn adds ":rtype:" after the ":return:" field. Without one the field goes at
// the very end, behind a blank line so it is not read as part of the preceding paragraph.
func (a *Annotator) AnnotateReturn(desc []string, returnType string) []string {
	out := clone(desc)
	if returnType == "" || indexPrefix(out, ":rtype:") >= 0 {
		return out
	}

	line := ":rtype: " + a.resolve(returnType)
	i := indexPrefix(out, ":return:", ":returns:")
	if i < 0 {
		return append(out, "", line)
	}
	return insert(out, fieldEnd(out, i), line)
}

// SignalSignature synthesizes the signature of a signal from its declared arguments.
// Signals are attributes in the binding layer and carry no call signature of their own.
func SignalSignature(name string, args []string) domain.Signature {
	sig := domain.Signature{Name: name, IsSignal: true}
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		sig.Params = append(sig.Params, signature.ParseParam(arg))
	}
	return sig
}

func (a *Annotator) resolve(typ string) string {
	if a.resolver == nil {
		return typ
	}
	return a.resolver.Resolve(typ)
}

func indexPrefix(lines []string, prefixes ...string) int {
	for i, line := range lines {
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				return i
			}
		}
	}
	return -1
}

// fieldEnd returns the index just past the field starting at i, including its indented
// continuation lines.
func fieldEnd(lines []string, i int) int {
	j := i + 1
	for j < len(lines) && lines[j] != "" && (lines[j][0] == ' ' || lines[j][0] == '\t') {
		j++
	}
	return j
}

func insert(lines []string, at int, line string) []string {
	lines = append(lines, "")
	copy(lines[at+1:], lines[at:])
	lines[at] = line
	return lines
}

func clone(lines []string) []string {
	out := make([]string, len(lines), len(lines)+4)
	copy(out, lines)
	return out
}
