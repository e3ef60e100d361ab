package classify

import (
	"sort"
	"strings"

	"apidoc/internal/domain"
)

// ClassLookup resolves a base class by name.
type ClassLookup interface {
	LookupClass(name string) (domain.ClassInfo, bool)
}

// LineMatcher reports whether a line is a signature line.
type LineMatcher interface {
	Match(line string) bool
}

// OverrideExclusions returns the members of class that add nothing over an ancestor:
// an ancestor declares the same name and the member's docstring is absent, made of
// signature lines only, or byte-identical to the ancestor's. Docstrings are compared
// raw, so whitespace differences count as new documentation.
func OverrideExclusions(class domain.ClassInfo, lookup ClassLookup, signatures LineMatcher) []string {
	var names []string
	for _, m := range class.Members {
		if m.Owner != "" && m.Owner != class.Name {
			continue
		}
		doc := m.Doc
		if signatureOnly(doc, signatures) {
			doc = ""
		}

		for _, baseName := range class.Bases {
			base, ok := lookup.LookupClass(baseName)
			if !ok {
				continue
			}
			inherited, found := findMember(base, m.Name, lookup, map[string]bool{})
			if found && (doc == "" || inherited.Doc == doc) {
				names = append(names, m.Name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// findMember searches a class and its ancestors, the way attribute lookup would.
func findMember(class domain.ClassInfo, name string, lookup ClassLookup, visited map[string]bool) (domain.MemberInfo, bool) {
	if visited[class.Name] {
		return domain.MemberInfo{}, false
	}
	visited[class.Name] = true

	if m, ok := class.Member(name); ok {
		return m, true
	}
	for _, baseName := range class.Bases {
		base, ok := lookup.LookupClass(baseName)
		if !ok {
			continue
		}
		if m, ok := findMember(base, name, lookup, visited); ok {
			return m, true
		}
	}
	return domain.MemberInfo{}, false
}

// signatureOnly reports whether every line of doc is a signature line. A blank line
// is not a signature, so "sig\n" still counts as documentation.
func signatureOnly(doc string, signatures LineMatcher) bool {
	if doc == "" {
		return false
	}
	for _, line := range strings.Split(doc, "\n") {
		if !signatures.Match(line) {
			return false
		}
	}
	return true
}
