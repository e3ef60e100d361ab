package domain

import (
	"strings"
	"time"
)

// RawDocstring is a docstring as captured from the binding layer, one entry per line.
type RawDocstring []string

// NewRawDocstring splits docstring text into lines.
func NewRawDocstring(text string) RawDocstring {
	if text == "" {
		return nil
	}
	return RawDocstring(strings.Split(text, "\n"))
}

// Text joins the lines back into docstring text.
func (d RawDocstring) Text() string {
	return strings.Join(d, "\n")
}

type Param struct {
	Name     string `json:"name"`
	TypeHint string `json:"type_hint,omitempty"`
	Default  string `json:"default,omitempty"`
}

// Signature is one parsed call form. Module holds the part before "::" and Path the
// dotted qualifier before the name, both without their separators.
type Signature struct {
	Module     string  `json:"module,omitempty"`
	Path       string  `json:"path,omitempty"`
	Name       string  `json:"name"`
	Params     []Param `json:"params,omitempty"`
	ReturnType string  `json:"return_type,omitempty"`
	IsSignal   bool    `json:"is_signal,omitempty"`
}

// QualifiedPrefix returns everything the signature line carried before the name.
func (s Signature) QualifiedPrefix() string {
	var b strings.Builder
	if s.Module != "" {
		b.WriteString(s.Module)
		b.WriteString("::")
	}
	if s.Path != "" {
		b.WriteString(s.Path)
		b.WriteString(".")
	}
	return b.String()
}

type OverloadBlock struct {
	SignatureText string   `json:"signature_text"`
	Description   []string `json:"description"`
}

type MemberKind string

const (
	KindMethod       MemberKind = "method"
	KindStaticMethod MemberKind = "static_method"
	KindSignal       MemberKind = "signal"
	KindAttribute    MemberKind = "attribute"
	KindEnum         MemberKind = "enum"
	KindNestedClass  MemberKind = "nested_class"
)

type MemberRecord struct {
	Name     string       `json:"name"`
	Kind     MemberKind   `json:"kind"`
	IsPublic bool         `json:"is_public"`
	Excluded bool         `json:"excluded"`
	Doc      RawDocstring `json:"doc,omitempty"`
}

// ClassRef names another class without owning it.
type ClassRef struct {
	Package string `json:"package,omitempty"`
	Name    string `json:"name"`
}

type ClassDescriptor struct {
	Package    string                  `json:"package"`
	Name       string                  `json:"name"`
	Bases      []ClassRef              `json:"bases,omitempty"`
	Subclasses []ClassRef              `json:"subclasses,omitempty"`
	Members    map[string]MemberRecord `json:"members"`
	Summary    string                  `json:"summary"`
}

// SideTables is read-only configuration consulted by the pipeline.
type SideTables struct {
	NonInstantiable []string            `yaml:"non-instantiable" json:"non_instantiable,omitempty"`
	Skipped         []string            `yaml:"skipped" json:"skipped,omitempty"`
	SignalArguments map[string][]string `yaml:"signal-arguments" json:"signal_arguments,omitempty"`
	GroupNames      map[string]string   `yaml:"group-names" json:"group_names,omitempty"`
	ExcludeMembers  map[string][]string `yaml:"exclude-members" json:"exclude_members,omitempty"`
	SkipMembers     []string            `yaml:"skip-members" json:"skip_members,omitempty"`
	HiddenBases     []string            `yaml:"hidden-bases" json:"hidden_bases,omitempty"`
}

// IsNonInstantiable reports whether any of the given names is allow-listed as exempt
// from strict signature validation.
func (t SideTables) IsNonInstantiable(names ...string) bool {
	for _, n := range names {
		if contains(t.NonInstantiable, n) {
			return true
		}
	}
	return false
}

func (t SideTables) IsSkipped(class string) bool {
	return contains(t.Skipped, class)
}

func (t SideTables) IsHiddenBase(name string) bool {
	return contains(t.HiddenBases, name)
}

// GroupTitle maps a group key to its display name, falling back to the key itself.
func (t SideTables) GroupTitle(key string) string {
	if title, ok := t.GroupNames[key]; ok {
		return title
	}
	return key
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// IntrospectedKind is the coarse kind hint the binding layer reports for a member.
type IntrospectedKind string

const (
	IntrospectedMethod    IntrospectedKind = "method"
	IntrospectedClass     IntrospectedKind = "class"
	IntrospectedAttribute IntrospectedKind = "attribute"
)

// MemberInfo is one introspected member. Binding-layer quirks are carried as tags.
type MemberInfo struct {
	Name          string           `yaml:"name" json:"name"`
	Kind          IntrospectedKind `yaml:"kind" json:"kind"`
	Static        bool             `yaml:"static" json:"static,omitempty"`
	Owner         string           `yaml:"owner" json:"owner,omitempty"`
	Enum          bool             `yaml:"enum" json:"enum,omitempty"`
	Signal        bool             `yaml:"signal" json:"signal,omitempty"`
	MonkeyPatched bool             `yaml:"monkey_patched" json:"monkey_patched,omitempty"`
	Doc           string           `yaml:"doc" json:"doc,omitempty"`
}

type ClassInfo struct {
	Package         string              `yaml:"package" json:"package"`
	Module          string              `yaml:"module" json:"module,omitempty"`
	Name            string              `yaml:"name" json:"name"`
	ExportedName    string              `yaml:"exported_name" json:"exported_name,omitempty"`
	Doc             string              `yaml:"doc" json:"doc,omitempty"`
	Bases           []string            `yaml:"bases" json:"bases,omitempty"`
	Subclasses      []string            `yaml:"subclasses" json:"subclasses,omitempty"`
	Group           []string            `yaml:"group" json:"group,omitempty"`
	SignalArguments map[string][]string `yaml:"signal_arguments" json:"signal_arguments,omitempty"`
	AttributeDocs   map[string]string   `yaml:"attribute_docs" json:"attribute_docs,omitempty"`
	Members         []MemberInfo        `yaml:"members" json:"members,omitempty"`
}

// IsAlias reports whether the class is exported under a name other than its own.
func (c ClassInfo) IsAlias() bool {
	return c.ExportedName != "" && c.ExportedName != c.Name
}

// QualifiedName returns module.Class, or package.Class when no module is known.
func (c ClassInfo) QualifiedName() string {
	if c.Module != "" {
		return c.Module + "." + c.Name
	}
	if c.Package != "" {
		return c.Package + "." + c.Name
	}
	return c.Name
}

// Member looks up an introspected member by name.
func (c ClassInfo) Member(name string) (MemberInfo, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}
	return MemberInfo{}, false
}

// GroupKey joins the class group path with dots.
func (c ClassInfo) GroupKey() string {
	return strings.Join(c.Group, ".")
}

type ClassRow struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

type Listing struct {
	Category string   `json:"category"`
	Names    []string `json:"names"`
}

type DocumentedOverload struct {
	SignatureText string     `json:"signature_text"`
	Signature     *Signature `json:"signature,omitempty"`
	Description   []string   `json:"description"`
	NoIndex       bool       `json:"no_index,omitempty"`
}

type CallableDoc struct {
	Name      string               `json:"name"`
	Kind      MemberKind           `json:"kind"`
	Overloads []DocumentedOverload `json:"overloads"`
}

type ClassModel struct {
	Package       string        `json:"package"`
	Name          string        `json:"name"`
	QualifiedName string        `json:"qualified_name"`
	Summary       string        `json:"summary"`
	Header        []string      `json:"header,omitempty"`
	Bases         []ClassRow    `json:"bases,omitempty"`
	Subclasses    []ClassRow    `json:"subclasses,omitempty"`
	Listings      []Listing     `json:"listings,omitempty"`
	Constructors  []CallableDoc `json:"constructors,omitempty"`
	Members       []CallableDoc `json:"members,omitempty"`
	Excluded      []string      `json:"excluded,omitempty"`
}

type GroupIndex struct {
	Key    string     `json:"key"`
	Title  string     `json:"title"`
	Anchor string     `json:"anchor,omitempty"`
	Rows   []ClassRow `json:"rows"`
}

type PackageIndex struct {
	Package string       `json:"package"`
	Groups  []GroupIndex `json:"groups"`
}

type BuildInfo struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	Packages      []string  `json:"packages"`
	Classes       int       `json:"classes"`
	SchemaVersion int       `json:"schema_version"`
	ConfigHash    string    `json:"config_hash"`
}
