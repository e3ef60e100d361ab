package classify

import (
	"sort"
	"strings"

	"apidoc/internal/domain"
)

// Categories in listing order. Nested classes are classified but never listed.
var listingOrder = []struct {
	kind  domain.MemberKind
	title string
}{
	{domain.KindEnum, "Enums"},
	{domain.KindMethod, "Methods"},
	{domain.KindStaticMethod, "Static Methods"},
	{domain.KindSignal, "Signals"},
	{domain.KindAttribute, "Attributes"},
}

type Options struct {
	// PrivacyMarker prefixes names hidden from public listings.
	PrivacyMarker string
	// Whitelist keeps private-looking names public within one bucket.
	Whitelist map[domain.MemberKind][]string
	// SkipMembers are excluded from every class.
	SkipMembers []string
}

func DefaultOptions() Options {
	return Options{
		PrivacyMarker: "_",
		Whitelist: map[domain.MemberKind][]string{
			domain.KindMethod: {"__init__"},
		},
		SkipMembers: []string{"staticMetaObject", "baseClass"},
	}
}

// Classifier sorts introspected members into listing buckets. It never fails:
// members it cannot place are left out.
type Classifier struct {
	opts Options
}

func NewClassifier(opts Options) *Classifier {
	if opts.PrivacyMarker == "" {
		opts.PrivacyMarker = "_"
	}
	return &Classifier{opts: opts}
}

// Classification holds one record per classified member, ordered by name.
type Classification struct {
	Class   string
	Records []domain.MemberRecord
}

// Classify builds member records for the members the class itself declares.
// excludes is the per-class exclude list; its members are still recorded.
func (c *Classifier) Classify(class domain.ClassInfo, excludes []string) Classification {
	excluded := make(map[string]bool, len(excludes)+len(c.opts.SkipMembers))
	for _, name := range excludes {
		excluded[name] = true
	}
	for _, name := range c.opts.SkipMembers {
		excluded[name] = true
	}

	out := Classification{Class: class.Name}
	seen := make(map[string]bool, len(class.Members))
	for _, m := range class.Members {
		if m.Name == "" || seen[m.Name] {
			continue
		}
		if m.Owner != "" && m.Owner != class.Name {
			continue
		}
		kind, ok := KindOf(m)
		if !ok {
			continue
		}
		seen[m.Name] = true

		rec := domain.MemberRecord{
			Name:     m.Name,
			Kind:     kind,
			IsPublic: c.isPublic(m.Name, kind),
			Doc:      domain.NewRawDocstring(m.Doc),
		}
		switch {
		case excluded[m.Name]:
			rec.Excluded = true
		case m.MonkeyPatched && kind != domain.KindEnum:
			rec.Excluded = true
		case !rec.IsPublic:
			rec.Excluded = true
		}
		out.Records = append(out.Records, rec)
	}

	sort.Slice(out.Records, func(i, j int) bool {
		return out.Records[i].Name < out.Records[j].Name
	})
	return out
}

// KindOf refines the introspected kind hint into a member kind.
func KindOf(m domain.MemberInfo) (domain.MemberKind, bool) {
	switch m.Kind {
	case domain.IntrospectedMethod:
		if m.Static {
			return domain.KindStaticMethod, true
		}
		return domain.KindMethod, true
	case domain.IntrospectedClass:
		if m.Enum {
			return domain.KindEnum, true
		}
		return domain.KindNestedClass, true
	case domain.IntrospectedAttribute:
		if m.Signal {
			return domain.KindSignal, true
		}
		return domain.KindAttribute, true
	}
	return "", false
}

func (c *Classifier) isPublic(name string, kind domain.MemberKind) bool {
	if !strings.HasPrefix(name, c.opts.PrivacyMarker) {
		return true
	}
	for _, w := range c.opts.Whitelist[kind] {
		if w == name {
			return true
		}
	}
	return false
}

// Bucket returns the listed (non-excluded) member names of one kind.
func (c Classification) Bucket(kind domain.MemberKind) []string {
	var names []string
	for _, r := range c.Records {
		if r.Kind == kind && !r.Excluded {
			names = append(names, r.Name)
		}
	}
	return names
}

// Record looks up a member record by name.
func (c Classification) Record(name string) (domain.MemberRecord, bool) {
	for _, r := range c.Records {
		if r.Name == name {
			return r, true
		}
	}
	return domain.MemberRecord{}, false
}

// Excluded returns the names of recorded but unlisted members.
func (c Classification) Excluded() []string {
	var names []string
	for _, r := range c.Records {
		if r.Excluded {
			names = append(names, r.Name)
		}
	}
	return names
}

// Listings returns the non-empty categories in listing order.
func (c Classification) Listings() []domain.Listing {
	var listings []domain.Listing
	for _, cat := range listingOrder {
		names := c.Bucket(cat.kind)
		if len(names) == 0 {
			continue
		}
		listings = append(listings, domain.Listing{Category: cat.title, Names: names})
	}
	return listings
}

// Descriptor assembles the class descriptor from the classification.
func (c Classification) Descriptor(class domain.ClassInfo, summary string) domain.ClassDescriptor {
	d := domain.ClassDescriptor{
		Package: class.Package,
		Name:    class.Name,
		Members: make(map[string]domain.MemberRecord, len(c.Records)),
		Summary: summary,
	}
	for _, b := range class.Bases {
		d.Bases = append(d.Bases, domain.ClassRef{Name: b})
	}
	for _, s := range class.Subclasses {
		d.Subclasses = append(d.Subclasses, domain.ClassRef{Name: s})
	}
	for _, r := range c.Records {
		d.Members[r.Name] = r
	}
	return d
}
