package usecase

import (
	"context"
	"log/slog"
	"strings"

	"apidoc/internal/adapter/annotate"
	"apidoc/internal/adapter/classify"
	"apidoc/internal/adapter/overload"
	"apidoc/internal/adapter/signature"
	"apidoc/internal/adapter/summary"
	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// DocumenterOptions configures how a class is turned into its model.
type DocumenterOptions struct {
	SideTables  domain.SideTables
	Classifier  classify.Options
	Constructor string
}

// Documenter turns one introspected class into its documentation model.
type Documenter struct {
	source     port.Introspector
	resolver   port.LinkResolver
	grammar    *signature.Grammar
	splitter   *overload.Splitter
	annotator  *annotate.Annotator
	summaries  *summary.Extractor
	classifier *classify.Classifier
	tables     domain.SideTables
	ctor       string
}

// NewDocumenter creates a documenter. source is used for ancestor and subclass lookups.
func NewDocumenter(source port.Introspector, resolver port.LinkResolver, opts DocumenterOptions) *Documenter {
	if opts.Constructor == "" {
		opts.Constructor = "__init__"
	}
	grammar := signature.New()
	return &Documenter{
		source:     source,
		resolver:   resolver,
		grammar:    grammar,
		splitter:   overload.NewSplitter(),
		annotator:  annotate.New(resolver),
		summaries:  summary.NewExtractor(grammar),
		classifier: classify.NewClassifier(opts.Classifier),
		tables:     opts.SideTables,
		ctor:       opts.Constructor,
	}
}

// Summary returns the one-line summary of a docstring.
func (d *Documenter) Summary(doc string) string {
	return d.summaries.ExtractText(doc)
}

// Document builds the model of one class. A signature line that fails the grammar for
// a member whose owner is not allow-listed yields a *domain.SignatureError.
func (d *Documenter) Document(ctx context.Context, class domain.ClassInfo) (domain.ClassModel, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClassModel{}, err
	}

	doc := domain.NewRawDocstring(class.Doc)
	split := d.splitter.Split(doc, class.Name)

	model := domain.ClassModel{
		Package:       class.Package,
		Name:          class.Name,
		QualifiedName: class.QualifiedName(),
		Summary:       d.summaries.Extract(doc),
		Header:        d.resolveLines(trimBlankEdges(split.Preamble)),
		Bases:         d.baseRows(class),
		Subclasses:    d.subclassRows(class),
	}

	ctors, err := d.constructors(class, split.Blocks)
	if err != nil {
		return domain.ClassModel{}, err
	}
	if len(ctors.Overloads) > 0 {
		model.Constructors = []domain.CallableDoc{ctors}
	}

	excludes := append([]string{}, d.tables.ExcludeMembers[class.Name]...)
	excludes = append(excludes, classify.OverrideExclusions(class, d.source, d.grammar)...)

	classification := d.classifier.Classify(class, excludes)
	descriptor := classification.Descriptor(class, model.Summary)
	model.Listings = classification.Listings()
	model.Excluded = classification.Excluded()

	for _, listing := range model.Listings {
		for _, name := range listing.Names {
			callable, err := d.member(class, descriptor.Members[name])
			if err != nil {
				return domain.ClassModel{}, err
			}
			model.Members = append(model.Members, callable)
		}
	}

	return model, nil
}

// constructors documents the call forms the class docstring declares under the class
// name. They are emitted under the constructor name and only the first is indexed.
func (d *Documenter) constructors(class domain.ClassInfo, blocks []domain.OverloadBlock) (domain.CallableDoc, error) {
	out := domain.CallableDoc{Name: d.ctor, Kind: domain.KindMethod}
	for i, block := range blocks {
		ov, err := d.overload(class, d.ctor, block)
		if err != nil {
			return out, err
		}
		ov.SignatureText = d.ctor + strings.TrimPrefix(strings.TrimSpace(block.SignatureText), class.Name)
		if ov.Signature != nil {
			ov.Signature.Name = d.ctor
		}
		ov.NoIndex = i > 0
		out.Overloads = append(out.Overloads, ov)
	}
	return out, nil
}

func (d *Documenter) member(class domain.ClassInfo, rec domain.MemberRecord) (domain.CallableDoc, error) {
	doc := rec.Doc
	if text, ok := class.AttributeDocs[rec.Name]; ok {
		doc = domain.NewRawDocstring(text)
	}

	out := domain.CallableDoc{Name: rec.Name, Kind: rec.Kind}
	switch rec.Kind {
	case domain.KindMethod, domain.KindStaticMethod:
		overloads, err := d.callable(class, rec.Name, doc)
		if err != nil {
			return out, err
		}
		out.Overloads = overloads
	case domain.KindSignal:
		out.Overloads = []domain.DocumentedOverload{d.signal(class, rec.Name, doc)}
	default:
		out.Overloads = []domain.DocumentedOverload{{
			Description: d.resolveLines(doc),
		}}
	}
	return out, nil
}

// callable validates the first docstring line, splits the docstring into overloads and
// documents each one.
func (d *Documenter) callable(class domain.ClassInfo, name string, doc domain.RawDocstring) ([]domain.DocumentedOverload, error) {
	if len(doc) == 0 {
		return []domain.DocumentedOverload{{SignatureText: name, Description: []string{}}}, nil
	}

	// A blank first line means the docstring carries no signature at all.
	first := doc[0]
	blank := strings.TrimSpace(first) == ""
	if blank || !d.grammar.Match(first) {
		if !blank {
			if err := d.reject(class, name, first); err != nil {
				return nil, err
			}
		}
		return []domain.DocumentedOverload{{
			SignatureText: name,
			Description:   d.resolveLines(doc),
		}}, nil
	}

	split := d.splitter.Split(doc, name)
	blocks := split.Blocks
	if len(blocks) == 0 {
		// The first line is a signature for another spelling of the name
		// (qualified or renamed); treat the docstring as a single form.
		blocks = []domain.OverloadBlock{{SignatureText: first, Description: append([]string{}, doc[1:]...)}}
	}

	overloads := make([]domain.DocumentedOverload, 0, len(blocks))
	for _, block := range blocks {
		ov, err := d.overload(class, name, block)
		if err != nil {
			return nil, err
		}
		overloads = append(overloads, ov)
	}
	return overloads, nil
}

func (d *Documenter) overload(class domain.ClassInfo, name string, block domain.OverloadBlock) (domain.DocumentedOverload, error) {
	ov := domain.DocumentedOverload{
		SignatureText: strings.TrimSpace(block.SignatureText),
		Description:   d.resolveLines(block.Description),
	}
	sig, ok := d.grammar.Parse(block.SignatureText)
	if !ok {
		return ov, d.reject(class, name, block.SignatureText)
	}
	ov.Signature = &sig
	ov.Description = d.annotator.Annotate(ov.Description, sig)
	return ov, nil
}

// signal documents a signal from its synthesized signature. Signature lines in the
// docstring itself are dropped.
func (d *Documenter) signal(class domain.ClassInfo, name string, doc domain.RawDocstring) domain.DocumentedOverload {
	args, ok := class.SignalArguments[name]
	if !ok {
		args = d.tables.SignalArguments[class.Name+"."+name]
	}
	sig := annotate.SignalSignature(name, args)

	var desc []string
	for _, line := range doc {
		if len(desc) == 0 && (strings.TrimSpace(line) == "" || d.grammar.Match(line)) {
			continue
		}
		desc = append(desc, line)
	}

	return domain.DocumentedOverload{
		SignatureText: signature.Format(sig),
		Signature:     &sig,
		Description:   d.annotator.AnnotateParams(d.resolveLines(desc), sig.Params),
	}
}

// reject returns the fatal error for a signature line that failed the grammar, or nil
// when the class or member is allow-listed.
func (d *Documenter) reject(class domain.ClassInfo, name, line string) error {
	qualified := class.QualifiedName() + "." + name
	if d.tables.IsNonInstantiable(class.Name, class.Name+"."+name, qualified) {
		slog.Debug("signature skipped", "member", qualified, "line", line)
		return nil
	}
	return &domain.SignatureError{QualifiedName: qualified, Line: strings.TrimSpace(line)}
}

// baseRows walks the ancestors depth first, skipping hidden bases and repeats.
func (d *Documenter) baseRows(class domain.ClassInfo) []domain.ClassRow {
	var rows []domain.ClassRow
	seen := map[string]bool{class.Name: true}

	var walk func(bases []string)
	walk = func(bases []string) {
		for _, name := range bases {
			if seen[name] || d.tables.IsHiddenBase(name) {
				continue
			}
			seen[name] = true
			base, ok := d.source.LookupClass(name)
			rows = append(rows, domain.ClassRow{Name: name, Summary: d.Summary(base.Doc)})
			if ok {
				walk(base.Bases)
			}
		}
	}
	walk(class.Bases)
	return rows
}

// subclassRows lists direct subclasses.
func (d *Documenter) subclassRows(class domain.ClassInfo) []domain.ClassRow {
	var rows []domain.ClassRow
	for _, name := range class.Subclasses {
		if d.tables.IsHiddenBase(name) {
			continue
		}
		sub, _ := d.source.LookupClass(name)
		rows = append(rows, domain.ClassRow{Name: name, Summary: d.Summary(sub.Doc)})
	}
	return rows
}

func (d *Documenter) resolveLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if d.resolver == nil {
			out[i] = l
			continue
		}
		out[i] = d.resolver.Resolve(l)
	}
	return out
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
