package port

// LinkResolver rewrites free text so class names become cross-references.
type LinkResolver interface {
	Resolve(text string) string
}
