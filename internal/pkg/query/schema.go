package query

// Kind is the value type a filter on a field is coerced to.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Time
	ObjectID
)

// Field maps a public parameter name onto a storage path.
type Field struct {
	Path string
	Kind Kind
}

// Schema declares what a resource exposes to list queries.
type Schema struct {
	// Fields are the filterable and sortable fields keyed by public name.
	Fields map[string]Field
	// Search lists the storage paths matched by the free-text search.
	Search []string
	// DefaultSort applies when the request names no usable sort key.
	DefaultSort []SortKey
}

// Lookup resolves a public field name.
func (s Schema) Lookup(name string) (Field, bool) {
	f, ok := s.Fields[name]
	return f, ok
}
