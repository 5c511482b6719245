package normalize

// Kind tags the structural shape of a normalized payload.
type Kind int

// Payload shapes, from most to least structured.
const (
	// KindEmpty means there is nothing to render.
	KindEmpty Kind = iota
	// KindTable is a columns/rows structure.
	KindTable
	// KindList is a flat sequence of items.
	KindList
	// KindScalar is a single primitive value.
	KindScalar
	// KindOpaque is an object with no recognized structure; renderers
	// decide how to present it.
	KindOpaque
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindTable:
		return "table"
	case KindList:
		return "list"
	case KindScalar:
		return "scalar"
	default:
		return "opaque"
	}
}

// Payload is the typed view of a normalized value. Exactly the fields for
// its Kind are populated; Value always holds the normalized input.
type Payload struct {
	Kind    Kind
	Columns []any
	Rows    []any
	Items   []any
	Value   any
}

// Classify runs Normalize and maps the result onto a tagged variant so
// render plugins can switch on structure instead of re-probing maps.
func Classify(payload any) Payload {
	v := Normalize(payload)

	switch val := v.(type) {
	case nil:
		return Payload{Kind: KindEmpty}
	case map[string]any:
		if rows, ok := val["rows"].([]any); ok {
			columns, _ := val["columns"].([]any)
			return Payload{Kind: KindTable, Columns: columns, Rows: rows, Value: val}
		}
		return Payload{Kind: KindOpaque, Value: val}
	case []any:
		return Payload{Kind: KindList, Items: val, Value: val}
	default:
		return Payload{Kind: KindScalar, Value: val}
	}
}
