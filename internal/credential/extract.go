package credential

import "encoding/json"

// Pair is one flattened (attribute path, value) claim candidate.
type Pair struct {
	Path  string
	Value any
}

// Extract flattens a subject document into (path, value) pairs. Nested
// objects are recursed into with dot-joined paths; arrays are not recursed
// into, they are emitted whole as one JSON-rendered string. Order is
// depth-first in document insertion order. No depth limit is enforced.
func Extract(doc *Document) []Pair {
	if doc == nil {
		return nil
	}
	return extract(doc, "")
}

func extract(doc *Document, prefix string) []Pair {
	var pairs []Pair
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := value.(type) {
		case *Document:
			pairs = append(pairs, extract(v, path)...)
		case []any:
			rendered, err := json.Marshal(v)
			if err != nil {
				// Array elements come from JSON decoding or from the
				// normalizer, both of which only produce marshalable
				// values, so this path stays theoretical.
				rendered = []byte("[]")
			}
			pairs = append(pairs, Pair{Path: path, Value: string(rendered)})
		default:
			pairs = append(pairs, Pair{Path: path, Value: v})
		}
	}
	return pairs
}
