package credential

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a JSON object that preserves key insertion order. Claim
// extraction depends on document order, so credential subjects are never
// decoded into plain Go maps.
//
// Values are stored as:
//   - *Document for nested objects
//   - []any for arrays (elements follow the same mapping)
//   - json.Number, string, bool or nil for scalars
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument returns an empty ordered document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// Set adds or replaces a key. New keys keep insertion order.
func (d *Document) Set(key string, value any) {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// GetString returns the value under key if it is a string.
func (d *Document) GetString(key string) (string, bool) {
	v, ok := d.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the keys in insertion order. The slice is shared; callers must
// not mutate it.
func (d *Document) Keys() []string {
	return d.keys
}

// Len returns the number of keys.
func (d *Document) Len() int {
	return len(d.keys)
}

// UnmarshalJSON decodes a JSON object token by token so that key order
// survives.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document: expected object, got %v", tok)
	}
	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// MarshalJSON encodes the document with its original key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeObject consumes tokens after an opening '{' up to and including the
// matching '}'.
func decodeObject(dec *json.Decoder) (*Document, error) {
	doc := NewDocument()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return doc, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("document: expected key, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		doc.Set(key, value)
	}
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	values := []any{}
	for {
		if !dec.More() {
			// Consume the closing ']'.
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return values, nil
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("document: unexpected delimiter %v", delim)
		}
	}
	// json.Number, string, bool or nil.
	return tok, nil
}
