package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	smithy "github.com/smithy-go/runtime"
)

// FromGo converts an arbitrary Go value into a schema-free Document, via an
// intermediate JSON encoding. Numbers decode with json.Number so the
// Document's arbitrary-precision Number form is populated directly, instead
// of rounding through float64.
func FromGo(v interface{}) (*smithy.Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document value: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document value: %w", err)
	}

	return smithy.NewDocument(toDocumentValue(raw)), nil
}

// ToGo unmarshals d into v, which must be a pointer, via an intermediate
// JSON encoding.
func ToGo(d *smithy.Document, v interface{}) error {
	b, err := json.Marshal(jsonable(d.AsValue()))
	if err != nil {
		return fmt.Errorf("marshal document value: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal document value: %w", err)
	}
	return nil
}

// toDocumentValue recursively rewrites a json.Decoder-produced tree into the
// shape smithy.NewDocument accepts: json.Number becomes *big.Float,
// []interface{}/map[string]interface{} are rebuilt as []any/map[string]any
// with their own elements converted.
func toDocumentValue(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		f, _, err := big.ParseFloat(x.String(), 10, 200, big.ToNearestEven)
		if err != nil {
			f = new(big.Float)
		}
		return f
	case []interface{}:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = toDocumentValue(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = toDocumentValue(e)
		}
		return out
	default:
		return x
	}
}

// jsonable is toDocumentValue's inverse: it rewrites a Document.AsValue tree
// so encoding/json can marshal it, representing *big.Float as a json.Number
// so no precision is lost to float64 along the way.
func jsonable(v interface{}) interface{} {
	switch x := v.(type) {
	case *big.Float:
		return json.Number(x.Text('f', -1))
	case []interface{}:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonable(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonable(e)
		}
		return out
	default:
		return x
	}
}

// Value wraps an arbitrary Go value for use as a document-shaped API member.
// A Value built with NewValue produces its Document lazily at serialization
// time; a Value built from a deserialized response wraps the Document
// directly and converts back to Go lazily on UnmarshalDocument.
type Value struct {
	raw interface{}
	doc *smithy.Document
}

// NewValue wraps a Go value to be serialized as a document member.
func NewValue(v interface{}) Value {
	return Value{raw: v}
}

// ValueFromDocument wraps an already-decoded Document, as produced by a
// deserializer reading a document-shaped response member.
func ValueFromDocument(d *smithy.Document) Value {
	return Value{doc: d}
}

// Document returns the Value's content as a *smithy.Document, converting
// from the wrapped Go value on first use if necessary.
func (d Value) Document() (*smithy.Document, error) {
	if d.doc != nil {
		return d.doc, nil
	}
	return FromGo(d.raw)
}

// UnmarshalDocument converts the wrapped value into the Go type provided.
// Will panic if the provided value is not a pointer type.
func (d Value) UnmarshalDocument(t interface{}) error {
	if d.doc != nil {
		return ToGo(d.doc, t)
	}

	b, err := json.Marshal(d.raw)
	if err != nil {
		return fmt.Errorf("unable to convert document value, %w", err)
	}
	if err := json.Unmarshal(b, t); err != nil {
		return fmt.Errorf("unable to convert document value, %w", err)
	}
	return nil
}

// GetValue returns the underlying document value.
func (d Value) GetValue() (interface{}, error) {
	if d.doc != nil {
		return d.doc.AsValue(), nil
	}
	return d.raw, nil
}
