package smithy

import (
	"fmt"
	"math/big"
	"time"
)

// DocumentType enumerates the inner type carried by a Document.
type DocumentType int

// Document inner type kinds.
const (
	DocumentTypeNull DocumentType = iota
	DocumentTypeBoolean
	DocumentTypeString
	DocumentTypeNumber // arbitrary precision, see Document.Number
	DocumentTypeBlob
	DocumentTypeTimestamp
	DocumentTypeList
	DocumentTypeMap
)

// A Document wraps protocol-agnostic open content: a JSON-like value whose
// shape is not known until runtime, optionally associated with the Schema
// used to project it onto (or from) a typed shape.
//
// A Document holds its structural content (list/map) in one of two forms: a
// "raw" form of plain Go values (map[string]any / []any), produced cheaply by
// NewDocument, or a "wrapped" form of *Document children, built lazily the
// first time a caller traverses into a member via Index/Member. AsValue
// collapses back to the raw form. This mirrors the source runtime's
// raw/wrapped split: callers that only round-trip a document (never inspect
// it) never pay wrapping cost.
type Document struct {
	typ    DocumentType
	raw    any // nil, bool, string, *big.Float, []byte, time.Time, []any, map[string]any
	schema *Schema

	wrappedList []*Document
	wrappedMap  map[string]*Document
	wrapped     bool
}

// NewDocument wraps a raw Go value as a Document. Supported inputs: nil,
// bool, string, int, int32, int64, float32 and float64 (normalized to
// *big.Float so the value round-trips with arbitrary precision),
// *big.Float, []byte, time.Time, []any, and map[string]any. Any other type,
// including int8, int16 and the unsigned integer kinds, panics.
func NewDocument(v any) *Document {
	switch x := v.(type) {
	case nil:
		return &Document{typ: DocumentTypeNull}
	case bool:
		return &Document{typ: DocumentTypeBoolean, raw: x}
	case string:
		return &Document{typ: DocumentTypeString, raw: x}
	case []byte:
		return &Document{typ: DocumentTypeBlob, raw: x}
	case time.Time:
		return &Document{typ: DocumentTypeTimestamp, raw: x}
	case *big.Float:
		return &Document{typ: DocumentTypeNumber, raw: x}
	case []any:
		return &Document{typ: DocumentTypeList, raw: x}
	case map[string]any:
		return &Document{typ: DocumentTypeMap, raw: x}
	case int:
		return NewDocument(new(big.Float).SetInt64(int64(x)))
	case int32:
		return NewDocument(new(big.Float).SetInt64(int64(x)))
	case int64:
		return NewDocument(new(big.Float).SetInt64(x))
	case float32:
		return NewDocument(new(big.Float).SetFloat64(float64(x)))
	case float64:
		return NewDocument(new(big.Float).SetFloat64(x))
	default:
		panic(fmt.Sprintf("smithy: unsupported document value type %T", v))
	}
}

// WithSchema returns a shallow copy of the document associated with the
// given schema, used when projecting onto/from typed shapes and for member
// lookup in structures.
func (d *Document) WithSchema(s *Schema) *Document {
	cp := *d
	cp.schema = s
	return &cp
}

// Schema returns the schema associated with the document, if any.
func (d *Document) Schema() *Schema { return d.schema }

// Type returns the document's inner type.
func (d *Document) Type() DocumentType { return d.typ }

func (d *Document) IsNull() bool { return d.typ == DocumentTypeNull }

// Number returns the document's numeric value. Panics if the document is not
// a number.
func (d *Document) Number() *big.Float { return d.raw.(*big.Float) }

// Bool returns the document's boolean value. Panics if not a bool.
func (d *Document) Bool() bool { return d.raw.(bool) }

// String returns the document's string value. Panics if not a string.
func (d *Document) String() string { return d.raw.(string) }

// Blob returns the document's blob value. Panics if not a blob.
func (d *Document) Blob() []byte { return d.raw.([]byte) }

// Timestamp returns the document's timestamp value. Panics if not a
// timestamp.
func (d *Document) Timestamp() time.Time { return d.raw.(time.Time) }

// Len returns the number of elements in a list or map document.
func (d *Document) Len() int {
	switch d.typ {
	case DocumentTypeList:
		if d.wrapped {
			return len(d.wrappedList)
		}
		return len(d.raw.([]any))
	case DocumentTypeMap:
		if d.wrapped {
			return len(d.wrappedMap)
		}
		return len(d.raw.(map[string]any))
	default:
		return 0
	}
}

// Index returns the i'th element of a list document, promoting the raw list
// to wrapped form on first traversal.
func (d *Document) Index(i int) *Document {
	d.promoteList()
	return d.wrappedList[i]
}

// Member returns the named element of a map (or structure-shaped) document,
// promoting the raw map to wrapped form on first traversal. If the document
// carries a schema, the child is associated with the corresponding member
// schema.
func (d *Document) Member(name string) (*Document, bool) {
	d.promoteMap()
	m, ok := d.wrappedMap[name]
	return m, ok
}

// Keys returns the member names of a map document in the order produced by
// the underlying raw representation's iteration (undefined for Go maps;
// callers needing determinism should sort).
func (d *Document) Keys() []string {
	d.promoteMap()
	keys := make([]string, 0, len(d.wrappedMap))
	for k := range d.wrappedMap {
		keys = append(keys, k)
	}
	return keys
}

// SetMember associates a child document with a map/structure document under
// the given name, tagging the child with the corresponding member schema (if
// the parent document carries a schema) so downstream projections retain
// fidelity.
func (d *Document) SetMember(name string, child *Document) {
	d.promoteMap()
	if d.schema != nil {
		if ms, ok := d.schema.MemberByName(name); ok {
			child = child.WithSchema(ms)
		}
	}
	d.wrappedMap[name] = child
}

func (d *Document) promoteList() {
	if d.wrapped || d.typ != DocumentTypeList {
		return
	}
	raw := d.raw.([]any)
	d.wrappedList = make([]*Document, len(raw))
	for i, v := range raw {
		d.wrappedList[i] = NewDocument(v)
	}
	d.wrapped = true
}

func (d *Document) promoteMap() {
	if d.wrapped || d.typ != DocumentTypeMap {
		if d.typ == DocumentTypeMap && d.wrappedMap == nil {
			d.wrappedMap = map[string]*Document{}
		}
		return
	}
	raw := d.raw.(map[string]any)
	d.wrappedMap = make(map[string]*Document, len(raw))
	for k, v := range raw {
		child := NewDocument(v)
		if d.schema != nil {
			if ms, ok := d.schema.MemberByName(k); ok {
				child = child.WithSchema(ms)
			}
		}
		d.wrappedMap[k] = child
	}
	d.wrapped = true
}

// AsValue collapses the document back to its raw Go representation
// (recursively, for list/map documents), discarding any schema association.
func (d *Document) AsValue() any {
	switch d.typ {
	case DocumentTypeNull:
		return nil
	case DocumentTypeList:
		if !d.wrapped {
			return d.raw
		}
		out := make([]any, len(d.wrappedList))
		for i, c := range d.wrappedList {
			out[i] = c.AsValue()
		}
		return out
	case DocumentTypeMap:
		if !d.wrapped {
			return d.raw
		}
		out := make(map[string]any, len(d.wrappedMap))
		for k, c := range d.wrappedMap {
			out[k] = c.AsValue()
		}
		return out
	default:
		return d.raw
	}
}

// Equal reports whether two documents are semantically equal, ignoring any
// schema association.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.typ != o.typ {
		return false
	}
	switch d.typ {
	case DocumentTypeNull:
		return true
	case DocumentTypeNumber:
		return d.Number().Cmp(o.Number()) == 0
	case DocumentTypeList:
		if d.Len() != o.Len() {
			return false
		}
		for i := 0; i < d.Len(); i++ {
			if !d.Index(i).Equal(o.Index(i)) {
				return false
			}
		}
		return true
	case DocumentTypeMap:
		if d.Len() != o.Len() {
			return false
		}
		d.promoteMap()
		o.promoteMap()
		for k, v := range d.wrappedMap {
			ov, ok := o.wrappedMap[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case DocumentTypeBlob:
		a, b := d.Blob(), o.Blob()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case DocumentTypeTimestamp:
		return d.Timestamp().Equal(o.Timestamp())
	default:
		return d.raw == o.raw
	}
}

// ShapeSerializable is implemented by generated shape types so they can be
// converted to/from Document. It is intentionally distinct from
// Serializable/Deserializable so document conversion can use a dedicated
// document-producing/consuming visitor pair (see FromShape/AsShape).
type ShapeSerializable interface {
	Serializable
}

// FromShape runs the document-producing serializer over a
// Serializable shape, returning a Document equivalent to the shape's
// serialized form.
func FromShape(v Serializable) *Document {
	ser := newDocumentSerializer()
	v.Serialize(ser)
	return ser.result()
}

// AsShape runs the document-consuming deserializer over the document,
// materializing it into the Deserializable shape new() produces.
func AsShape[T Deserializable](d *Document, new func() T) (T, error) {
	out := new()
	deser := newDocumentDeserializer(d)
	if err := out.Deserialize(deser); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
