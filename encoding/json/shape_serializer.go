package json

import (
	"io"
	"math/big"
	"time"

	"github.com/smithy-go/runtime"
	smithytime "github.com/smithy-go/runtime/time"
)

// ShapeSerializer marshals Smithy shapes to a JSON document. It is returned
// by Codec.CreateSerializer and is the body codec the HTTP binding
// serializer falls back to for members with no binding trait.
type ShapeSerializer struct {
	enc  *Encoder
	head []any // *Object, *Array, or Value
}

var _ smithy.ShapeSerializer = (*ShapeSerializer)(nil)

func (ss *ShapeSerializer) top() any {
	if len(ss.head) == 0 {
		return nil
	}
	return ss.head[len(ss.head)-1]
}

func (ss *ShapeSerializer) push(v any) { ss.head = append(ss.head, v) }
func (ss *ShapeSerializer) pop()       { ss.head = ss.head[:len(ss.head)-1] }

// value returns the Value to encode the next write into, given the current
// scope: a struct member keyed by schema, a list element, a lone map-entry
// Value pushed by BeginMap's Entry, or the document's top-level scalar.
func (ss *ShapeSerializer) value(schema *smithy.Schema) Value {
	switch top := ss.top().(type) {
	case *Object:
		return top.Key(schema.ID.Member)
	case *Array:
		return top.Value()
	case Value:
		ss.pop()
		return top
	default:
		return ss.enc.Value()
	}
}

func (ss *ShapeSerializer) WriteBoolean(schema *smithy.Schema, v bool) { ss.value(schema).Boolean(v) }
func (ss *ShapeSerializer) WriteByte(schema *smithy.Schema, v int8)    { ss.value(schema).Byte(v) }
func (ss *ShapeSerializer) WriteShort(schema *smithy.Schema, v int16) { ss.value(schema).Short(v) }
func (ss *ShapeSerializer) WriteInteger(schema *smithy.Schema, v int32) {
	ss.value(schema).Integer(v)
}
func (ss *ShapeSerializer) WriteLong(schema *smithy.Schema, v int64)   { ss.value(schema).Long(v) }
func (ss *ShapeSerializer) WriteFloat(schema *smithy.Schema, v float32) {
	ss.value(schema).Float(v)
}
func (ss *ShapeSerializer) WriteDouble(schema *smithy.Schema, v float64) {
	ss.value(schema).Double(v)
}
func (ss *ShapeSerializer) WriteBigInteger(schema *smithy.Schema, v big.Int) {
	ss.value(schema).BigInteger(v.Text(10))
}
func (ss *ShapeSerializer) WriteBigDecimal(schema *smithy.Schema, v big.Float) {
	if i, accuracy := v.Int64(); accuracy == big.Exact {
		ss.value(schema).Long(i)
		return
	}
	ss.value(schema).BigDecimal(v.Text('e', -1))
}
func (ss *ShapeSerializer) WriteString(schema *smithy.Schema, v string) { ss.value(schema).String(v) }
func (ss *ShapeSerializer) WriteBlob(schema *smithy.Schema, v []byte)   { ss.value(schema).Blob(v) }

func (ss *ShapeSerializer) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	val := ss.value(schema)
	switch timestampFormat(schema) {
	case smithy.TimestampFormatDateTime:
		val.String(smithytime.FormatDateTime(v))
	case smithy.TimestampFormatHTTPDate:
		val.String(smithytime.FormatHTTPDate(v))
	default:
		val.Double(smithytime.FormatEpochSeconds(v))
	}
}

func timestampFormat(schema *smithy.Schema) smithy.TimestampFormat {
	if t, ok := smithy.SchemaTrait[smithy.TimestampFormatTrait](schema); ok {
		return t.Format
	}
	return smithy.TimestampFormatEpochSeconds
}

func (ss *ShapeSerializer) WriteDocument(schema *smithy.Schema, v *smithy.Document) {
	if v == nil || v.IsNull() {
		ss.value(schema).Null()
		return
	}
	writeDocumentValue(ss.value(schema), v)
}

// writeDocumentValue recursively encodes an untyped Document as JSON. It is
// used both for @document-shaped members and for the AWS JSON-protocol
// error/document payloads that carry no schema of their own.
func writeDocumentValue(val Value, d *smithy.Document) {
	switch d.Type() {
	case smithy.DocumentTypeNull:
		val.Null()
	case smithy.DocumentTypeBoolean:
		val.Boolean(d.Bool())
	case smithy.DocumentTypeString:
		val.String(d.String())
	case smithy.DocumentTypeNumber:
		n := d.Number()
		if i, accuracy := n.Int64(); accuracy == big.Exact {
			val.Long(i)
		} else {
			f, _ := n.Float64()
			val.Double(f)
		}
	case smithy.DocumentTypeBlob:
		val.Blob(d.Blob())
	case smithy.DocumentTypeTimestamp:
		val.Double(smithytime.FormatEpochSeconds(d.Timestamp()))
	case smithy.DocumentTypeList:
		arr := newArray(val.e)
		for i := 0; i < d.Len(); i++ {
			writeDocumentValue(arr.Value(), d.Index(i))
		}
		arr.Close()
	case smithy.DocumentTypeMap:
		obj := newObject(val.e)
		for _, k := range d.Keys() {
			child, _ := d.Member(k)
			writeDocumentValue(obj.Key(k), child)
		}
		obj.Close()
	default:
		val.Null()
	}
}

func (ss *ShapeSerializer) WriteNull(schema *smithy.Schema) { ss.value(schema).Null() }

func (ss *ShapeSerializer) BeginStruct(schema *smithy.Schema) smithy.ShapeSerializer {
	obj := ss.openObject(schema)
	ss.push(obj)
	return ss
}

func (ss *ShapeSerializer) BeginList(schema *smithy.Schema, size int) smithy.ShapeSerializer {
	ss.push(ss.openArray(schema))
	return ss
}

func (ss *ShapeSerializer) BeginMap(schema *smithy.Schema) smithy.MapSerializer {
	obj := ss.openObject(schema)
	return &jsonMapSerializer{ss: ss, obj: obj}
}

// openObject/openArray write the opening brace/bracket in whatever scope is
// currently on top (struct member, list element, map entry, or top level).
func (ss *ShapeSerializer) openObject(schema *smithy.Schema) *Object {
	switch top := ss.top().(type) {
	case *Object:
		return newObject(top.Key(schema.ID.Member).e)
	case *Array:
		return newObject(top.Value().e)
	case Value:
		ss.pop()
		return newObject(top.e)
	default:
		return ss.enc.Object()
	}
}

func (ss *ShapeSerializer) openArray(schema *smithy.Schema) *Array {
	switch top := ss.top().(type) {
	case *Object:
		return newArray(top.Key(schema.ID.Member).e)
	case *Array:
		return newArray(top.Value().e)
	case Value:
		ss.pop()
		return newArray(top.e)
	default:
		return ss.enc.Array()
	}
}

func (ss *ShapeSerializer) Close() {
	if len(ss.head) == 0 {
		return
	}
	switch top := ss.top().(type) {
	case *Object:
		top.Close()
	case *Array:
		top.Close()
	}
	ss.pop()
}

func (ss *ShapeSerializer) WriteDataStream(schema *smithy.Schema, r io.Reader) error {
	return &smithy.UnsupportedStream{Schema: schema}
}

// jsonMapSerializer adapts an *Object into smithy.MapSerializer: each Entry
// pushes the entry's Value onto the parent serializer's scope stack so the
// write callback routes through the same value() dispatch as any other
// write, then pops it if the callback left it unconsumed (a nested
// struct/list/map write already popped it itself via openObject/openArray).
type jsonMapSerializer struct {
	ss  *ShapeSerializer
	obj *Object
}

func (m *jsonMapSerializer) Entry(key string, write func(smithy.ShapeSerializer)) {
	val := m.obj.Key(key)
	before := len(m.ss.head)
	m.ss.push(val)
	write(m.ss)
	if len(m.ss.head) == before+1 {
		m.ss.pop()
	}
}

func (m *jsonMapSerializer) Close() { m.obj.Close() }
