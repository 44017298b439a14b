package smithy

import (
	"io"
	"math/big"
	"time"
)

// documentSerializer is the document-producing serializer used by FromShape.
// Each typed Write* call is turned into the matching Document value; a
// WriteDocument call stores the given Document as is.
//
// A documentSerializer plays one of three roles depending on how it was
// constructed: the top-level scalar target of FromShape, a struct scope
// accumulating named members into a map, or a list scope accumulating
// positional elements into a slice. scopeSchema is the schema the scope was
// opened with (nil for the top-level serializer), used on Close to tell the
// parent scope where this scope's finished value belongs.
type documentSerializer struct {
	parent      *documentSerializer
	scopeSchema *Schema

	isStruct bool
	mapEntry map[string]any

	isList   bool
	listVals []any

	value *Document
}

func newDocumentSerializer() *documentSerializer {
	return &documentSerializer{}
}

func (s *documentSerializer) result() *Document {
	switch {
	case s.isStruct:
		return NewDocument(s.mapEntry)
	case s.isList:
		return NewDocument(s.listVals)
	case s.value == nil:
		return &Document{typ: DocumentTypeNull}
	default:
		return s.value
	}
}

// emit routes a freshly produced Document to wherever this serializer's
// scope dictates it belongs: a struct scope files it under the write call's
// member name, a list scope appends it, and a bare scalar scope just holds
// it as the result.
func (s *documentSerializer) emit(schema *Schema, d *Document) {
	switch {
	case s.isStruct:
		s.mapEntry[schema.ExpectMemberName()] = d.AsValue()
	case s.isList:
		s.listVals = append(s.listVals, d.AsValue())
	default:
		s.value = d
	}
}

func (s *documentSerializer) WriteBoolean(schema *Schema, v bool) { s.emit(schema, NewDocument(v)) }
func (s *documentSerializer) WriteByte(schema *Schema, v int8) {
	s.emit(schema, NewDocument(int64(v)))
}
func (s *documentSerializer) WriteShort(schema *Schema, v int16) {
	s.emit(schema, NewDocument(int64(v)))
}
func (s *documentSerializer) WriteInteger(schema *Schema, v int32) {
	s.emit(schema, NewDocument(int64(v)))
}
func (s *documentSerializer) WriteLong(schema *Schema, v int64) { s.emit(schema, NewDocument(v)) }
func (s *documentSerializer) WriteFloat(schema *Schema, v float32) {
	s.emit(schema, NewDocument(float64(v)))
}
func (s *documentSerializer) WriteDouble(schema *Schema, v float64) { s.emit(schema, NewDocument(v)) }
func (s *documentSerializer) WriteBigInteger(schema *Schema, v big.Int) {
	s.emit(schema, NewDocument(new(big.Float).SetInt(&v)))
}
func (s *documentSerializer) WriteBigDecimal(schema *Schema, v big.Float) {
	vv := v
	s.emit(schema, &Document{typ: DocumentTypeNumber, raw: &vv})
}
func (s *documentSerializer) WriteString(schema *Schema, v string) { s.emit(schema, NewDocument(v)) }
func (s *documentSerializer) WriteBlob(schema *Schema, v []byte)   { s.emit(schema, NewDocument(v)) }
func (s *documentSerializer) WriteTimestamp(schema *Schema, v time.Time) {
	s.emit(schema, NewDocument(v))
}
func (s *documentSerializer) WriteDocument(schema *Schema, v *Document) { s.emit(schema, v) }
func (s *documentSerializer) WriteNull(schema *Schema) {
	s.emit(schema, &Document{typ: DocumentTypeNull})
}

func (s *documentSerializer) BeginStruct(schema *Schema) ShapeSerializer {
	return &documentSerializer{parent: s, scopeSchema: schema, isStruct: true, mapEntry: map[string]any{}}
}

func (s *documentSerializer) BeginList(schema *Schema, size int) ShapeSerializer {
	child := &documentSerializer{parent: s, scopeSchema: schema, isList: true}
	if size > 0 {
		child.listVals = make([]any, 0, size)
	}
	return child
}

func (s *documentSerializer) BeginMap(schema *Schema) MapSerializer {
	return &documentMapSerializer{parent: s, scopeSchema: schema, entries: map[string]any{}}
}

// Close finalizes this scope and hands its value to the parent scope, filed
// under scopeSchema -- the schema the scope was opened with.
func (s *documentSerializer) Close() {
	if s.parent == nil {
		return
	}
	s.parent.emit(s.scopeSchema, s.result())
}

func (s *documentSerializer) WriteDataStream(schema *Schema, r io.Reader) error {
	return &UnsupportedStream{Schema: schema}
}

type documentMapSerializer struct {
	parent      *documentSerializer
	scopeSchema *Schema
	entries     map[string]any
}

func (m *documentMapSerializer) Entry(key string, write func(ShapeSerializer)) {
	child := newDocumentSerializer()
	write(child)
	m.entries[key] = child.result().AsValue()
}

func (m *documentMapSerializer) Close() {
	m.parent.emit(m.scopeSchema, NewDocument(m.entries))
}

// documentDeserializer is the document-consuming deserializer used by
// AsShape.
type documentDeserializer struct {
	doc *Document
}

func newDocumentDeserializer(d *Document) *documentDeserializer {
	return &documentDeserializer{doc: d}
}

func (d *documentDeserializer) IsNull() bool { return d.doc == nil || d.doc.IsNull() }
func (d *documentDeserializer) ReadNull()    {}

func (d *documentDeserializer) ReadBoolean(schema *Schema) (bool, error) { return d.doc.Bool(), nil }
func (d *documentDeserializer) ReadByte(schema *Schema) (int8, error) {
	v, _ := d.doc.Number().Int64()
	return int8(v), nil
}
func (d *documentDeserializer) ReadShort(schema *Schema) (int16, error) {
	v, _ := d.doc.Number().Int64()
	return int16(v), nil
}
func (d *documentDeserializer) ReadInteger(schema *Schema) (int32, error) {
	v, _ := d.doc.Number().Int64()
	return int32(v), nil
}
func (d *documentDeserializer) ReadLong(schema *Schema) (int64, error) {
	v, _ := d.doc.Number().Int64()
	return v, nil
}
func (d *documentDeserializer) ReadFloat(schema *Schema) (float32, error) {
	v, _ := d.doc.Number().Float32()
	return v, nil
}
func (d *documentDeserializer) ReadDouble(schema *Schema) (float64, error) {
	v, _ := d.doc.Number().Float64()
	return v, nil
}
func (d *documentDeserializer) ReadBigInteger(schema *Schema) (big.Int, error) {
	bi, _ := d.doc.Number().Int(nil)
	return *bi, nil
}
func (d *documentDeserializer) ReadBigDecimal(schema *Schema) (big.Float, error) {
	return *d.doc.Number(), nil
}
func (d *documentDeserializer) ReadString(schema *Schema) (string, error) {
	return d.doc.String(), nil
}
func (d *documentDeserializer) ReadBlob(schema *Schema) ([]byte, error) { return d.doc.Blob(), nil }
func (d *documentDeserializer) ReadTimestamp(schema *Schema) (time.Time, error) {
	return d.doc.Timestamp(), nil
}
func (d *documentDeserializer) ReadDocument(schema *Schema) (*Document, error) { return d.doc, nil }

func (d *documentDeserializer) ReadStruct(schema *Schema, consumer func(member *Schema, d ShapeDeserializer) error) error {
	for _, name := range d.doc.Keys() {
		member, ok := schema.MemberByName(name)
		if !ok {
			continue // unknown members are retained on the Document but not surfaced to typed consumers
		}
		child, _ := d.doc.Member(name)
		if err := consumer(member, newDocumentDeserializer(child)); err != nil {
			return err
		}
	}
	return nil
}

func (d *documentDeserializer) ReadList(schema *Schema, consumer func(d ShapeDeserializer) error) error {
	for i := 0; i < d.doc.Len(); i++ {
		if err := consumer(newDocumentDeserializer(d.doc.Index(i))); err != nil {
			return err
		}
	}
	return nil
}

func (d *documentDeserializer) ReadMap(schema *Schema, consumer func(key string, d ShapeDeserializer) error) error {
	for _, k := range d.doc.Keys() {
		child, _ := d.doc.Member(k)
		if err := consumer(k, newDocumentDeserializer(child)); err != nil {
			return err
		}
	}
	return nil
}
