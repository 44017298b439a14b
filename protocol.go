package smithy

import (
	"context"
	"io"
	"math/big"
	"time"
)

// ClientProtocol defines the interface through which client-side operation
// request/responses are (de)serialized across the wire.
//
// TRequest and TResponse represent the input and output transport types for
// the protocol. In most cases this corresponds to *smithyhttp.Request and
// *smithyhttp.Response.
//
// While a caller CAN define their own protocol, it is almost never necessary
// to do so. In practice, a generated client will utilize one of the
// predefined protocols implemented as part of the Smithy client runtime.
type ClientProtocol[TRequest, TResponse any] interface {
	ID() string
	SerializeRequest(ctx context.Context, in Serializable, req TRequest) error
	DeserializeResponse(ctx context.Context, types *TypeRegistry, resp TResponse, out Deserializable) error
}

// Codec provides implementations of ShapeSerializer and ShapeDeserializer to
// be used by a Protocol over a particular media type (e.g.
// application/json, application/cbor). The core depends only on this
// contract; concrete codecs live outside the runtime.
type Codec interface {
	// MediaType returns the codec's IANA media type.
	MediaType() string

	// CreateSerializer returns a ShapeSerializer writing into sink.
	CreateSerializer(sink io.Writer) ShapeSerializer

	// CreateDeserializer returns a ShapeDeserializer reading from source.
	CreateDeserializer(source []byte) ShapeDeserializer
}

// ShapeSerializer exposes one writer per Smithy data-model type plus scoped
// openers for structures, lists, and maps. Implementations determine the
// output format (bytes, HTTP fields, a Document, ...).
//
// Scopes returned by BeginStruct/BeginList/BeginMap MUST be closed by the
// caller on every exit path, including error paths, so that no partial write
// leaks into the output sink. Byte/short/long/big-integer writers have a
// conventional default of WriteInteger; double's conventional default is
// WriteFloat -- code-generated callers may call either depending on codec
// capability.
type ShapeSerializer interface {
	WriteBoolean(schema *Schema, v bool)
	WriteByte(schema *Schema, v int8)
	WriteShort(schema *Schema, v int16)
	WriteInteger(schema *Schema, v int32)
	WriteLong(schema *Schema, v int64)
	WriteFloat(schema *Schema, v float32)
	WriteDouble(schema *Schema, v float64)
	WriteBigInteger(schema *Schema, v big.Int)
	WriteBigDecimal(schema *Schema, v big.Float)
	WriteString(schema *Schema, v string)
	WriteBlob(schema *Schema, v []byte)
	WriteTimestamp(schema *Schema, v time.Time)
	WriteDocument(schema *Schema, v *Document)
	WriteNull(schema *Schema)

	// BeginStruct opens a structure scope; the returned serializer is used to
	// write each member by its member schema.
	BeginStruct(schema *Schema) ShapeSerializer
	// BeginList opens a list scope of the given size hint (-1 if unknown).
	BeginList(schema *Schema, size int) ShapeSerializer
	// BeginMap opens a map scope.
	BeginMap(schema *Schema) MapSerializer
	// Close ends a struct or list scope opened on this serializer. Closing a
	// serializer that did not open a scope is a no-op.
	Close()

	// WriteDataStream writes a streaming blob payload. Supported only at the
	// top-level input/output; implementations that cannot service a stream
	// return UnsupportedStream.
	WriteDataStream(schema *Schema, r io.Reader) error
}

// MapSerializer is yielded by ShapeSerializer.BeginMap. Entry is called once
// per map entry; write is invoked with a serializer scoped to the entry's
// value.
type MapSerializer interface {
	Entry(key string, write func(ShapeSerializer))
	Close()
}

// ShapeDeserializer is the mirror image of ShapeSerializer: one reader per
// Smithy data-model type plus struct/list/map consumers that are invoked once
// per element present, in document order.
type ShapeDeserializer interface {
	IsNull() bool
	ReadNull()

	ReadBoolean(schema *Schema) (bool, error)
	ReadByte(schema *Schema) (int8, error)
	ReadShort(schema *Schema) (int16, error)
	ReadInteger(schema *Schema) (int32, error)
	ReadLong(schema *Schema) (int64, error)
	ReadFloat(schema *Schema) (float32, error)
	ReadDouble(schema *Schema) (float64, error)
	ReadBigInteger(schema *Schema) (big.Int, error)
	ReadBigDecimal(schema *Schema) (big.Float, error)
	ReadString(schema *Schema) (string, error)
	ReadBlob(schema *Schema) ([]byte, error)
	ReadTimestamp(schema *Schema) (time.Time, error)
	ReadDocument(schema *Schema) (*Document, error)

	// ReadStruct invokes consumer(memberSchema, memberDeserializer) once per
	// member present on the wire, in document order.
	ReadStruct(schema *Schema, consumer func(member *Schema, d ShapeDeserializer) error) error
	// ReadList invokes consumer(elementDeserializer) once per element.
	ReadList(schema *Schema, consumer func(d ShapeDeserializer) error) error
	// ReadMap invokes consumer(key, valueDeserializer) once per entry.
	ReadMap(schema *Schema, consumer func(key string, d ShapeDeserializer) error) error
}

// InterceptingSerializer decorates another ShapeSerializer with hooks run
// before and after every write. The HTTP binding layer uses this to route
// each member write to the binding location (header, query, label, payload,
// ...) its traits select.
type InterceptingSerializer struct {
	Inner  ShapeSerializer
	Before func(schema *Schema)
	After  func(schema *Schema)
}

var _ ShapeSerializer = (*InterceptingSerializer)(nil)

func (s *InterceptingSerializer) hook(schema *Schema, write func()) {
	if s.Before != nil {
		s.Before(schema)
	}
	write()
	if s.After != nil {
		s.After(schema)
	}
}

func (s *InterceptingSerializer) WriteBoolean(schema *Schema, v bool) {
	s.hook(schema, func() { s.Inner.WriteBoolean(schema, v) })
}
func (s *InterceptingSerializer) WriteByte(schema *Schema, v int8) {
	s.hook(schema, func() { s.Inner.WriteByte(schema, v) })
}
func (s *InterceptingSerializer) WriteShort(schema *Schema, v int16) {
	s.hook(schema, func() { s.Inner.WriteShort(schema, v) })
}
func (s *InterceptingSerializer) WriteInteger(schema *Schema, v int32) {
	s.hook(schema, func() { s.Inner.WriteInteger(schema, v) })
}
func (s *InterceptingSerializer) WriteLong(schema *Schema, v int64) {
	s.hook(schema, func() { s.Inner.WriteLong(schema, v) })
}
func (s *InterceptingSerializer) WriteFloat(schema *Schema, v float32) {
	s.hook(schema, func() { s.Inner.WriteFloat(schema, v) })
}
func (s *InterceptingSerializer) WriteDouble(schema *Schema, v float64) {
	s.hook(schema, func() { s.Inner.WriteDouble(schema, v) })
}
func (s *InterceptingSerializer) WriteBigInteger(schema *Schema, v big.Int) {
	s.hook(schema, func() { s.Inner.WriteBigInteger(schema, v) })
}
func (s *InterceptingSerializer) WriteBigDecimal(schema *Schema, v big.Float) {
	s.hook(schema, func() { s.Inner.WriteBigDecimal(schema, v) })
}
func (s *InterceptingSerializer) WriteString(schema *Schema, v string) {
	s.hook(schema, func() { s.Inner.WriteString(schema, v) })
}
func (s *InterceptingSerializer) WriteBlob(schema *Schema, v []byte) {
	s.hook(schema, func() { s.Inner.WriteBlob(schema, v) })
}
func (s *InterceptingSerializer) WriteTimestamp(schema *Schema, v time.Time) {
	s.hook(schema, func() { s.Inner.WriteTimestamp(schema, v) })
}
func (s *InterceptingSerializer) WriteDocument(schema *Schema, v *Document) {
	s.hook(schema, func() { s.Inner.WriteDocument(schema, v) })
}
func (s *InterceptingSerializer) WriteNull(schema *Schema) {
	s.hook(schema, func() { s.Inner.WriteNull(schema) })
}
func (s *InterceptingSerializer) BeginStruct(schema *Schema) ShapeSerializer {
	return s.Inner.BeginStruct(schema)
}
func (s *InterceptingSerializer) BeginList(schema *Schema, size int) ShapeSerializer {
	return s.Inner.BeginList(schema, size)
}
func (s *InterceptingSerializer) BeginMap(schema *Schema) MapSerializer {
	return s.Inner.BeginMap(schema)
}
func (s *InterceptingSerializer) Close() { s.Inner.Close() }
func (s *InterceptingSerializer) WriteDataStream(schema *Schema, r io.Reader) error {
	return s.Inner.WriteDataStream(schema, r)
}

// Serializable is an entity that can describe itself to a ShapeSerializer to
// be encoded to some format.
//
// Unlike the standard library marshaler interfaces, which idiomatically
// encode to []byte, the output format and data type here is not specified at
// all. This is because Smithy shapes need to encode to a variety of formats
// or data carriers. For example, HTTP-binding JSON protocols need to
// serialize some members to bytes (the HTTP request body) and others
// directly to fields on the HTTP request itself (e.g. headers).
type Serializable interface {
	Serialize(ShapeSerializer)
}

// Deserializable is an entity that can unmarshal itself from a
// ShapeDeserializer.
type Deserializable interface {
	Deserialize(ShapeDeserializer) error
}

// DeserializableError is implemented by modeled error types for a service.
type DeserializableError interface {
	Deserializable
	error
}

// UnsupportedStream is returned by a ShapeSerializer/ShapeDeserializer that
// cannot service a data stream write/read it was asked to perform.
type UnsupportedStream struct {
	Schema *Schema
}

func (e *UnsupportedStream) Error() string {
	return "smithy: streaming is not supported for " + e.Schema.ID.String()
}
