package httpbinding

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	smithy "github.com/smithy-go/runtime"
)

// RequestBindingSerializer implements smithy.ShapeSerializer for an
// operation's top-level input structure, per the rule that an HTTP-bound
// request is produced by scanning the input's members once and routing
// each to the destination its traits select: @httpLabel into the URI,
// @httpHeader into a header, @httpPrefixHeaders/@httpQueryParams into a
// group of headers/query parameters, @httpQuery into a query parameter,
// @httpPayload as the entire body, and anything left over as a member of
// the implicit JSON/XML/CBOR body the operation's wire codec renders.
//
// A generated operation's Serialize method calls
// ser.BeginStruct(inputSchema) once, at the top, and writes every member
// through the returned serializer by the member's own schema -- the same
// shape as any other ShapeSerializer consumer, with no protocol-specific
// code required in the generated client.
type RequestBindingSerializer struct {
	enc   *Encoder
	codec smithy.Codec
	top   *smithy.Schema

	bodyBuf  bytes.Buffer
	body     smithy.ShapeSerializer
	bodyOpen bool

	stream io.Reader

	err error
}

// NewRequestBindingSerializer creates a binding serializer for an
// operation whose input structure is described by top (the operation's
// input schema), encoding REST components into enc and any members with
// no HTTP binding trait into a body rendered by codec.
func NewRequestBindingSerializer(top *smithy.Schema, enc *Encoder, codec smithy.Codec) *RequestBindingSerializer {
	return &RequestBindingSerializer{enc: enc, codec: codec, top: top}
}

// Body returns the rendered payload body and whether any member required
// one. Must be called after the top-level struct scope has been closed.
func (s *RequestBindingSerializer) Body() ([]byte, bool) {
	if !s.bodyOpen {
		return nil, false
	}
	return s.bodyBuf.Bytes(), true
}

// Stream returns the reader supplied by a WriteDataStream call against a
// member bound with @httpPayload, if any.
func (s *RequestBindingSerializer) Stream() (io.Reader, bool) {
	return s.stream, s.stream != nil
}

// Err returns the first binding error encountered (e.g. a label that has
// no corresponding placeholder in the URI pattern). Scalar Write* methods
// have no error return per the ShapeSerializer contract, so binding
// failures are latched here and must be checked once serialization
// completes.
func (s *RequestBindingSerializer) Err() error { return s.err }

func (s *RequestBindingSerializer) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *RequestBindingSerializer) bodyWriter(schema *smithy.Schema) smithy.ShapeSerializer {
	if !s.bodyOpen {
		s.body = s.codec.CreateSerializer(&s.bodyBuf).BeginStruct(s.top)
		s.bodyOpen = true
	}
	return s.body
}

// payloadWriter opens the body fresh around a single @httpPayload member's
// own shape, replacing the implicit body entirely (a @httpPayload member's
// value IS the wire body, not a member of a synthetic wrapper struct).
func (s *RequestBindingSerializer) payloadWriter() smithy.ShapeSerializer {
	if !s.bodyOpen {
		s.body = s.codec.CreateSerializer(&s.bodyBuf)
		s.bodyOpen = true
	}
	return s.body
}

func bindingName(schema *smithy.Schema) string {
	if schema.ID.Member != "" {
		return schema.ID.Member
	}
	return schema.ID.Name
}

func uriFormat(schema *smithy.Schema) Format {
	if t, ok := smithy.SchemaTrait[smithy.TimestampFormatTrait](schema); ok {
		return formatFromTrait(t)
	}
	return DateTime
}

func headerFormat(schema *smithy.Schema) Format {
	if t, ok := smithy.SchemaTrait[smithy.TimestampFormatTrait](schema); ok {
		return formatFromTrait(t)
	}
	return HTTPDate
}

func formatFromTrait(t smithy.TimestampFormatTrait) Format {
	switch t.Format {
	case smithy.TimestampFormatEpochSeconds:
		return EpochSeconds
	case smithy.TimestampFormatHTTPDate:
		return HTTPDate
	default:
		return DateTime
	}
}

func (s *RequestBindingSerializer) WriteBoolean(schema *smithy.Schema, v bool) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Boolean(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Boolean(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Boolean(v)
	default:
		s.bodyWriter(schema).WriteBoolean(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteByte(schema *smithy.Schema, v int8) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Byte(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Byte(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Byte(v)
	default:
		s.bodyWriter(schema).WriteByte(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteShort(schema *smithy.Schema, v int16) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Short(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Short(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Short(v)
	default:
		s.bodyWriter(schema).WriteShort(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteInteger(schema *smithy.Schema, v int32) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Integer(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Integer(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Integer(v)
	default:
		s.bodyWriter(schema).WriteInteger(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteLong(schema *smithy.Schema, v int64) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Long(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Long(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Long(v)
	default:
		s.bodyWriter(schema).WriteLong(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteFloat(schema *smithy.Schema, v float32) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Float(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Float(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Float(v)
	default:
		s.bodyWriter(schema).WriteFloat(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteDouble(schema *smithy.Schema, v float64) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Double(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Double(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Double(v)
	default:
		s.bodyWriter(schema).WriteDouble(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteBigInteger(schema *smithy.Schema, v big.Int) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).BigInteger(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).BigInteger(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).BigInteger(v)
	default:
		s.bodyWriter(schema).WriteBigInteger(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteBigDecimal(schema *smithy.Schema, v big.Float) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).BigDecimal(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).BigDecimal(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).BigDecimal(v)
	default:
		s.bodyWriter(schema).WriteBigDecimal(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteString(schema *smithy.Schema, v string) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).String(v))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).String(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).String(v)
	default:
		s.bodyWriter(schema).WriteString(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteBlob(schema *smithy.Schema, v []byte) {
	switch {
	case hasPayload(schema):
		s.payloadWriter().WriteBlob(schema, v)
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Blob(v)
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Blob(v)
	default:
		s.bodyWriter(schema).WriteBlob(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	switch {
	case hasLabel(schema):
		s.fail(s.enc.SetURI(bindingName(schema)).Time(v, uriFormat(schema)))
	case headerName(schema) != "":
		s.enc.AddHeader(headerName(schema)).Time(v, headerFormat(schema))
	case queryName(schema) != "":
		s.enc.AddQuery(queryName(schema)).Time(v, uriFormat(schema))
	default:
		s.bodyWriter(schema).WriteTimestamp(schema, v)
	}
}

func (s *RequestBindingSerializer) WriteDocument(schema *smithy.Schema, v *smithy.Document) {
	s.bodyWriter(schema).WriteDocument(schema, v)
}

func (s *RequestBindingSerializer) WriteNull(schema *smithy.Schema) {
	if hasLabel(schema) || headerName(schema) != "" || queryName(schema) != "" {
		return // unset binding members are simply omitted, never written as null
	}
	s.bodyWriter(schema).WriteNull(schema)
}

// BeginStruct opens a nested structure scope. Called once for the top
// schema itself, returning s so the caller's member writes continue to be
// routed; called again for a nested struct member (always body-bound,
// since only top-level operation input members carry binding traits) or
// for a @httpPayload member whose target is itself a structure, in which
// case the payload becomes the entire body rather than the implicit body
// struct.
func (s *RequestBindingSerializer) BeginStruct(schema *smithy.Schema) smithy.ShapeSerializer {
	if schema == s.top {
		return s
	}
	if hasPayload(schema) {
		return s.payloadWriter().BeginStruct(schema)
	}
	return s.bodyWriter(schema).BeginStruct(schema)
}

// BeginList opens a list scope. A list bound to @httpHeader is rendered as
// a single comma-joined header value; a list bound to @httpQuery is
// rendered as repeated query parameters; anything else goes to the body.
func (s *RequestBindingSerializer) BeginList(schema *smithy.Schema, size int) smithy.ShapeSerializer {
	switch {
	case headerName(schema) != "":
		return &listBindingSerializer{dest: bindHeader, key: headerName(schema), enc: s.enc}
	case queryName(schema) != "":
		return &listBindingSerializer{dest: bindQuery, key: queryName(schema), enc: s.enc}
	case hasPayload(schema):
		return s.payloadWriter().BeginList(schema, size)
	default:
		return s.bodyWriter(schema).BeginList(schema, size)
	}
}

// BeginMap opens a map scope. @httpPrefixHeaders routes each entry to a
// prefixed header; @httpQueryParams routes each entry to an otherwise-
// unbound query parameter; anything else goes to the body.
func (s *RequestBindingSerializer) BeginMap(schema *smithy.Schema) smithy.MapSerializer {
	if t, ok := smithy.SchemaTrait[smithy.HTTPPrefixHeadersTrait](schema); ok {
		return &prefixHeaderMapSerializer{headers: s.enc.Headers(t.Prefix)}
	}
	if _, ok := smithy.SchemaTrait[smithy.HTTPQueryParamsTrait](schema); ok {
		return &queryParamsMapSerializer{params: s.enc.QueryParams()}
	}
	return s.bodyWriter(schema).BeginMap(schema)
}

func (s *RequestBindingSerializer) Close() {
	if s.body != nil {
		s.body.Close()
	}
}

func (s *RequestBindingSerializer) WriteDataStream(schema *smithy.Schema, r io.Reader) error {
	if !hasPayload(schema) {
		return fmt.Errorf("httpbinding: data stream member must carry @httpPayload")
	}
	s.stream = r
	return nil
}

func hasLabel(schema *smithy.Schema) bool {
	_, ok := smithy.SchemaTrait[smithy.HTTPLabelTrait](schema)
	return ok
}

func hasPayload(schema *smithy.Schema) bool {
	_, ok := smithy.SchemaTrait[smithy.HTTPPayloadTrait](schema)
	return ok
}

func headerName(schema *smithy.Schema) string {
	if t, ok := smithy.SchemaTrait[smithy.HTTPHeaderTrait](schema); ok {
		return t.Name
	}
	return ""
}

func queryName(schema *smithy.Schema) string {
	if t, ok := smithy.SchemaTrait[smithy.HTTPQueryTrait](schema); ok {
		return t.Name
	}
	return ""
}

type bindKind int

const (
	bindHeader bindKind = iota
	bindQuery
)

// listBindingSerializer accumulates the scalar elements of a list bound to
// a single header (comma-joined on Close) or query parameter (added
// individually as they arrive).
type listBindingSerializer struct {
	dest bindKind
	key  string
	enc  *Encoder

	values []string
}

func (l *listBindingSerializer) push(v string) {
	if l.dest == bindQuery {
		l.enc.AddQuery(l.key).String(v)
		return
	}
	if strings.ContainsAny(v, ",\"") {
		v = quoteHeaderValue(v)
	}
	l.values = append(l.values, v)
}

func (l *listBindingSerializer) WriteBoolean(_ *smithy.Schema, v bool) { l.push(fmt.Sprint(v)) }
func (l *listBindingSerializer) WriteByte(_ *smithy.Schema, v int8)    { l.push(fmt.Sprint(v)) }
func (l *listBindingSerializer) WriteShort(_ *smithy.Schema, v int16) { l.push(fmt.Sprint(v)) }
func (l *listBindingSerializer) WriteInteger(_ *smithy.Schema, v int32) { l.push(fmt.Sprint(v)) }
func (l *listBindingSerializer) WriteLong(_ *smithy.Schema, v int64)  { l.push(fmt.Sprint(v)) }
func (l *listBindingSerializer) WriteFloat(_ *smithy.Schema, v float32) { l.push(fmt.Sprint(v)) }
func (l *listBindingSerializer) WriteDouble(_ *smithy.Schema, v float64) { l.push(fmt.Sprint(v)) }
func (l *listBindingSerializer) WriteBigInteger(_ *smithy.Schema, v big.Int) { l.push(v.String()) }
func (l *listBindingSerializer) WriteBigDecimal(_ *smithy.Schema, v big.Float) {
	l.push(v.Text('f', -1))
}
func (l *listBindingSerializer) WriteString(_ *smithy.Schema, v string) { l.push(v) }
func (l *listBindingSerializer) WriteBlob(_ *smithy.Schema, v []byte)   {}
func (l *listBindingSerializer) WriteTimestamp(_ *smithy.Schema, v time.Time) {
	l.push(v.UTC().Format(time.RFC3339Nano))
}
func (l *listBindingSerializer) WriteDocument(*smithy.Schema, *smithy.Document) {}
func (l *listBindingSerializer) WriteNull(*smithy.Schema)                       {}
func (l *listBindingSerializer) BeginStruct(*smithy.Schema) smithy.ShapeSerializer { return l }
func (l *listBindingSerializer) BeginList(*smithy.Schema, int) smithy.ShapeSerializer {
	return l
}
func (l *listBindingSerializer) BeginMap(*smithy.Schema) smithy.MapSerializer { return nil }
func (l *listBindingSerializer) Close() {
	if l.dest == bindHeader && len(l.values) > 0 {
		l.enc.SetHeader(l.key).modifyHeader(joinComma(l.values))
	}
}
func (l *listBindingSerializer) WriteDataStream(*smithy.Schema, io.Reader) error {
	return fmt.Errorf("httpbinding: data streams are not valid list elements")
}

func joinComma(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}

type prefixHeaderMapSerializer struct {
	headers Headers
}

func (m *prefixHeaderMapSerializer) Entry(key string, write func(smithy.ShapeSerializer)) {
	write(&scalarStringSink{set: func(v string) { m.headers.SetHeader(key).String(v) }})
}
func (m *prefixHeaderMapSerializer) Close() {}

type queryParamsMapSerializer struct {
	params QueryParams
}

func (m *queryParamsMapSerializer) Entry(key string, write func(smithy.ShapeSerializer)) {
	write(&scalarStringSink{set: func(v string) { m.params.Add(key, v) }})
}
func (m *queryParamsMapSerializer) Close() {}

// scalarStringSink adapts a single string-setter into a ShapeSerializer for
// writing one map entry value, as used by @httpPrefixHeaders and
// @httpQueryParams map entries (always string-valued, per Smithy's HTTP
// binding rules for these trait kinds).
type scalarStringSink struct{ set func(string) }

func (s *scalarStringSink) WriteBoolean(_ *smithy.Schema, v bool)   { s.set(fmt.Sprint(v)) }
func (s *scalarStringSink) WriteByte(_ *smithy.Schema, v int8)      { s.set(fmt.Sprint(v)) }
func (s *scalarStringSink) WriteShort(_ *smithy.Schema, v int16)    { s.set(fmt.Sprint(v)) }
func (s *scalarStringSink) WriteInteger(_ *smithy.Schema, v int32)  { s.set(fmt.Sprint(v)) }
func (s *scalarStringSink) WriteLong(_ *smithy.Schema, v int64)     { s.set(fmt.Sprint(v)) }
func (s *scalarStringSink) WriteFloat(_ *smithy.Schema, v float32)  { s.set(fmt.Sprint(v)) }
func (s *scalarStringSink) WriteDouble(_ *smithy.Schema, v float64) { s.set(fmt.Sprint(v)) }
func (s *scalarStringSink) WriteBigInteger(_ *smithy.Schema, v big.Int) { s.set(v.String()) }
func (s *scalarStringSink) WriteBigDecimal(_ *smithy.Schema, v big.Float) {
	s.set(v.Text('f', -1))
}
func (s *scalarStringSink) WriteString(_ *smithy.Schema, v string) { s.set(v) }
func (s *scalarStringSink) WriteBlob(_ *smithy.Schema, v []byte)   {}
func (s *scalarStringSink) WriteTimestamp(_ *smithy.Schema, v time.Time) {
	s.set(v.UTC().Format(time.RFC3339Nano))
}
func (s *scalarStringSink) WriteDocument(*smithy.Schema, *smithy.Document) {}
func (s *scalarStringSink) WriteNull(*smithy.Schema)                       {}
func (s *scalarStringSink) BeginStruct(*smithy.Schema) smithy.ShapeSerializer { return s }
func (s *scalarStringSink) BeginList(*smithy.Schema, int) smithy.ShapeSerializer {
	return s
}
func (s *scalarStringSink) BeginMap(*smithy.Schema) smithy.MapSerializer { return nil }
func (s *scalarStringSink) Close()                                      {}
func (s *scalarStringSink) WriteDataStream(*smithy.Schema, io.Reader) error {
	return fmt.Errorf("httpbinding: data streams are not valid map entry values")
}

var _ smithy.ShapeSerializer = (*RequestBindingSerializer)(nil)
var _ smithy.ShapeSerializer = (*listBindingSerializer)(nil)
var _ smithy.ShapeSerializer = (*scalarStringSink)(nil)
var _ smithy.MapSerializer = (*prefixHeaderMapSerializer)(nil)
var _ smithy.MapSerializer = (*queryParamsMapSerializer)(nil)
