package httpbinding

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	smithy "github.com/smithy-go/runtime"
)

// ResponseBindingDeserializer is the mirror of RequestBindingSerializer: it
// implements smithy.ShapeDeserializer for an operation's top-level output
// (or error) structure, scanning the shape's members once and routing each
// to the HTTP response component its traits select -- @httpHeader from a
// header, @httpPrefixHeaders from a group of headers, @httpResponseCode
// from the status line, @httpPayload from the entire body, and anything
// left over from the implicit body the operation's wire codec parses.
type ResponseBindingDeserializer struct {
	dec   *Decoder
	body  []byte
	codec smithy.Codec

	bodyDeser smithy.ShapeDeserializer
}

// NewResponseBindingDeserializer creates a binding deserializer over a
// decoded HTTP response, parsing any member with no binding trait out of
// body using codec.
func NewResponseBindingDeserializer(dec *Decoder, body []byte, codec smithy.Codec) *ResponseBindingDeserializer {
	return &ResponseBindingDeserializer{dec: dec, body: body, codec: codec}
}

func (d *ResponseBindingDeserializer) bodyDeserializer() smithy.ShapeDeserializer {
	if d.bodyDeser == nil {
		d.bodyDeser = d.codec.CreateDeserializer(d.body)
	}
	return d.bodyDeser
}

// ReadStruct is the only method through which real binding routing occurs:
// it is called once, for the operation's top-level output/error schema.
// Bound members are handed a scalar deserializer built directly off the
// Decoder; unbound members are read from the body as a single pass, in
// whatever order the wire codec's own ReadStruct visits them, filtered to
// just the members this deserializer didn't already claim.
func (d *ResponseBindingDeserializer) ReadStruct(schema *smithy.Schema, consumer func(member *smithy.Schema, md smithy.ShapeDeserializer) error) error {
	bound := map[string]bool{}

	for _, member := range schema.Members() {
		switch {
		case hasResponseCode(member):
			bound[member.ID.Member] = true
			if err := consumer(member, &statusCodeDeserializer{code: d.dec.StatusCode()}); err != nil {
				return err
			}
		case headerName(member) != "":
			bound[member.ID.Member] = true
			hr := d.dec.Header(headerName(member))
			if !hr.Present() {
				continue
			}
			if err := consumer(member, &headerValueDeserializer{r: hr, format: headerFormat(member)}); err != nil {
				return err
			}
		case hasPrefixHeaders(member):
			bound[member.ID.Member] = true
			prefix, _ := smithy.SchemaTrait[smithy.HTTPPrefixHeadersTrait](member)
			if err := consumer(member, &prefixHeaderMapDeserializer{values: d.dec.PrefixHeaders(prefix.Prefix)}); err != nil {
				return err
			}
		case hasPayload(member):
			bound[member.ID.Member] = true
			if len(d.body) == 0 {
				continue
			}
			if err := consumer(member, d.payloadDeserializer()); err != nil {
				return err
			}
		}
	}

	if len(bound) == len(schema.Members()) || len(d.body) == 0 {
		return nil
	}

	return d.bodyDeserializer().ReadStruct(schema, func(member *smithy.Schema, md smithy.ShapeDeserializer) error {
		if bound[member.ID.Member] {
			return nil
		}
		return consumer(member, md)
	})
}

// payloadDeserializer returns a deserializer scoped directly to a
// @httpPayload member's own shape: the body IS that member's value, not a
// member of a synthetic wrapper struct, mirroring payloadWriter on the
// request side.
func (d *ResponseBindingDeserializer) payloadDeserializer() smithy.ShapeDeserializer {
	return d.bodyDeserializer()
}

func (d *ResponseBindingDeserializer) IsNull() bool { return false }
func (d *ResponseBindingDeserializer) ReadNull()    {}

func (d *ResponseBindingDeserializer) ReadBoolean(schema *smithy.Schema) (bool, error) {
	return d.bodyDeserializer().ReadBoolean(schema)
}
func (d *ResponseBindingDeserializer) ReadByte(schema *smithy.Schema) (int8, error) {
	return d.bodyDeserializer().ReadByte(schema)
}
func (d *ResponseBindingDeserializer) ReadShort(schema *smithy.Schema) (int16, error) {
	return d.bodyDeserializer().ReadShort(schema)
}
func (d *ResponseBindingDeserializer) ReadInteger(schema *smithy.Schema) (int32, error) {
	return d.bodyDeserializer().ReadInteger(schema)
}
func (d *ResponseBindingDeserializer) ReadLong(schema *smithy.Schema) (int64, error) {
	return d.bodyDeserializer().ReadLong(schema)
}
func (d *ResponseBindingDeserializer) ReadFloat(schema *smithy.Schema) (float32, error) {
	return d.bodyDeserializer().ReadFloat(schema)
}
func (d *ResponseBindingDeserializer) ReadDouble(schema *smithy.Schema) (float64, error) {
	return d.bodyDeserializer().ReadDouble(schema)
}
func (d *ResponseBindingDeserializer) ReadBigInteger(schema *smithy.Schema) (big.Int, error) {
	return d.bodyDeserializer().ReadBigInteger(schema)
}
func (d *ResponseBindingDeserializer) ReadBigDecimal(schema *smithy.Schema) (big.Float, error) {
	return d.bodyDeserializer().ReadBigDecimal(schema)
}
func (d *ResponseBindingDeserializer) ReadString(schema *smithy.Schema) (string, error) {
	return d.bodyDeserializer().ReadString(schema)
}
func (d *ResponseBindingDeserializer) ReadBlob(schema *smithy.Schema) ([]byte, error) {
	return d.bodyDeserializer().ReadBlob(schema)
}
func (d *ResponseBindingDeserializer) ReadTimestamp(schema *smithy.Schema) (time.Time, error) {
	return d.bodyDeserializer().ReadTimestamp(schema)
}
func (d *ResponseBindingDeserializer) ReadDocument(schema *smithy.Schema) (*smithy.Document, error) {
	return d.bodyDeserializer().ReadDocument(schema)
}
func (d *ResponseBindingDeserializer) ReadList(schema *smithy.Schema, consumer func(d smithy.ShapeDeserializer) error) error {
	return d.bodyDeserializer().ReadList(schema, consumer)
}
func (d *ResponseBindingDeserializer) ReadMap(schema *smithy.Schema, consumer func(key string, d smithy.ShapeDeserializer) error) error {
	return d.bodyDeserializer().ReadMap(schema, consumer)
}

func hasResponseCode(schema *smithy.Schema) bool {
	_, ok := smithy.SchemaTrait[smithy.HTTPResponseCodeTrait](schema)
	return ok
}

func hasPrefixHeaders(schema *smithy.Schema) bool {
	_, ok := smithy.SchemaTrait[smithy.HTTPPrefixHeadersTrait](schema)
	return ok
}

// statusCodeDeserializer hands the response's HTTP status code to the
// single member bound with @httpResponseCode.
type statusCodeDeserializer struct{ code int }

func (s *statusCodeDeserializer) IsNull() bool { return false }
func (s *statusCodeDeserializer) ReadNull()    {}
func (s *statusCodeDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	return int32(s.code), nil
}
func (s *statusCodeDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return false, errScalar }
func (s *statusCodeDeserializer) ReadByte(*smithy.Schema) (int8, error)    { return 0, errScalar }
func (s *statusCodeDeserializer) ReadShort(*smithy.Schema) (int16, error)  { return 0, errScalar }
func (s *statusCodeDeserializer) ReadLong(*smithy.Schema) (int64, error)   { return int64(s.code), nil }
func (s *statusCodeDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	return 0, errScalar
}
func (s *statusCodeDeserializer) ReadDouble(*smithy.Schema) (float64, error) {
	return 0, errScalar
}
func (s *statusCodeDeserializer) ReadBigInteger(*smithy.Schema) (big.Int, error) {
	return big.Int{}, errScalar
}
func (s *statusCodeDeserializer) ReadBigDecimal(*smithy.Schema) (big.Float, error) {
	return big.Float{}, errScalar
}
func (s *statusCodeDeserializer) ReadString(*smithy.Schema) (string, error) { return "", errScalar }
func (s *statusCodeDeserializer) ReadBlob(*smithy.Schema) ([]byte, error)   { return nil, errScalar }
func (s *statusCodeDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return time.Time{}, errScalar
}
func (s *statusCodeDeserializer) ReadDocument(*smithy.Schema) (*smithy.Document, error) {
	return nil, errScalar
}
func (s *statusCodeDeserializer) ReadStruct(*smithy.Schema, func(*smithy.Schema, smithy.ShapeDeserializer) error) error {
	return errScalar
}
func (s *statusCodeDeserializer) ReadList(*smithy.Schema, func(smithy.ShapeDeserializer) error) error {
	return errScalar
}
func (s *statusCodeDeserializer) ReadMap(*smithy.Schema, func(string, smithy.ShapeDeserializer) error) error {
	return errScalar
}

var errScalar = fmt.Errorf("httpbinding: value is not readable as this type")

func newPresentHeaderReader(v string) HeaderReader {
	return HeaderReader{value: v, present: true}
}

// headerValueDeserializer decodes a single present header into whichever
// scalar type the generated client asks for, plus ReadList for a
// comma-joined list-bound header.
type headerValueDeserializer struct {
	r      HeaderReader
	format Format
}

func (h *headerValueDeserializer) IsNull() bool { return !h.r.Present() }
func (h *headerValueDeserializer) ReadNull()    {}

func (h *headerValueDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return h.r.Boolean() }
func (h *headerValueDeserializer) ReadByte(*smithy.Schema) (int8, error) {
	n, err := h.r.Long()
	return int8(n), err
}
func (h *headerValueDeserializer) ReadShort(*smithy.Schema) (int16, error) {
	n, err := h.r.Long()
	return int16(n), err
}
func (h *headerValueDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	n, err := h.r.Long()
	return int32(n), err
}
func (h *headerValueDeserializer) ReadLong(*smithy.Schema) (int64, error) { return h.r.Long() }
func (h *headerValueDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	n, err := h.r.Double()
	return float32(n), err
}
func (h *headerValueDeserializer) ReadDouble(*smithy.Schema) (float64, error) { return h.r.Double() }
func (h *headerValueDeserializer) ReadBigInteger(*smithy.Schema) (big.Int, error) {
	i, ok := new(big.Int).SetString(h.r.String(), 10)
	if !ok {
		return big.Int{}, fmt.Errorf("httpbinding: invalid big integer header %q", h.r.String())
	}
	return *i, nil
}
func (h *headerValueDeserializer) ReadBigDecimal(*smithy.Schema) (big.Float, error) {
	f, ok := new(big.Float).SetString(h.r.String())
	if !ok {
		return big.Float{}, fmt.Errorf("httpbinding: invalid big decimal header %q", h.r.String())
	}
	return *f, nil
}
func (h *headerValueDeserializer) ReadString(*smithy.Schema) (string, error) { return h.r.String(), nil }
func (h *headerValueDeserializer) ReadBlob(*smithy.Schema) ([]byte, error) {
	return []byte(h.r.String()), nil
}
func (h *headerValueDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return h.r.Time(h.format)
}
func (h *headerValueDeserializer) ReadDocument(*smithy.Schema) (*smithy.Document, error) {
	return nil, errScalar
}
func (h *headerValueDeserializer) ReadStruct(*smithy.Schema, func(*smithy.Schema, smithy.ShapeDeserializer) error) error {
	return errScalar
}
func (h *headerValueDeserializer) ReadMap(*smithy.Schema, func(string, smithy.ShapeDeserializer) error) error {
	return errScalar
}

// ReadList splits a comma-joined header value into elements, mirroring
// listBindingSerializer's join on the request side.
func (h *headerValueDeserializer) ReadList(schema *smithy.Schema, consumer func(d smithy.ShapeDeserializer) error) error {
	if !h.r.Present() {
		return nil
	}
	for _, part := range strings.Split(h.r.String(), ",") {
		elem := &headerValueDeserializer{r: newPresentHeaderReader(strings.TrimSpace(part)), format: h.format}
		if err := consumer(elem); err != nil {
			return err
		}
	}
	return nil
}

// prefixHeaderMapDeserializer presents the headers matching a
// @httpPrefixHeaders prefix as a string-valued map.
type prefixHeaderMapDeserializer struct {
	values map[string]string
}

func (m *prefixHeaderMapDeserializer) IsNull() bool { return false }
func (m *prefixHeaderMapDeserializer) ReadNull()    {}

func (m *prefixHeaderMapDeserializer) ReadMap(schema *smithy.Schema, consumer func(key string, d smithy.ShapeDeserializer) error) error {
	for k, v := range m.values {
		if err := consumer(k, &headerValueDeserializer{r: newPresentHeaderReader(v)}); err != nil {
			return err
		}
	}
	return nil
}

func (m *prefixHeaderMapDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return false, errScalar }
func (m *prefixHeaderMapDeserializer) ReadByte(*smithy.Schema) (int8, error)    { return 0, errScalar }
func (m *prefixHeaderMapDeserializer) ReadShort(*smithy.Schema) (int16, error)  { return 0, errScalar }
func (m *prefixHeaderMapDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	return 0, errScalar
}
func (m *prefixHeaderMapDeserializer) ReadLong(*smithy.Schema) (int64, error) { return 0, errScalar }
func (m *prefixHeaderMapDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	return 0, errScalar
}
func (m *prefixHeaderMapDeserializer) ReadDouble(*smithy.Schema) (float64, error) {
	return 0, errScalar
}
func (m *prefixHeaderMapDeserializer) ReadBigInteger(*smithy.Schema) (big.Int, error) {
	return big.Int{}, errScalar
}
func (m *prefixHeaderMapDeserializer) ReadBigDecimal(*smithy.Schema) (big.Float, error) {
	return big.Float{}, errScalar
}
func (m *prefixHeaderMapDeserializer) ReadString(*smithy.Schema) (string, error) {
	return "", errScalar
}
func (m *prefixHeaderMapDeserializer) ReadBlob(*smithy.Schema) ([]byte, error) { return nil, errScalar }
func (m *prefixHeaderMapDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return time.Time{}, errScalar
}
func (m *prefixHeaderMapDeserializer) ReadDocument(*smithy.Schema) (*smithy.Document, error) {
	return nil, errScalar
}
func (m *prefixHeaderMapDeserializer) ReadStruct(*smithy.Schema, func(*smithy.Schema, smithy.ShapeDeserializer) error) error {
	return errScalar
}
func (m *prefixHeaderMapDeserializer) ReadList(*smithy.Schema, func(smithy.ShapeDeserializer) error) error {
	return errScalar
}

var _ smithy.ShapeDeserializer = (*ResponseBindingDeserializer)(nil)
var _ smithy.ShapeDeserializer = (*statusCodeDeserializer)(nil)
var _ smithy.ShapeDeserializer = (*headerValueDeserializer)(nil)
var _ smithy.ShapeDeserializer = (*prefixHeaderMapDeserializer)(nil)
