package json

import (
	"bytes"
	"encoding/base64"
	gojson "encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/smithy-go/runtime"
	smithytime "github.com/smithy-go/runtime/time"
)

// ShapeDeserializer unmarshals a JSON document into Smithy shapes, driven by
// a schema the same way every other smithy.ShapeDeserializer is.
type ShapeDeserializer struct {
	dec *gojson.Decoder

	// peeked holds a token read ahead of need, e.g. to implement IsNull
	// without consuming the value it peeked at.
	peeked    gojson.Token
	hasPeeked bool
}

func newShapeDeserializer(p []byte) *ShapeDeserializer {
	dec := gojson.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	return &ShapeDeserializer{dec: dec}
}

var _ smithy.ShapeDeserializer = (*ShapeDeserializer)(nil)

func (d *ShapeDeserializer) token() (gojson.Token, error) {
	if d.hasPeeked {
		d.hasPeeked = false
		return d.peeked, nil
	}
	return d.dec.Token()
}

func (d *ShapeDeserializer) peek() (gojson.Token, error) {
	if !d.hasPeeked {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		d.peeked = tok
		d.hasPeeked = true
	}
	return d.peeked, nil
}

// IsNull reports whether the next value in the document is a JSON null,
// without consuming it.
func (d *ShapeDeserializer) IsNull() bool {
	tok, err := d.peek()
	return err == nil && tok == nil
}

// ReadNull consumes a JSON null.
func (d *ShapeDeserializer) ReadNull() { _, _ = d.token() }

func (d *ShapeDeserializer) ReadBoolean(schema *smithy.Schema) (bool, error) {
	tok, err := d.token()
	if err != nil {
		return false, err
	}
	b, ok := tok.(bool)
	if !ok {
		return false, fmt.Errorf("%s: expected bool, got %T", schema.ID, tok)
	}
	return b, nil
}

func (d *ShapeDeserializer) readInt(schema *smithy.Schema, min, max int64) (int64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	num, ok := tok.(gojson.Number)
	if !ok {
		return 0, fmt.Errorf("%s: expected number, got %T", schema.ID, tok)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", schema.ID, err)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%s: %d exceeds range [%d, %d]", schema.ID, n, min, max)
	}
	return n, nil
}

func (d *ShapeDeserializer) ReadByte(schema *smithy.Schema) (int8, error) {
	n, err := d.readInt(schema, math.MinInt8, math.MaxInt8)
	return int8(n), err
}

func (d *ShapeDeserializer) ReadShort(schema *smithy.Schema) (int16, error) {
	n, err := d.readInt(schema, math.MinInt16, math.MaxInt16)
	return int16(n), err
}

func (d *ShapeDeserializer) ReadInteger(schema *smithy.Schema) (int32, error) {
	n, err := d.readInt(schema, math.MinInt32, math.MaxInt32)
	return int32(n), err
}

func (d *ShapeDeserializer) ReadLong(schema *smithy.Schema) (int64, error) {
	return d.readInt(schema, math.MinInt64, math.MaxInt64)
}

func (d *ShapeDeserializer) readFloat(schema *smithy.Schema) (float64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	switch v := tok.(type) {
	case gojson.Number:
		return v.Float64()
	case string:
		switch {
		case strings.EqualFold(v, "NaN"):
			return math.NaN(), nil
		case strings.EqualFold(v, "Infinity"):
			return math.Inf(1), nil
		case strings.EqualFold(v, "-Infinity"):
			return math.Inf(-1), nil
		default:
			return 0, fmt.Errorf("%s: unexpected string value for float: %s", schema.ID, v)
		}
	default:
		return 0, fmt.Errorf("%s: expected number, got %T", schema.ID, tok)
	}
}

func (d *ShapeDeserializer) ReadFloat(schema *smithy.Schema) (float32, error) {
	f, err := d.readFloat(schema)
	return float32(f), err
}

func (d *ShapeDeserializer) ReadDouble(schema *smithy.Schema) (float64, error) {
	return d.readFloat(schema)
}

func (d *ShapeDeserializer) ReadBigInteger(schema *smithy.Schema) (big.Int, error) {
	tok, err := d.token()
	if err != nil {
		return big.Int{}, err
	}
	num, ok := tok.(gojson.Number)
	if !ok {
		return big.Int{}, fmt.Errorf("%s: expected number, got %T", schema.ID, tok)
	}
	i, ok := new(big.Int).SetString(num.String(), 10)
	if !ok {
		return big.Int{}, fmt.Errorf("%s: invalid big integer %q", schema.ID, num.String())
	}
	return *i, nil
}

func (d *ShapeDeserializer) ReadBigDecimal(schema *smithy.Schema) (big.Float, error) {
	tok, err := d.token()
	if err != nil {
		return big.Float{}, err
	}
	num, ok := tok.(gojson.Number)
	if !ok {
		return big.Float{}, fmt.Errorf("%s: expected number, got %T", schema.ID, tok)
	}
	f, ok := new(big.Float).SetString(num.String())
	if !ok {
		return big.Float{}, fmt.Errorf("%s: invalid big decimal %q", schema.ID, num.String())
	}
	return *f, nil
}

func (d *ShapeDeserializer) ReadString(schema *smithy.Schema) (string, error) {
	tok, err := d.token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", schema.ID, tok)
	}
	return s, nil
}

func (d *ShapeDeserializer) ReadBlob(schema *smithy.Schema) ([]byte, error) {
	s, err := d.ReadString(schema)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", schema.ID, err)
	}
	return b, nil
}

func (d *ShapeDeserializer) ReadTimestamp(schema *smithy.Schema) (time.Time, error) {
	format := timestampFormat(schema)
	if format == smithy.TimestampFormatEpochSeconds {
		f, err := d.readFloat(schema)
		if err != nil {
			return time.Time{}, err
		}
		return smithytime.ParseEpochSeconds(f), nil
	}

	s, err := d.ReadString(schema)
	if err != nil {
		return time.Time{}, err
	}
	if format == smithy.TimestampFormatHTTPDate {
		return smithytime.ParseHTTPDate(s)
	}
	return smithytime.ParseDateTimeFormat(s)
}

func (d *ShapeDeserializer) ReadDocument(schema *smithy.Schema) (*smithy.Document, error) {
	tok, err := d.token()
	if err != nil {
		return nil, err
	}
	return d.readDocumentValue(tok)
}

func (d *ShapeDeserializer) readDocumentValue(tok gojson.Token) (*smithy.Document, error) {
	switch v := tok.(type) {
	case nil:
		return &smithy.Document{}, nil
	case bool:
		return smithy.NewDocument(v), nil
	case string:
		return smithy.NewDocument(v), nil
	case gojson.Number:
		f, ok := new(big.Float).SetString(v.String())
		if !ok {
			return nil, fmt.Errorf("invalid document number %q", v.String())
		}
		return smithy.NewDocument(f), nil
	case gojson.Delim:
		switch v {
		case '[':
			var elems []any
			for d.dec.More() {
				etok, err := d.token()
				if err != nil {
					return nil, err
				}
				ed, err := d.readDocumentValue(etok)
				if err != nil {
					return nil, err
				}
				elems = append(elems, ed.AsValue())
			}
			if _, err := d.token(); err != nil { // ']'
				return nil, err
			}
			return smithy.NewDocument(elems), nil
		case '{':
			m := map[string]any{}
			for d.dec.More() {
				ktok, err := d.token()
				if err != nil {
					return nil, err
				}
				key, ok := ktok.(string)
				if !ok {
					return nil, fmt.Errorf("expected string document key, got %T", ktok)
				}
				vtok, err := d.token()
				if err != nil {
					return nil, err
				}
				vd, err := d.readDocumentValue(vtok)
				if err != nil {
					return nil, err
				}
				m[key] = vd.AsValue()
			}
			if _, err := d.token(); err != nil { // '}'
				return nil, err
			}
			return smithy.NewDocument(m), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", v)
		}
	default:
		return nil, fmt.Errorf("unexpected document token %T", tok)
	}
}

func (d *ShapeDeserializer) ReadStruct(schema *smithy.Schema, consumer func(member *smithy.Schema, d smithy.ShapeDeserializer) error) error {
	if err := d.expectDelim('{'); err != nil {
		return err
	}
	for d.dec.More() {
		ktok, err := d.token()
		if err != nil {
			return err
		}
		key, ok := ktok.(string)
		if !ok {
			return fmt.Errorf("%s: expected string key, got %T", schema.ID, ktok)
		}
		member, ok := schema.MemberByName(key)
		if !ok {
			if err := d.skip(); err != nil {
				return err
			}
			continue
		}
		if err := consumer(member, d); err != nil {
			return err
		}
	}
	_, err := d.token() // '}'
	return err
}

func (d *ShapeDeserializer) ReadList(schema *smithy.Schema, consumer func(d smithy.ShapeDeserializer) error) error {
	if err := d.expectDelim('['); err != nil {
		return err
	}
	for d.dec.More() {
		if err := consumer(d); err != nil {
			return err
		}
	}
	_, err := d.token() // ']'
	return err
}

func (d *ShapeDeserializer) ReadMap(schema *smithy.Schema, consumer func(key string, d smithy.ShapeDeserializer) error) error {
	if err := d.expectDelim('{'); err != nil {
		return err
	}
	for d.dec.More() {
		ktok, err := d.token()
		if err != nil {
			return err
		}
		key, ok := ktok.(string)
		if !ok {
			return fmt.Errorf("%s: expected string key, got %T", schema.ID, ktok)
		}
		if err := consumer(key, d); err != nil {
			return err
		}
	}
	_, err := d.token() // '}'
	return err
}

func (d *ShapeDeserializer) expectDelim(want gojson.Delim) error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	got, ok := tok.(gojson.Delim)
	if !ok || got != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// skip discards one fully-formed JSON value (scalar, object, or array), used
// to ignore struct members absent from the schema.
func (d *ShapeDeserializer) skip() error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	delim, ok := tok.(gojson.Delim)
	if !ok {
		return nil
	}
	closer := gojson.Delim('}')
	if delim == '[' {
		closer = ']'
	}
	for d.dec.More() {
		if delim == '{' {
			if _, err := d.token(); err != nil { // key
				return err
			}
		}
		if err := d.skip(); err != nil {
			return err
		}
	}
	tok, err = d.token()
	if err != nil {
		return err
	}
	if got, ok := tok.(gojson.Delim); !ok || got != closer {
		return fmt.Errorf("expected %q, got %v", closer, tok)
	}
	return nil
}
