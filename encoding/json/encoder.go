package json

import (
	"encoding/base64"
	"io"
	"math"
	"strconv"
)

// Encoder writes a single JSON document incrementally. It does not buffer
// the whole document; each call writes its bytes straight to the
// underlying io.Writer, the same way the xml encoder in this module works.
type Encoder struct {
	w       io.Writer
	scratch []byte
}

// NewEncoder returns a JSON encoder writing into w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, scratch: make([]byte, 0, 64)}
}

func (e *Encoder) raw(p []byte) { _, _ = e.w.Write(p) }
func (e *Encoder) str(s string) { _, _ = io.WriteString(e.w, s) }

// Value returns a scalar encoder for the document's top-level value.
func (e *Encoder) Value() Value { return newValue(e) }

// Object opens a JSON object at the document's top level.
func (e *Encoder) Object() *Object { return newObject(e) }

// Array opens a JSON array at the document's top level.
func (e *Encoder) Array() *Array { return newArray(e) }

// Value is a one-shot scalar encoder: exactly one of its methods should be
// called before the Value is discarded.
type Value struct {
	e *Encoder
}

func newValue(e *Encoder) Value { return Value{e: e} }

func (v Value) String(s string) {
	v.e.raw(appendQuoted(v.e.scratch[:0], s))
}

func (v Value) Boolean(b bool) {
	if b {
		v.e.str("true")
	} else {
		v.e.str("false")
	}
}

func (v Value) Byte(n int8)   { v.Long(int64(n)) }
func (v Value) Short(n int16) { v.Long(int64(n)) }
func (v Value) Integer(n int32) {
	v.Long(int64(n))
}

func (v Value) Long(n int64) {
	v.e.scratch = strconv.AppendInt(v.e.scratch[:0], n, 10)
	v.e.raw(v.e.scratch)
}

func (v Value) Float(f float32) { v.float(float64(f)) }
func (v Value) Double(f float64) {
	v.float(f)
}

// float renders special values the way AWS JSON protocols do: non-finite
// floats are quoted strings since JSON has no literal for them.
func (v Value) float(f float64) {
	switch {
	case math.IsNaN(f):
		v.e.str(`"NaN"`)
	case math.IsInf(f, 1):
		v.e.str(`"Infinity"`)
	case math.IsInf(f, -1):
		v.e.str(`"-Infinity"`)
	default:
		v.e.scratch = strconv.AppendFloat(v.e.scratch[:0], f, 'g', -1, 64)
		v.e.raw(v.e.scratch)
	}
}

func (v Value) BigInteger(n string) { v.e.str(n) }
func (v Value) BigDecimal(n string) { v.e.str(n) }

func (v Value) Blob(b []byte) {
	v.e.str(`"`)
	v.e.str(base64.StdEncoding.EncodeToString(b))
	v.e.str(`"`)
}

func (v Value) Null() { v.e.str("null") }

// Object is a JSON object encoder.
type Object struct {
	e     *Encoder
	first bool
}

func newObject(e *Encoder) *Object {
	e.str("{")
	return &Object{e: e, first: true}
}

// Key writes the separator/comma bookkeeping and the quoted key, returning a
// Value to encode the member's value.
func (o *Object) Key(name string) Value {
	if !o.first {
		o.e.str(",")
	}
	o.first = false
	o.e.raw(appendQuoted(o.e.scratch[:0], name))
	o.e.str(":")
	return newValue(o.e)
}

// Close writes the object's closing brace.
func (o *Object) Close() { o.e.str("}") }

// Array is a JSON array encoder.
type Array struct {
	e     *Encoder
	first bool
}

func newArray(e *Encoder) *Array {
	e.str("[")
	return &Array{e: e, first: true}
}

// Value returns an encoder for the array's next element.
func (a *Array) Value() Value {
	if !a.first {
		a.e.str(",")
	}
	a.first = false
	return newValue(a.e)
}

// Close writes the array's closing bracket.
func (a *Array) Close() { a.e.str("]") }

const hex = "0123456789abcdef"

// appendQuoted appends the JSON-quoted, escaped form of s to dst.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			dst = append(dst, '\\', byte(r))
		case r == '\n':
			dst = append(dst, '\\', 'n')
		case r == '\r':
			dst = append(dst, '\\', 'r')
		case r == '\t':
			dst = append(dst, '\\', 't')
		case r < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hex[(r>>4)&0xf], hex[r&0xf])
		default:
			dst = append(dst, string(r)...)
		}
	}
	return append(dst, '"')
}
