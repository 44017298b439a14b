package httpbinding

import (
	"encoding/base64"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HeaderValue is used to encode a scalar value into an HTTP header, either
// appending to or replacing any existing values for the header's key.
type HeaderValue struct {
	header http.Header
	key    string
	append bool
}

func newHeaderValue(header http.Header, key string, append bool) HeaderValue {
	return HeaderValue{header: header, key: key, append: append}
}

func (h HeaderValue) modifyHeader(value string) {
	if h.append {
		h.header.Add(h.key, value)
	} else {
		h.header.Set(h.key, value)
	}
}

// String encodes a string header value, quoting it per RFC 7230 §3.2.6 if it
// contains a comma (the character a header list splits on) or a double quote.
func (h HeaderValue) String(v string) {
	if strings.ContainsAny(v, ",\"") {
		v = quoteHeaderValue(v)
	}
	h.modifyHeader(v)
}

func quoteHeaderValue(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Boolean encodes a boolean header value.
func (h HeaderValue) Boolean(v bool) {
	h.modifyHeader(strconv.FormatBool(v))
}

// Byte encodes an int8 header value.
func (h HeaderValue) Byte(v int8) { h.Long(int64(v)) }

// Short encodes an int16 header value.
func (h HeaderValue) Short(v int16) { h.Long(int64(v)) }

// Integer encodes an int32 header value.
func (h HeaderValue) Integer(v int32) { h.Long(int64(v)) }

// Long encodes an int64 header value.
func (h HeaderValue) Long(v int64) {
	h.modifyHeader(strconv.FormatInt(v, 10))
}

// Float encodes a float32 header value.
func (h HeaderValue) Float(v float32) {
	h.modifyHeader(strconv.FormatFloat(float64(v), 'f', -1, 32))
}

// Double encodes a float64 header value.
func (h HeaderValue) Double(v float64) {
	h.modifyHeader(strconv.FormatFloat(v, 'f', -1, 64))
}

// BigInteger encodes an arbitrary-precision integer header value.
func (h HeaderValue) BigInteger(v big.Int) {
	h.modifyHeader(v.String())
}

// BigDecimal encodes an arbitrary-precision decimal header value.
func (h HeaderValue) BigDecimal(v big.Float) {
	h.modifyHeader(v.Text('f', -1))
}

// Blob encodes a blob header value as standard, padded base64, per the HTTP
// binding rules for blob shapes bound to headers.
func (h HeaderValue) Blob(v []byte) {
	h.modifyHeader(base64.StdEncoding.EncodeToString(v))
}

// Format enumerates the @timestampFormat values a header timestamp can be
// rendered with.
type Format int

// Format values.
const (
	DateTime Format = iota
	HTTPDate
	EpochSeconds
)

// Time encodes a timestamp header value in the given format.
func (h HeaderValue) Time(v time.Time, format Format) {
	switch format {
	case HTTPDate:
		h.modifyHeader(v.UTC().Format(http.TimeFormat))
	case EpochSeconds:
		h.modifyHeader(strconv.FormatFloat(float64(v.UnixNano())/1e9, 'f', -1, 64))
	default:
		h.modifyHeader(v.UTC().Format(time.RFC3339Nano))
	}
}

// Headers encodes a map member whose keys become headers sharing a common
// name prefix (@httpPrefixHeaders).
type Headers struct {
	header http.Header
	prefix string
}

// AddHeader returns a HeaderValue for the prefixed header name.
func (h Headers) AddHeader(key string) HeaderValue {
	return newHeaderValue(h.header, h.prefix+key, true)
}

// SetHeader returns a HeaderValue for the prefixed header name, replacing any
// existing value.
func (h Headers) SetHeader(key string) HeaderValue {
	return newHeaderValue(h.header, h.prefix+key, false)
}
