package httpbinding

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Decoder provides decoding of REST response status code, header, and
// prefix-header components of an HTTP response. Payload decoding is handled
// separately by the wire codec, since the payload's format varies by
// protocol while header/status binding does not.
type Decoder struct {
	header     http.Header
	statusCode int
}

// NewDecoder creates a new decoder for a received HTTP response.
func NewDecoder(resp *http.Response) *Decoder {
	return &Decoder{header: resp.Header, statusCode: resp.StatusCode}
}

// StatusCode returns the response's HTTP status code.
func (d *Decoder) StatusCode() int { return d.statusCode }

// Header returns a HeaderReader for decoding a single header's value.
func (d *Decoder) Header(key string) HeaderReader {
	return HeaderReader{value: d.header.Get(key), present: len(d.header.Values(key)) > 0}
}

// PrefixHeaders returns every header whose name has the given prefix, keyed
// by the header name with the prefix stripped, for binding to a map member
// via @httpPrefixHeaders.
func (d *Decoder) PrefixHeaders(prefix string) map[string]string {
	out := map[string]string{}
	lowerPrefix := strings.ToLower(prefix)
	for k, v := range d.header {
		if len(v) == 0 {
			continue
		}
		if strings.HasPrefix(strings.ToLower(k), lowerPrefix) {
			out[k[len(prefix):]] = strings.Join(v, ", ")
		}
	}
	return out
}

// HeaderReader decodes a single header value into one of the Smithy scalar
// types. The zero HeaderReader (Present() == false) represents an absent
// header.
type HeaderReader struct {
	value   string
	present bool
}

// Present returns whether the header was set on the response.
func (h HeaderReader) Present() bool { return h.present }

// String returns the raw header value.
func (h HeaderReader) String() string { return h.value }

// Boolean parses the header value as a boolean.
func (h HeaderReader) Boolean() (bool, error) { return strconv.ParseBool(h.value) }

// Long parses the header value as an int64.
func (h HeaderReader) Long() (int64, error) { return strconv.ParseInt(h.value, 10, 64) }

// Double parses the header value as a float64.
func (h HeaderReader) Double() (float64, error) { return strconv.ParseFloat(h.value, 64) }

// Time parses the header value as a timestamp in the given format.
func (h HeaderReader) Time(format Format) (time.Time, error) {
	switch format {
	case HTTPDate:
		return time.Parse(httpDateLayout, h.value)
	case EpochSeconds:
		f, err := strconv.ParseFloat(h.value, 64)
		if err != nil {
			return time.Time{}, err
		}
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), nil
	default:
		t, err := time.Parse(time.RFC3339Nano, h.value)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date-time header: %w", err)
		}
		return t, nil
	}
}
