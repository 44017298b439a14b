package httpbinding

import (
	"encoding/base64"
	"math/big"
	"net/url"
	"strconv"
	"time"
)

// QueryValue is used to encode a scalar value into a URL query string, either
// appending to or replacing any existing values for the query's key.
type QueryValue struct {
	query  url.Values
	key    string
	append bool
}

func newQueryValue(query url.Values, key string, append bool) QueryValue {
	return QueryValue{query: query, key: key, append: append}
}

func (q QueryValue) modifyQuery(value string) {
	if q.append {
		q.query.Add(q.key, value)
	} else {
		q.query.Set(q.key, value)
	}
}

// String encodes a string query value.
func (q QueryValue) String(v string) { q.modifyQuery(v) }

// Boolean encodes a boolean query value.
func (q QueryValue) Boolean(v bool) { q.modifyQuery(strconv.FormatBool(v)) }

// Byte encodes an int8 query value.
func (q QueryValue) Byte(v int8) { q.Long(int64(v)) }

// Short encodes an int16 query value.
func (q QueryValue) Short(v int16) { q.Long(int64(v)) }

// Integer encodes an int32 query value.
func (q QueryValue) Integer(v int32) { q.Long(int64(v)) }

// Long encodes an int64 query value.
func (q QueryValue) Long(v int64) { q.modifyQuery(strconv.FormatInt(v, 10)) }

// Float encodes a float32 query value.
func (q QueryValue) Float(v float32) {
	q.modifyQuery(strconv.FormatFloat(float64(v), 'f', -1, 32))
}

// Double encodes a float64 query value.
func (q QueryValue) Double(v float64) {
	q.modifyQuery(strconv.FormatFloat(v, 'f', -1, 64))
}

// BigInteger encodes an arbitrary-precision integer query value.
func (q QueryValue) BigInteger(v big.Int) { q.modifyQuery(v.String()) }

// BigDecimal encodes an arbitrary-precision decimal query value.
func (q QueryValue) BigDecimal(v big.Float) { q.modifyQuery(v.Text('f', -1)) }

// Blob encodes a blob query value as standard, padded base64.
func (q QueryValue) Blob(v []byte) { q.modifyQuery(base64.StdEncoding.EncodeToString(v)) }

// Time encodes a timestamp query value in the given format.
func (q QueryValue) Time(v time.Time, format Format) {
	switch format {
	case HTTPDate:
		q.modifyQuery(v.UTC().Format(httpDateLayout))
	case EpochSeconds:
		q.modifyQuery(strconv.FormatFloat(float64(v.UnixNano())/1e9, 'f', -1, 64))
	default:
		q.modifyQuery(v.UTC().Format(time.RFC3339Nano))
	}
}

const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// QueryParams is used to encode a map member whose entries become
// individual, otherwise-unbound query string parameters
// (@httpQueryParams).
type QueryParams struct {
	query url.Values
}

func newQueryParams(query url.Values) QueryParams {
	return QueryParams{query: query}
}

// Add appends a key/value pair without overwriting any existing values for
// that key, skipping keys already bound by an explicit @httpQuery member.
func (q QueryParams) Add(key, value string) {
	if _, exists := q.query[key]; exists {
		return
	}
	q.query.Add(key, value)
}

// Has returns whether the query string already has a value for the key.
func (q QueryParams) Has(key string) bool {
	_, ok := q.query[key]
	return ok
}
