package cbor

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"time"

	smithy "github.com/smithy-go/runtime"
)

// timestampTag is the CBOR tag (RFC 8949 §3.4.2) the Smithy RPCv2 CBOR
// protocol uses for every timestamp, epoch seconds as a float, regardless of
// any @timestampFormat trait (that trait only governs HTTP-bound protocols).
const timestampTag = 1

// bignumTag/negBignumTag are RFC 8949 §3.4.3's tagged big-endian magnitude
// encodings for arbitrary precision integers.
const (
	bignumTag    = 2
	negBignumTag = 3
)

// Codec is the Smithy RPCv2 CBOR Codec.
type Codec struct{}

var _ smithy.Codec = (*Codec)(nil)

// MediaType returns the codec's IANA media type.
func (Codec) MediaType() string { return "application/cbor" }

// CreateSerializer returns a ShapeSerializer writing a CBOR document to sink.
func (Codec) CreateSerializer(sink io.Writer) smithy.ShapeSerializer {
	return &ShapeSerializer{sink: sink}
}

// CreateDeserializer returns a ShapeDeserializer reading a CBOR document from
// source.
func (Codec) CreateDeserializer(source []byte) smithy.ShapeDeserializer {
	v, err := Decode(source)
	return &ShapeDeserializer{v: v, err: err}
}

// slot is a single assignable destination for the next Value produced by a
// write. Unlike the JSON/XML codecs, CBOR's definite-length container
// encoding means a struct/list/map's bytes can't be emitted until every
// member is known, so ShapeSerializer builds an in-memory Value tree
// bottom-up and only calls Encode once the outermost scope closes.
type slot struct {
	set func(Value)
}

type structFrame struct {
	dest slot
	m    map[string]Value
}

type listFrame struct {
	dest slot
	l    []Value
}

// ShapeSerializer marshals Smithy shapes into a CBOR Value tree, flushing
// the encoded bytes to sink when the outermost scope closes.
type ShapeSerializer struct {
	sink io.Writer
	head []any // *structFrame, *listFrame, or a pushed slot
}

var _ smithy.ShapeSerializer = (*ShapeSerializer)(nil)

func (ss *ShapeSerializer) top() any {
	if len(ss.head) == 0 {
		return nil
	}
	return ss.head[len(ss.head)-1]
}

func (ss *ShapeSerializer) push(v any) { ss.head = append(ss.head, v) }

func (ss *ShapeSerializer) pop() any {
	v := ss.head[len(ss.head)-1]
	ss.head = ss.head[:len(ss.head)-1]
	return v
}

// slotFor returns where the next Value keyed by schema should land, given
// the scope currently open: a struct member, a list element, a pushed map
// entry slot (consumed here), or the document root.
func (ss *ShapeSerializer) slotFor(schema *smithy.Schema) slot {
	switch top := ss.top().(type) {
	case *structFrame:
		return slot{set: func(v Value) { top.m[schema.ID.Member] = v }}
	case *listFrame:
		return slot{set: func(v Value) { top.l = append(top.l, v) }}
	case slot:
		ss.pop()
		return top
	default:
		return slot{set: func(v Value) { ss.sink.Write(Encode(v)) }}
	}
}

func (ss *ShapeSerializer) WriteBoolean(schema *smithy.Schema, v bool) { ss.slotFor(schema).set(Bool(v)) }

func (ss *ShapeSerializer) writeInt(schema *smithy.Schema, v int64) {
	if v < 0 {
		ss.slotFor(schema).set(NegInt(-v))
		return
	}
	ss.slotFor(schema).set(Uint(v))
}

func (ss *ShapeSerializer) WriteByte(schema *smithy.Schema, v int8)     { ss.writeInt(schema, int64(v)) }
func (ss *ShapeSerializer) WriteShort(schema *smithy.Schema, v int16)   { ss.writeInt(schema, int64(v)) }
func (ss *ShapeSerializer) WriteInteger(schema *smithy.Schema, v int32) { ss.writeInt(schema, int64(v)) }
func (ss *ShapeSerializer) WriteLong(schema *smithy.Schema, v int64)    { ss.writeInt(schema, v) }

func (ss *ShapeSerializer) WriteFloat(schema *smithy.Schema, v float32) {
	ss.slotFor(schema).set(Float32(v))
}
func (ss *ShapeSerializer) WriteDouble(schema *smithy.Schema, v float64) {
	ss.slotFor(schema).set(Float64(v))
}

func (ss *ShapeSerializer) WriteBigInteger(schema *smithy.Schema, v big.Int) {
	ss.slotFor(schema).set(bignum(v))
}

func bignum(v big.Int) Value {
	mag := new(big.Int).Abs(&v)
	if v.Sign() < 0 {
		// RFC 8949 negative bignum magnitude is stored as (-1-n); since
		// NegInt here already represents the tag-3 convention of magnitude-1,
		// the byte string itself is encoded unsigned and tagged negative.
		return &Tag{ID: negBignumTag, Value: Slice(new(big.Int).Sub(mag, big.NewInt(1)).Bytes())}
	}
	return &Tag{ID: bignumTag, Value: Slice(mag.Bytes())}
}

// WriteBigDecimal encodes v as a CBOR integer when it holds an exact int64
// value, and otherwise as its shortest round-trippable decimal string. RPCv2 CBOR's tag-4 decimal fraction (exponent/mantissa pair) is not
// implemented; bigDecimal is rare in Smithy models and this keeps the value
// exact without needing a full decimal-fraction splitter.
func (ss *ShapeSerializer) WriteBigDecimal(schema *smithy.Schema, v big.Float) {
	if i, accuracy := v.Int64(); accuracy == big.Exact {
		ss.writeInt(schema, i)
		return
	}
	ss.slotFor(schema).set(String(v.Text('e', -1)))
}

func (ss *ShapeSerializer) WriteString(schema *smithy.Schema, v string) {
	ss.slotFor(schema).set(String(v))
}
func (ss *ShapeSerializer) WriteBlob(schema *smithy.Schema, v []byte) {
	ss.slotFor(schema).set(Slice(v))
}

func (ss *ShapeSerializer) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	secs := float64(v.UnixNano()) / 1e9
	ss.slotFor(schema).set(&Tag{ID: timestampTag, Value: Float64(secs)})
}

func (ss *ShapeSerializer) WriteDocument(schema *smithy.Schema, v *smithy.Document) {
	ss.slotFor(schema).set(documentValue(v))
}

func documentValue(d *smithy.Document) Value {
	if d == nil || d.IsNull() {
		return &Nil{}
	}
	switch d.Type() {
	case smithy.DocumentTypeBoolean:
		return Bool(d.Bool())
	case smithy.DocumentTypeString:
		return String(d.String())
	case smithy.DocumentTypeNumber:
		n := d.Number()
		if i, accuracy := n.Int64(); accuracy == big.Exact {
			if i < 0 {
				return NegInt(-i)
			}
			return Uint(i)
		}
		f, _ := n.Float64()
		return Float64(f)
	case smithy.DocumentTypeBlob:
		return Slice(d.Blob())
	case smithy.DocumentTypeTimestamp:
		return &Tag{ID: timestampTag, Value: Float64(float64(d.Timestamp().UnixNano()) / 1e9)}
	case smithy.DocumentTypeList:
		n := d.Len()
		l := make(List, n)
		for i := 0; i < n; i++ {
			l[i] = documentValue(d.Index(i))
		}
		return l
	case smithy.DocumentTypeMap:
		m := Map{}
		for _, k := range d.Keys() {
			child, _ := d.Member(k)
			m[k] = documentValue(child)
		}
		return m
	default:
		return &Nil{}
	}
}

func (ss *ShapeSerializer) WriteNull(schema *smithy.Schema) { ss.slotFor(schema).set(&Nil{}) }

func (ss *ShapeSerializer) BeginStruct(schema *smithy.Schema) smithy.ShapeSerializer {
	ss.push(&structFrame{dest: ss.slotFor(schema), m: map[string]Value{}})
	return ss
}

func (ss *ShapeSerializer) BeginList(schema *smithy.Schema, size int) smithy.ShapeSerializer {
	var l []Value
	if size > 0 {
		l = make([]Value, 0, size)
	}
	ss.push(&listFrame{dest: ss.slotFor(schema), l: l})
	return ss
}

func (ss *ShapeSerializer) BeginMap(schema *smithy.Schema) smithy.MapSerializer {
	return &mapSerializer{ss: ss, dest: ss.slotFor(schema), acc: map[string]Value{}}
}

func (ss *ShapeSerializer) Close() {
	if len(ss.head) == 0 {
		return
	}
	switch top := ss.pop().(type) {
	case *structFrame:
		top.dest.set(Map(top.m))
	case *listFrame:
		top.dest.set(List(top.l))
	}
}

func (ss *ShapeSerializer) WriteDataStream(schema *smithy.Schema, r io.Reader) error {
	return &smithy.UnsupportedStream{Schema: schema}
}

// mapSerializer adapts a CBOR Map accumulator to smithy.MapSerializer: each
// Entry pushes a one-shot slot targeting its key, so the write callback
// routes through the same slotFor dispatch as any other write.
type mapSerializer struct {
	ss   *ShapeSerializer
	dest slot
	acc  map[string]Value
}

func (m *mapSerializer) Entry(key string, write func(smithy.ShapeSerializer)) {
	m.ss.push(slot{set: func(v Value) { m.acc[key] = v }})
	write(m.ss)
}

func (m *mapSerializer) Close() { m.dest.set(Map(m.acc)) }

// ShapeDeserializer unmarshals a decoded CBOR Value tree into Smithy shapes.
// Unlike the JSON codec's token stream, the whole document is already an
// immutable Value tree after Decode, so every nested reader is just a fresh
// ShapeDeserializer wrapping a child Value -- no cursor state to advance.
type ShapeDeserializer struct {
	v   Value
	err error
}

var _ smithy.ShapeDeserializer = (*ShapeDeserializer)(nil)

func (d *ShapeDeserializer) IsNull() bool {
	if d.err != nil {
		return false
	}
	_, ok := d.v.(*Nil)
	return ok || d.v == nil
}

func (d *ShapeDeserializer) ReadNull() {}

func (d *ShapeDeserializer) ReadBoolean(schema *smithy.Schema) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	b, ok := d.v.(Bool)
	if !ok {
		return false, fmt.Errorf("%s: expected bool, got %T", schema.ID, d.v)
	}
	return bool(b), nil
}

func (d *ShapeDeserializer) readInt(schema *smithy.Schema, min, max int64) (int64, error) {
	if d.err != nil {
		return 0, d.err
	}
	switch v := d.v.(type) {
	case Uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("%s: %d overflows int64", schema.ID, uint64(v))
		}
		n := int64(v)
		if n < min || n > max {
			return 0, fmt.Errorf("%s: %d exceeds range [%d, %d]", schema.ID, n, min, max)
		}
		return n, nil
	case NegInt:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("%s: -%d overflows int64", schema.ID, uint64(v))
		}
		n := -int64(v)
		if n < min || n > max {
			return 0, fmt.Errorf("%s: %d exceeds range [%d, %d]", schema.ID, n, min, max)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s: expected integer, got %T", schema.ID, d.v)
	}
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
	if d.err != nil {
		return 0, d.err
	}
	switch v := d.v.(type) {
	case Float32:
		return float64(v), nil
	case Float64:
		return float64(v), nil
	case Uint:
		return float64(v), nil
	case NegInt:
		return -float64(v), nil
	default:
		return 0, fmt.Errorf("%s: expected float, got %T", schema.ID, d.v)
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
	if d.err != nil {
		return big.Int{}, d.err
	}
	if tag, ok := d.v.(*Tag); ok && (tag.ID == bignumTag || tag.ID == negBignumTag) {
		slice, ok := tag.Value.(Slice)
		if !ok {
			return big.Int{}, fmt.Errorf("%s: bignum tag payload is not a byte string", schema.ID)
		}
		mag := new(big.Int).SetBytes(slice)
		if tag.ID == negBignumTag {
			mag.Add(mag, big.NewInt(1))
			mag.Neg(mag)
		}
		return *mag, nil
	}
	n, err := d.readInt(schema, math.MinInt64, math.MaxInt64)
	if err != nil {
		return big.Int{}, err
	}
	return *big.NewInt(n), nil
}

func (d *ShapeDeserializer) ReadBigDecimal(schema *smithy.Schema) (big.Float, error) {
	if d.err != nil {
		return big.Float{}, d.err
	}
	if s, ok := d.v.(String); ok {
		f, ok := new(big.Float).SetString(string(s))
		if !ok {
			return big.Float{}, fmt.Errorf("%s: invalid big decimal %q", schema.ID, s)
		}
		return *f, nil
	}
	f, err := d.readFloat(schema)
	if err != nil {
		return big.Float{}, err
	}
	return *big.NewFloat(f), nil
}

func (d *ShapeDeserializer) ReadString(schema *smithy.Schema) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	s, ok := d.v.(String)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", schema.ID, d.v)
	}
	return string(s), nil
}

func (d *ShapeDeserializer) ReadBlob(schema *smithy.Schema) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	s, ok := d.v.(Slice)
	if !ok {
		return nil, fmt.Errorf("%s: expected byte string, got %T", schema.ID, d.v)
	}
	return []byte(s), nil
}

func (d *ShapeDeserializer) ReadTimestamp(schema *smithy.Schema) (time.Time, error) {
	if d.err != nil {
		return time.Time{}, d.err
	}
	tag, ok := d.v.(*Tag)
	if !ok || tag.ID != timestampTag {
		return time.Time{}, fmt.Errorf("%s: expected tag-%d timestamp, got %T", schema.ID, timestampTag, d.v)
	}
	secs, err := (&ShapeDeserializer{v: tag.Value}).readFloat(schema)
	if err != nil {
		return time.Time{}, err
	}
	whole := math.Trunc(secs)
	frac := secs - whole
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
}

func (d *ShapeDeserializer) ReadDocument(schema *smithy.Schema) (*smithy.Document, error) {
	if d.err != nil {
		return nil, d.err
	}
	return valueDocument(d.v), nil
}

func valueDocument(v Value) *smithy.Document {
	switch t := v.(type) {
	case nil:
		return &smithy.Document{}
	case *Nil:
		return &smithy.Document{}
	case Bool:
		return smithy.NewDocument(bool(t))
	case String:
		return smithy.NewDocument(string(t))
	case Uint:
		return smithy.NewDocument(new(big.Float).SetUint64(uint64(t)))
	case NegInt:
		return smithy.NewDocument(new(big.Float).SetInt64(-int64(t)))
	case Float32:
		return smithy.NewDocument(float64(t))
	case Float64:
		return smithy.NewDocument(float64(t))
	case Slice:
		return smithy.NewDocument([]byte(t))
	case *Tag:
		return valueDocument(t.Value)
	case List:
		elems := make([]any, len(t))
		for i, e := range t {
			elems[i] = valueDocument(e).AsValue()
		}
		return smithy.NewDocument(elems)
	case Map:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = valueDocument(e).AsValue()
		}
		return smithy.NewDocument(m)
	default:
		return &smithy.Document{}
	}
}

func (d *ShapeDeserializer) ReadStruct(schema *smithy.Schema, consumer func(member *smithy.Schema, cd smithy.ShapeDeserializer) error) error {
	if d.err != nil {
		return d.err
	}
	m, ok := d.v.(Map)
	if !ok {
		if d.IsNull() {
			return nil
		}
		return fmt.Errorf("%s: expected map, got %T", schema.ID, d.v)
	}
	for key, val := range m {
		member, ok := schema.MemberByName(key)
		if !ok {
			continue
		}
		if err := consumer(member, &ShapeDeserializer{v: val}); err != nil {
			return err
		}
	}
	return nil
}

func (d *ShapeDeserializer) ReadList(schema *smithy.Schema, consumer func(cd smithy.ShapeDeserializer) error) error {
	if d.err != nil {
		return d.err
	}
	l, ok := d.v.(List)
	if !ok {
		if d.IsNull() {
			return nil
		}
		return fmt.Errorf("%s: expected list, got %T", schema.ID, d.v)
	}
	for _, el := range l {
		if err := consumer(&ShapeDeserializer{v: el}); err != nil {
			return err
		}
	}
	return nil
}

func (d *ShapeDeserializer) ReadMap(schema *smithy.Schema, consumer func(key string, cd smithy.ShapeDeserializer) error) error {
	if d.err != nil {
		return d.err
	}
	m, ok := d.v.(Map)
	if !ok {
		if d.IsNull() {
			return nil
		}
		return fmt.Errorf("%s: expected map, got %T", schema.ID, d.v)
	}
	for key, val := range m {
		if err := consumer(key, &ShapeDeserializer{v: val}); err != nil {
			return err
		}
	}
	return nil
}
