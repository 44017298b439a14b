package smithy

import "fmt"

// PropertyKey binds a key string to a static value type T, so that reads via
// the key recover the type without a downcast at the call site. The same
// Properties bag backs per-call context and protocol/signer property
// plumbing throughout the pipeline.
type PropertyKey[T any] struct {
	key string
}

// NewPropertyKey creates a typed property key. Keys are typically declared
// as package-level vars by the package that owns the property, mirroring how
// transport/http/properties.go declares its SigV4 property keys.
func NewPropertyKey[T any](key string) PropertyKey[T] {
	return PropertyKey[T]{key: key}
}

// Properties is an order-preserving, string-keyed bag of heterogeneous
// values. It backs both generic untyped access (Get/Set, for interop with
// existing code written against the bag) and the typed PropertyKey
// accessors.
type Properties struct {
	order  []string
	values map[string]interface{}
}

// Get retrieves the value for an arbitrary key, or nil if absent. The key
// may be any comparable value, matching existing Properties-based code that
// predates PropertyKey.
func (p *Properties) Get(key interface{}) interface{} {
	if p.values == nil {
		return nil
	}
	return p.values[propKeyString(key)]
}

// Set stores a value for an arbitrary key.
func (p *Properties) Set(key, value interface{}) {
	p.set(propKeyString(key), value)
}

func (p *Properties) set(key string, value interface{}) {
	if p.values == nil {
		p.values = map[string]interface{}{}
	}
	if _, exists := p.values[key]; !exists {
		p.order = append(p.order, key)
	}
	p.values[key] = value
}

// Has returns whether a value is present for an arbitrary key.
func (p *Properties) Has(key interface{}) bool {
	if p.values == nil {
		return false
	}
	_, ok := p.values[propKeyString(key)]
	return ok
}

// Keys returns the property keys in insertion order.
func (p *Properties) Keys() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// GetProperty retrieves a typed property by its PropertyKey. ok is false if
// the key is absent or the stored value's type does not match T.
func GetProperty[T any](p *Properties, key PropertyKey[T]) (T, bool) {
	var zero T
	v := p.Get(key.key)
	if v == nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// SetProperty sets a typed property by its PropertyKey.
func SetProperty[T any](p *Properties, key PropertyKey[T], value T) {
	p.set(key.key, value)
}

// Clone returns a shallow copy of the Properties bag: a new backing map with
// the same key/value associations, safe to mutate independently of the
// original (the per-call context's copy-before-mutate-across-attempts
// requirement in §3's lifecycle rule).
func (p *Properties) Clone() *Properties {
	cp := &Properties{}
	if p.values == nil {
		return cp
	}
	cp.order = append([]string(nil), p.order...)
	cp.values = make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		cp.values[k] = v
	}
	return cp
}

func propKeyString(key interface{}) string {
	if s, ok := key.(string); ok {
		return s
	}
	// non-string keys are keyed by their dynamic type, so all keys of one
	// type share one entry; for struct{} sentinels this matches Go's own
	// interface-equality rule.
	return fmt.Sprintf("%T", key)
}
