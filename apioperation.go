package smithy

// APIOperation is the frozen, generated-per-operation record the pipeline
// driver runs against. It binds an operation's input/output shapes to their
// schemas, the set of modeled errors it can return, and the auth schemes it
// is willing to negotiate, so the driver never has to reason about
// reflection or naming at runtime.
type APIOperation struct {
	// Name is the operation's shape name, used in OperationError and in
	// interceptor/logging context.
	Name string

	// Schema is the operation shape's own schema (carries the operation's
	// traits, e.g. @idempotent, @readonly, @httpChecksum).
	Schema *Schema

	// InputSchema and OutputSchema are the structure schemas of the
	// operation's input and output shapes.
	InputSchema  *Schema
	OutputSchema *Schema

	// NewInput and NewOutput construct zero-valued, Serializable/
	// Deserializable instances of the operation's input/output types.
	NewInput  func() Serializable
	NewOutput func() Deserializable

	// Errors maps each error shape ID this operation can return to a
	// constructor for its deserializable error type, per §7's error
	// registry requirement.
	Errors map[string]func() DeserializableError

	// AuthSchemeIDs lists, in preference order, the auth scheme IDs this
	// operation is willing to negotiate. The pipeline tries each in turn
	// until one resolves an identity and a signer.
	AuthSchemeIDs []string
}

// IdempotencyTokenMember returns the input member schema marked with
// @idempotencyToken, if the input shape declares one.
func (op *APIOperation) IdempotencyTokenMember() (*Schema, bool) {
	return findMemberWithTrait(op.InputSchema, traitIdempotencyToken)
}

// InputStreamMember returns the input member schema marked with @streaming,
// if the input shape has a streaming payload member.
func (op *APIOperation) InputStreamMember() (*Schema, bool) {
	return findStreamingMember(op.InputSchema)
}

// OutputStreamMember returns the output member schema marked with
// @streaming, if the output shape has a streaming payload member.
func (op *APIOperation) OutputStreamMember() (*Schema, bool) {
	return findStreamingMember(op.OutputSchema)
}

func findMemberWithTrait(s *Schema, traitID string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	for _, m := range s.Members() {
		if _, ok := m.GetTrait(traitID); ok {
			return m, true
		}
	}
	return nil, false
}

// findStreamingMember locates a member whose target carries @streaming.
// Unlike findMemberWithTrait, the trait lives on the member's target shape
// (a blob or union), not the member itself, so member target traits are
// checked directly.
func findStreamingMember(s *Schema) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	for _, m := range s.Members() {
		if _, ok := m.GetTrait(traitStreaming); ok {
			return m, true
		}
		if m.MemberTarget != nil {
			if _, ok := m.MemberTarget.GetTrait(traitStreaming); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// ErrorFor looks up the deserializable error constructor registered for a
// wire-discriminated error shape ID, falling back to false if the operation
// does not model that error.
func (op *APIOperation) ErrorFor(shapeID string) (func() DeserializableError, bool) {
	ctor, ok := op.Errors[shapeID]
	return ctor, ok
}
