package smithy

// Trait represents a trait applied to a shape in a Smithy model. Traits
// related to (de)serialization are included in code-generated Schemas for the
// client.
type Trait interface {
	TraitID() string
}

// inertTrait holds a trait value generated code has not (yet) modeled as a
// concrete Go type. It carries the trait's document value so that
// SchemaTrait can upgrade it to a strongly typed value on first access by a
// trait type that implements traitUpgrader.
type inertTrait struct {
	id    string
	value Document
}

func (t *inertTrait) TraitID() string { return t.id }

// NewInertTrait constructs a document-valued trait placeholder for a trait
// ID generated code does not have a concrete type for.
func NewInertTrait(id string, value Document) Trait {
	return &inertTrait{id: id, value: value}
}

// upgrade attempts to convert the inert trait's document value into the
// concrete zero value's type through that type's traitUpgrader
// implementation. None of the trait types in this package implement
// traitUpgrader, so for each of them upgrade returns ExpectationNotMet.
func (t *inertTrait) upgrade(zero Trait) (Trait, error) {
	up, ok := zero.(traitUpgrader)
	if !ok {
		return nil, &ExpectationNotMet{Message: "trait " + t.id + " has no upgrade path"}
	}
	return up.fromDocument(t.value)
}

// traitUpgrader is the conversion a trait type provides so an inertTrait
// holder can be converted to it on demand; no trait type in this package
// implements it.
type traitUpgrader interface {
	fromDocument(Document) (Trait, error)
}

const (
	// well-known trait shape IDs, per the Smithy prelude.
	traitHTTP             = "smithy.api#http"
	traitHTTPHeader       = "smithy.api#httpHeader"
	traitHTTPPrefixHeader = "smithy.api#httpPrefixHeaders"
	traitHTTPQuery        = "smithy.api#httpQuery"
	traitHTTPQueryParams  = "smithy.api#httpQueryParams"
	traitHTTPLabel        = "smithy.api#httpLabel"
	traitHTTPPayload      = "smithy.api#httpPayload"
	traitHTTPResponseCode = "smithy.api#httpResponseCode"
	traitHTTPError        = "smithy.api#httpError"
	traitEndpoint         = "smithy.api#endpoint"
	traitHostLabel        = "smithy.api#hostLabel"
	traitStreaming        = "smithy.api#streaming"
	traitMediaType        = "smithy.api#mediaType"
	traitTimestampFormat  = "smithy.api#timestampFormat"
	traitRequired         = "smithy.api#required"
	traitEventHeader      = "smithy.api#eventHeader"
	traitEventPayload     = "smithy.api#eventPayload"
	traitIdempotencyToken = "smithy.api#idempotencyToken"
	traitDefault          = "smithy.api#default"
)

// HTTPTrait is the @http trait: the HTTP method, URI pattern, and default
// success status code for an operation.
type HTTPTrait struct {
	Method string
	URI    string
	Code   int
}

func (HTTPTrait) TraitID() string { return traitHTTP }

// HTTPHeaderTrait is the @httpHeader trait: binds a member to a single HTTP
// header field.
type HTTPHeaderTrait struct{ Name string }

func (HTTPHeaderTrait) TraitID() string { return traitHTTPHeader }

// HTTPPrefixHeadersTrait is the @httpPrefixHeaders trait: binds a map member
// to a group of HTTP headers sharing a name prefix.
type HTTPPrefixHeadersTrait struct{ Prefix string }

func (HTTPPrefixHeadersTrait) TraitID() string { return traitHTTPPrefixHeader }

// HTTPQueryTrait is the @httpQuery trait: binds a member to a named query
// string parameter.
type HTTPQueryTrait struct{ Name string }

func (HTTPQueryTrait) TraitID() string { return traitHTTPQuery }

// HTTPQueryParamsTrait is the @httpQueryParams trait: binds a map member to
// the full set of otherwise-unbound query string parameters.
type HTTPQueryParamsTrait struct{}

func (HTTPQueryParamsTrait) TraitID() string { return traitHTTPQueryParams }

// HTTPLabelTrait is the @httpLabel trait: binds a member into a path label of
// the operation's URI pattern.
type HTTPLabelTrait struct{}

func (HTTPLabelTrait) TraitID() string { return traitHTTPLabel }

// HTTPPayloadTrait is the @httpPayload trait: the member is the entire HTTP
// message body.
type HTTPPayloadTrait struct{}

func (HTTPPayloadTrait) TraitID() string { return traitHTTPPayload }

// HTTPResponseCodeTrait is the @httpResponseCode trait: the member carries
// the HTTP response status code.
type HTTPResponseCodeTrait struct{}

func (HTTPResponseCodeTrait) TraitID() string { return traitHTTPResponseCode }

// HTTPErrorTrait is the @httpError trait: the status code an error structure
// is bound to.
type HTTPErrorTrait struct{ Code int }

func (HTTPErrorTrait) TraitID() string { return traitHTTPError }

// EndpointTrait is the @endpoint trait: a host-prefix pattern to be merged
// into the resolved endpoint.
type EndpointTrait struct{ HostPrefix string }

func (EndpointTrait) TraitID() string { return traitEndpoint }

// HostLabelTrait is the @hostLabel trait: the member's value is substituted
// into the operation's host prefix pattern.
type HostLabelTrait struct{}

func (HostLabelTrait) TraitID() string { return traitHostLabel }

// StreamingTrait is the @streaming trait: the shape is a data stream (for
// blobs) or an event stream (for unions).
type StreamingTrait struct{}

func (StreamingTrait) TraitID() string { return traitStreaming }

// MediaTypeTrait is the @mediaType trait: the MIME media type of a blob or
// string shape's contents.
type MediaTypeTrait struct{ Value string }

func (MediaTypeTrait) TraitID() string { return traitMediaType }

// TimestampFormat enumerates supported @timestampFormat values.
type TimestampFormat string

// Timestamp format values recognized by the runtime.
const (
	TimestampFormatDateTime     TimestampFormat = "date-time"
	TimestampFormatHTTPDate     TimestampFormat = "http-date"
	TimestampFormatEpochSeconds TimestampFormat = "epoch-seconds"
)

// TimestampFormatTrait is the @timestampFormat trait.
type TimestampFormatTrait struct{ Format TimestampFormat }

func (TimestampFormatTrait) TraitID() string { return traitTimestampFormat }

// RequiredTrait is the @required trait: the member must always be sent.
type RequiredTrait struct{}

func (RequiredTrait) TraitID() string { return traitRequired }

// EventHeaderTrait is the @eventHeader trait: the member is bound to an
// event-stream message header rather than the message payload.
type EventHeaderTrait struct{}

func (EventHeaderTrait) TraitID() string { return traitEventHeader }

// EventPayloadTrait is the @eventPayload trait: the member is the entire
// event-stream message payload.
type EventPayloadTrait struct{}

func (EventPayloadTrait) TraitID() string { return traitEventPayload }

// IdempotencyTokenTrait is the @idempotencyToken trait: the member is
// eligible for client-side auto-fill with a fresh idempotency token.
type IdempotencyTokenTrait struct{}

func (IdempotencyTokenTrait) TraitID() string { return traitIdempotencyToken }

// DefaultTrait is the @default trait: the member's default document value
// when absent from the wire.
type DefaultTrait struct{ Value Document }

func (DefaultTrait) TraitID() string { return traitDefault }
