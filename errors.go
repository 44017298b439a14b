package smithy

import "fmt"

// Fault classifies who is responsible for an unmodeled API error.
type Fault string

// Fault values.
const (
	FaultUnknown Fault = "unknown"
	FaultClient  Fault = "client"
	FaultServer  Fault = "server"
)

// RetryableError is implemented by errors that know whether retrying is
// safe, and optionally carry a server-provided retry delay hint.
type RetryableError interface {
	error
	IsRetrySafe() bool
	// RetryAfter returns the hinted delay and true if the error carries one
	// (e.g. a Retry-After response header), false otherwise.
	RetryAfter() (float64, bool)
}

// APIError is the generic call exception produced when a deserialized error
// response does not match any entry in the operation's error registry. It
// tags the error with a fault classification per §7.
type APIError struct {
	ShapeName string
	Message   string
	Fault     Fault

	RetrySafe    bool
	RetryAfterS  float64
	HasRetryHint bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.ShapeName, e.Message)
}

func (e *APIError) IsRetrySafe() bool { return e.RetrySafe }

func (e *APIError) RetryAfter() (float64, bool) { return e.RetryAfterS, e.HasRetryHint }

// OperationError wraps any error raised during a pipeline phase with the
// operation name for diagnostics, without obscuring the underlying cause
// from errors.Is/As.
type OperationError struct {
	OperationName string
	Err           error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation error %s: %v", e.OperationName, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// InvalidParamsError is raised for precondition failures caught before a
// request is ever sent (bad host, missing required signing property,
// unreachable shape in deserialization, ...). Never retried.
type InvalidParamsError struct {
	Context string
	Message string
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid params: %s: %s", e.Context, e.Message)
}

// EndpointResolutionError is fatal for the attempt it occurs in.
type EndpointResolutionError struct {
	Err error
}

func (e *EndpointResolutionError) Error() string { return "failed to resolve endpoint: " + e.Err.Error() }
func (e *EndpointResolutionError) Unwrap() error  { return e.Err }

// IdentityResolutionError is fatal for the attempt unless the auth scheme
// chain catches it and tries the next candidate scheme.
type IdentityResolutionError struct {
	SchemeID string
	Err      error
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve identity for scheme %s: %v", e.SchemeID, e.Err)
}
func (e *IdentityResolutionError) Unwrap() error { return e.Err }

// TransportErrorClass classifies a failed transport round trip for the
// retry strategy.
type TransportErrorClass string

// Transport error classes.
const (
	TransportErrorTransient  TransportErrorClass = "transient"
	TransportErrorThrottling TransportErrorClass = "throttling"
	TransportErrorServer     TransportErrorClass = "server_error"
	TransportErrorClient     TransportErrorClass = "client_error"
)

// TransportError wraps a failed transport round trip with its retry
// classification.
type TransportError struct {
	Class TransportErrorClass
	Err   error

	RetrySafe    bool
	RetryAfterS  float64
	HasRetryHint bool
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error (%s): %v", e.Class, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) IsRetrySafe() bool { return e.RetrySafe }

func (e *TransportError) RetryAfter() (float64, bool) { return e.RetryAfterS, e.HasRetryHint }

var _ RetryableError = (*TransportError)(nil)
var _ RetryableError = (*APIError)(nil)
