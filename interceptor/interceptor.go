// Package interceptor defines the named-hook interception contract the
// pipeline driver fires at fixed points in an operation's execution.
//
// Each hook receives a *Context carrying whatever inputs/outputs/request/
// response values are available at that point in the call, and may inspect
// (read hooks) or replace (modify hooks) them. This supersedes the legacy
// middleware package's step/handler-decoration model: hooks are named and
// fired directly by the pipeline driver in a fixed, documented order,
// rather than composed as a chain of handler wrappers around each of the
// five classic steps.
package interceptor

import "context"

// Context carries the mutable state of an in-flight call through the
// pipeline's named hooks. Fields are populated incrementally as the call
// progresses; a hook should only read fields the driver guarantees are set
// by the point it fires (see the per-hook doc comments on Interceptor).
type Context struct {
	Ctx context.Context

	OperationName string

	Input  any
	Output any

	Request  any
	Response any

	Err error
}

// Interceptor implements zero or more of the pipeline's named hooks. All
// methods are optional: embed NoOpInterceptor and override only the hooks
// needed.
//
// Hooks fire in this fixed order for every attempt of every call:
//
//	ReadBeforeExecution
//	ModifyBeforeSerialization -> ReadBeforeSerialization
//	(serialize) -> ReadAfterSerialization
//	ModifyBeforeRetryLoop
//	  per attempt:
//	  ReadBeforeAttempt
//	  ModifyBeforeSigning -> ReadBeforeSigning
//	  (resolve auth, sign) -> ReadAfterSigning
//	  ModifyBeforeTransmit -> ReadBeforeTransmit
//	  (transmit) -> ReadAfterTransmit
//	  ModifyBeforeDeserialization -> ReadBeforeDeserialization
//	  (deserialize) -> ReadAfterDeserialization
//	  ModifyBeforeAttemptCompletion -> ReadAfterAttempt
//	ModifyBeforeCompletion -> ReadAfterExecution
//
// ReadAfterExecution fires if and only if ReadBeforeExecution fired,
// including on a failure that aborted every other hook; ReadAfterAttempt
// fires if and only if ReadBeforeAttempt fired for that attempt. Both
// "after" hooks observe the terminal Err of the scope they close, if any.
type Interceptor interface {
	ReadBeforeExecution(*Context) error

	ModifyBeforeSerialization(*Context) error
	ReadBeforeSerialization(*Context) error
	ReadAfterSerialization(*Context) error

	ModifyBeforeRetryLoop(*Context) error

	ReadBeforeAttempt(*Context) error

	ModifyBeforeSigning(*Context) error
	ReadBeforeSigning(*Context) error
	ReadAfterSigning(*Context) error

	ModifyBeforeTransmit(*Context) error
	ReadBeforeTransmit(*Context) error
	ReadAfterTransmit(*Context) error

	ModifyBeforeDeserialization(*Context) error
	ReadBeforeDeserialization(*Context) error
	ReadAfterDeserialization(*Context) error

	ModifyBeforeAttemptCompletion(*Context) error
	ReadAfterAttempt(*Context) error

	ModifyBeforeCompletion(*Context) error
	ReadAfterExecution(*Context) error
}

// NoOpInterceptor implements Interceptor with hooks that do nothing,
// embedded by interceptors that only care about a subset of hooks.
type NoOpInterceptor struct{}

func (NoOpInterceptor) ReadBeforeExecution(*Context) error { return nil }

func (NoOpInterceptor) ModifyBeforeSerialization(*Context) error { return nil }
func (NoOpInterceptor) ReadBeforeSerialization(*Context) error   { return nil }
func (NoOpInterceptor) ReadAfterSerialization(*Context) error    { return nil }

func (NoOpInterceptor) ModifyBeforeRetryLoop(*Context) error { return nil }

func (NoOpInterceptor) ReadBeforeAttempt(*Context) error { return nil }

func (NoOpInterceptor) ModifyBeforeSigning(*Context) error { return nil }
func (NoOpInterceptor) ReadBeforeSigning(*Context) error   { return nil }
func (NoOpInterceptor) ReadAfterSigning(*Context) error    { return nil }

func (NoOpInterceptor) ModifyBeforeTransmit(*Context) error { return nil }
func (NoOpInterceptor) ReadBeforeTransmit(*Context) error   { return nil }
func (NoOpInterceptor) ReadAfterTransmit(*Context) error    { return nil }

func (NoOpInterceptor) ModifyBeforeDeserialization(*Context) error { return nil }
func (NoOpInterceptor) ReadBeforeDeserialization(*Context) error   { return nil }
func (NoOpInterceptor) ReadAfterDeserialization(*Context) error    { return nil }

func (NoOpInterceptor) ModifyBeforeAttemptCompletion(*Context) error { return nil }
func (NoOpInterceptor) ReadAfterAttempt(*Context) error              { return nil }

func (NoOpInterceptor) ModifyBeforeCompletion(*Context) error { return nil }
func (NoOpInterceptor) ReadAfterExecution(*Context) error     { return nil }

var _ Interceptor = NoOpInterceptor{}
