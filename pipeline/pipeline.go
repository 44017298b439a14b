// Package pipeline drives a single operation call through its nine phases:
// execution setup, serialization, the retry loop, and, within each attempt,
// endpoint/auth resolution and signing, transmit, and deserialization,
// closing with attempt and execution completion. Every phase boundary fires
// the matching named hook from package interceptor, in the fixed order
// documented on interceptor.Interceptor.
//
// The driver itself holds no transport or wire-format opinion: Serializer,
// Deserializer, and Transport are supplied per operation, following the same
// separation of concerns as the legacy middleware.Stack's serialize/build/
// finalize/deserialize step grouping, but invoked directly by the driver
// instead of composed as handler decorators.
package pipeline

import (
	"context"
	"fmt"
	"reflect"
	"time"

	smithy "github.com/smithy-go/runtime"
	"github.com/smithy-go/runtime/auth"
	"github.com/smithy-go/runtime/interceptor"
	"github.com/smithy-go/runtime/logging"
	"github.com/smithy-go/runtime/middleware"
	"github.com/smithy-go/runtime/retry"
)

// Serializer converts a modeled operation input into a protocol-specific
// request value (e.g. a *transport/http.Request).
type Serializer func(ctx context.Context, input any) (request any, err error)

// Deserializer converts a protocol-specific response value into a modeled
// operation output, or a modeled/unmodeled error.
type Deserializer func(ctx context.Context, response any) (output any, err error)

// Transport sends a request and returns the raw response.
type Transport func(ctx context.Context, request any) (response any, err error)

// AuthResolver chooses the ordered list of auth.Option an operation may use,
// given whatever parameters the caller supplies via the context.
type AuthResolver interface {
	ResolveAuthSchemes(ctx context.Context, params any) ([]*auth.Option, error)
}

// Signer signs request using the resolved identity and the auth option's
// signer properties.
type Signer interface {
	SignRequest(ctx context.Context, request any, identity auth.Identity, props smithy.Properties) error
}

// EventSigner re-signs each frame of a duplex or output event stream,
// chained off of the initial request signature. Operations with no event
// stream member leave this nil.
type EventSigner interface {
	SignEvent(ctx context.Context, payload []byte, t time.Time) (signature string, err error)
}

// Config assembles everything a Driver needs to run one kind of operation.
// A generated client builds one Config per operation (or shares one across
// operations that differ only in Serializer/Deserializer).
type Config struct {
	Operation *smithy.APIOperation

	Serialize   Serializer
	Deserialize Deserializer
	Transport   Transport

	AuthResolver AuthResolver
	Signers      map[string]Signer // by auth.Option.SchemeID
	Identities   auth.IdentityResolverOptions

	Retry        retry.Strategy
	Interceptors []interceptor.Interceptor

	Now func() time.Time
}

// Driver executes calls against a single Config.
type Driver struct {
	cfg Config
}

// New creates a Driver for cfg. Retry defaults to retry.NewSimple(3) and Now
// to time.Now if left unset.
func New(cfg Config) *Driver {
	if cfg.Retry == nil {
		cfg.Retry = retry.NewSimple(3)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Driver{cfg: cfg}
}

// Execute runs input through the operation's full pipeline: serialize once,
// then drive the retry loop, attempting transmit/deserialize until success,
// a non-retryable error, or the retry strategy's ceiling.
func (d *Driver) Execute(ctx context.Context, input any) (output any, err error) {
	ic := &interceptor.Context{Ctx: ctx, OperationName: d.cfg.Operation.Name, Input: input}

	defer func() {
		ic.Err = err
		if output != nil {
			ic.Output = output
		}
		if hookErr := d.fireAfter(ic, interceptor.Interceptor.ReadAfterExecution); hookErr != nil && err == nil {
			err = hookErr
		}
	}()

	if err = d.fireBefore(ic, interceptor.Interceptor.ReadBeforeExecution); err != nil {
		return nil, err
	}

	if err = d.fireBefore(ic, interceptor.Interceptor.ModifyBeforeSerialization); err != nil {
		return nil, err
	}
	if err = d.fireBefore(ic, interceptor.Interceptor.ReadBeforeSerialization); err != nil {
		return nil, err
	}

	request, err := d.cfg.Serialize(ic.Ctx, ic.Input)
	if err != nil {
		return nil, fmt.Errorf("serialize %s input: %w", d.cfg.Operation.Name, err)
	}
	ic.Request = request

	if err = d.fireBefore(ic, interceptor.Interceptor.ReadAfterSerialization); err != nil {
		return nil, err
	}

	if err = d.fireBefore(ic, interceptor.Interceptor.ModifyBeforeRetryLoop); err != nil {
		return nil, err
	}

	output, err = d.retryLoop(ic)

	if hookErr := d.fireBefore(ic, interceptor.Interceptor.ModifyBeforeCompletion); hookErr != nil && err == nil {
		err = hookErr
	}

	return output, err
}

// retryLoop drives successive attempts until one succeeds, fails
// non-retryably, or the retry strategy declines a further attempt.
func (d *Driver) retryLoop(ic *interceptor.Context) (output any, err error) {
	baseRequest := ic.Request

	for attempt := 0; ; attempt++ {
		ic.Request = cloneRequest(baseRequest)

		output, err = d.attempt(ic)
		if err == nil {
			d.cfg.Retry.Release()
			return output, nil
		}

		tok, retryable := d.cfg.Retry.ShouldRetry(attempt, err)
		if !retryable {
			d.cfg.Retry.Release()
			return nil, err
		}

		delay := tok.Delay
		if tok.HasRetryAfter && tok.RetryAfter > delay {
			delay = tok.RetryAfter
		}

		middleware.GetLogger(ic.Ctx).Logf(logging.Debug,
			"retrying %s after attempt %d: %v (delay %s)", d.cfg.Operation.Name, attempt+1, err, delay)

		if delay > 0 {
			select {
			case <-ic.Ctx.Done():
				return nil, ic.Ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}

// cloneRequest returns req unchanged unless it has a Clone method taking no
// arguments and returning one value, such as transport/http.Request.Clone,
// which returns a fresh value sharing the original's stream.
func cloneRequest(req any) any {
	if c, ok := req.(interface{ Clone() any }); ok {
		return c.Clone()
	}
	if req != nil {
		m := reflect.ValueOf(req).MethodByName("Clone")
		if m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
			return m.Call(nil)[0].Interface()
		}
	}
	return req
}

// attempt runs one full pass of auth resolution/signing, transmit, and
// deserialization for the request already stashed on ic.
func (d *Driver) attempt(ic *interceptor.Context) (output any, err error) {
	defer func() {
		ic.Err = err
		if hookErr := d.fireBefore(ic, interceptor.Interceptor.ModifyBeforeAttemptCompletion); hookErr != nil && err == nil {
			err = hookErr
		}
		if hookErr := d.fireAfter(ic, interceptor.Interceptor.ReadAfterAttempt); hookErr != nil && err == nil {
			err = hookErr
		}
	}()

	if err = d.fireBefore(ic, interceptor.Interceptor.ReadBeforeAttempt); err != nil {
		return nil, err
	}

	if err = d.signRequest(ic); err != nil {
		return nil, err
	}

	if err = d.fireBefore(ic, interceptor.Interceptor.ModifyBeforeTransmit); err != nil {
		return nil, err
	}
	if err = d.fireBefore(ic, interceptor.Interceptor.ReadBeforeTransmit); err != nil {
		return nil, err
	}

	response, err := d.cfg.Transport(ic.Ctx, ic.Request)
	if err != nil {
		te := &smithy.TransportError{Err: err}
		if re, ok := err.(smithy.RetryableError); ok {
			te.RetrySafe = re.IsRetrySafe()
			te.RetryAfterS, te.HasRetryHint = re.RetryAfter()
		}
		return nil, te
	}
	ic.Response = response

	if err = d.fireBefore(ic, interceptor.Interceptor.ReadAfterTransmit); err != nil {
		return nil, err
	}

	if err = d.fireBefore(ic, interceptor.Interceptor.ModifyBeforeDeserialization); err != nil {
		return nil, err
	}
	if err = d.fireBefore(ic, interceptor.Interceptor.ReadBeforeDeserialization); err != nil {
		return nil, err
	}

	output, err = d.cfg.Deserialize(ic.Ctx, ic.Response)
	ic.Output = output
	ic.Err = err
	if hookErr := d.fireBefore(ic, interceptor.Interceptor.ReadAfterDeserialization); hookErr != nil && err == nil {
		err = hookErr
	}
	if err != nil {
		return nil, err
	}

	return output, nil
}

// signRequest resolves the operation's auth options against the configured
// resolver, picks the first option with both an identity resolver and a
// signer registered, and signs ic.Request in place.
func (d *Driver) signRequest(ic *interceptor.Context) error {
	if err := d.fireBefore(ic, interceptor.Interceptor.ModifyBeforeSigning); err != nil {
		return err
	}
	if err := d.fireBefore(ic, interceptor.Interceptor.ReadBeforeSigning); err != nil {
		return err
	}

	if d.cfg.AuthResolver != nil {
		opts, err := d.cfg.AuthResolver.ResolveAuthSchemes(ic.Ctx, ic.Input)
		if err != nil {
			return fmt.Errorf("resolve auth scheme for %s: %w", d.cfg.Operation.Name, err)
		}

		signed := false
		for _, opt := range opts {
			resolver := d.cfg.Identities.GetIdentityResolver(opt.SchemeID)
			signer, hasSigner := d.cfg.Signers[opt.SchemeID]
			if resolver == nil || !hasSigner {
				continue
			}

			identity, err := resolver.GetIdentity(ic.Ctx, opt.IdentityProperties)
			if err != nil {
				return &smithy.IdentityResolutionError{SchemeID: opt.SchemeID, Err: err}
			}

			if err := signer.SignRequest(ic.Ctx, ic.Request, identity, opt.SignerProperties); err != nil {
				return fmt.Errorf("sign request for %s: %w", d.cfg.Operation.Name, err)
			}
			signed = true
			break
		}

		if !signed && len(opts) > 0 {
			return fmt.Errorf("no usable auth scheme among %d resolved option(s) for %s", len(opts), d.cfg.Operation.Name)
		}
	}

	return d.fireBefore(ic, interceptor.Interceptor.ReadAfterSigning)
}

// fireBefore runs hook across every configured interceptor in order,
// stopping at the first error.
func (d *Driver) fireBefore(ic *interceptor.Context, hook func(interceptor.Interceptor, *interceptor.Context) error) error {
	for _, i := range d.cfg.Interceptors {
		if err := hook(i, ic); err != nil {
			return err
		}
	}
	return nil
}

// fireAfter runs hook across every configured interceptor in order,
// regardless of ic.Err, collecting (but not stopping on) the first error so
// that every interceptor still observes completion.
func (d *Driver) fireAfter(ic *interceptor.Context, hook func(interceptor.Interceptor, *interceptor.Context) error) error {
	var first error
	for _, i := range d.cfg.Interceptors {
		if err := hook(i, ic); err != nil && first == nil {
			first = err
		}
	}
	return first
}
