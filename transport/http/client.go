package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"

	"github.com/smithy-go/runtime/pipeline"
)

// ClientDo provides the interface for custom HTTP client implementations.
type ClientDo interface {
	Do(*http.Request) (*http.Response, error)
}

// ClientDoFunc provides a helper to wrap an function as an HTTP client for
// round tripping requests.
type ClientDoFunc func(*http.Request) (*http.Response, error)

// Do will invoke the underlying func, returning the result.
func (fn ClientDoFunc) Do(r *http.Request) (*http.Response, error) {
	return fn(r)
}

// NewTransport adapts client into a pipeline.Transport: it builds the
// standard library request from the Smithy *Request and round trips it.
// pipeline.Driver wraps any error this returns in a *smithy.TransportError,
// so context cancellation/deadline errors remain reachable via errors.Is
// through its Unwrap chain without this layer needing its own error type.
func NewTransport(client ClientDo) pipeline.Transport {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(*Request)
		if !ok {
			return nil, fmt.Errorf("expect *http.Request value as transport input, got unsupported type %T", request)
		}

		resp, err := client.Do(req.Build(ctx))
		if err != nil {
			return nil, err
		}

		return &Response{Response: resp}, nil
	}
}

// WrapLogClient logs the client's HTTP request and response of a round tripped
// request.
func WrapLogClient(logger interface{ Logf(string, ...interface{}) }, client ClientDo, withBody bool) ClientDo {
	return ClientDoFunc(func(r *http.Request) (*http.Response, error) {
		b, err := httputil.DumpRequest(r, withBody)
		logger.Logf("Request\n%v", string(b))

		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}

		b, err = httputil.DumpResponse(resp, withBody)
		if err != nil {
			return nil, fmt.Errorf("failed to dump response %w", err)
		}
		logger.Logf("Response\n%v", string(b))

		return resp, nil
	})
}
