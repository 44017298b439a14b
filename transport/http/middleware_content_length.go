package http

import (
	"fmt"
	"strconv"

	"github.com/smithy-go/runtime/interceptor"
)

// ContentLengthInterceptor sets the Content-Length header for the length of
// a serialized request body, when the stream's length can be determined.
type ContentLengthInterceptor struct {
	interceptor.NoOpInterceptor
}

var _ interceptor.Interceptor = (*ContentLengthInterceptor)(nil)

// ModifyBeforeSigning sets Content-Length before the request is signed, so
// the signature covers the header this interceptor sets.
func (*ContentLengthInterceptor) ModifyBeforeSigning(ic *interceptor.Context) error {
	req, ok := ic.Request.(*Request)
	if !ok {
		return fmt.Errorf("content-length interceptor: unsupported request type %T", ic.Request)
	}

	if vs := req.Header.Values("Content-Length"); len(vs) != 0 {
		return nil
	}

	if n, ok, err := req.StreamLength(); err != nil {
		return fmt.Errorf("failed getting length of request stream, %w", err)
	} else if ok {
		req.Header.Set("Content-Length", strconv.FormatInt(n, 10))
	}

	return nil
}
