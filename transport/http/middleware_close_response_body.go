package http

import (
	"fmt"

	"github.com/smithy-go/runtime/interceptor"
)

// CloseResponseBodyInterceptor closes the transport response body once
// deserialization has run. If the attempt ended in error, the body is
// closed without checking the error the close itself returns, since a
// close failure on an already-failed attempt carries no new information.
type CloseResponseBodyInterceptor struct {
	interceptor.NoOpInterceptor
}

var _ interceptor.Interceptor = (*CloseResponseBodyInterceptor)(nil)

// ReadAfterDeserialization fires once per attempt after deserialization,
// whether or not it succeeded.
func (*CloseResponseBodyInterceptor) ReadAfterDeserialization(ic *interceptor.Context) error {
	resp, ok := ic.Response.(*Response)
	if !ok || resp == nil || resp.Body == nil {
		return nil
	}

	if ic.Err != nil {
		resp.Body.Close()
		return nil
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body failed, %w", err)
	}
	return nil
}
