// Package requestcompression implements runtime support for smithy-modeled
// request compression.
//
// This package is designated as private and is intended for use only by the
// smithy client runtime. The exported API therein is not considered stable and
// is subject to breaking changes without notice.
package requestcompression

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/smithy-go/runtime/interceptor"
	"github.com/smithy-go/runtime/transport/http"
)

const maxRequestMinCompressSizeBytes = 10485760

// Enumeration values for supported compress Algorithms.
const (
	GZIP = "gzip"
)

type compressFunc func(io.Reader) ([]byte, error)

var allowedAlgorithms = map[string]compressFunc{
	GZIP: gzipCompress,
}

// Interceptor gzip-compresses the request stream, when enabled and the
// stream's determinable length meets the configured minimum.
type Interceptor struct {
	interceptor.NoOpInterceptor

	DisableRequestCompression   bool
	RequestMinCompressSizeBytes int64
	Algorithms                  []string
}

// New builds an Interceptor from a comma-separated algorithms list, matching
// the shape smithy-modeled client config fields carry.
func New(disableRequestCompression bool, requestMinCompressSizeBytes int64, algorithms string) *Interceptor {
	return &Interceptor{
		DisableRequestCompression:   disableRequestCompression,
		RequestMinCompressSizeBytes: requestMinCompressSizeBytes,
		Algorithms:                  strings.Split(algorithms, ","),
	}
}

var _ interceptor.Interceptor = (*Interceptor)(nil)

// ModifyBeforeSigning compresses the request body before the request is
// signed, so checksum and content-length interceptors firing afterward see
// the compressed bytes and the signature covers what's actually sent.
func (m *Interceptor) ModifyBeforeSigning(ic *interceptor.Context) error {
	if m.DisableRequestCompression {
		return nil
	}
	// still need to check RequestMinCompressSizeBytes in case it is out of range after service client config
	if m.RequestMinCompressSizeBytes < 0 || m.RequestMinCompressSizeBytes > maxRequestMinCompressSizeBytes {
		return fmt.Errorf("invalid range for min request compression size bytes %d, must be within 0 and 10485760 inclusively", m.RequestMinCompressSizeBytes)
	}

	req, ok := ic.Request.(*http.Request)
	if !ok {
		return fmt.Errorf("request compression interceptor: unknown request type %T", ic.Request)
	}

	for _, algorithm := range m.Algorithms {
		compressFunc := allowedAlgorithms[algorithm]
		if compressFunc == nil {
			continue
		}

		stream := req.GetStream()
		if stream == nil {
			return nil
		}

		size, found, err := req.StreamLength()
		if err != nil {
			return fmt.Errorf("error while finding request stream length, %v", err)
		} else if !found || size < m.RequestMinCompressSizeBytes {
			return nil
		}

		compressedBytes, err := compressFunc(stream)
		if err != nil {
			return fmt.Errorf("failed to compress request stream, %v", err)
		}

		newReq, err := req.SetStream(bytes.NewReader(compressedBytes))
		if err != nil {
			return fmt.Errorf("failed to set request stream, %v", err)
		}
		*req = *newReq
		req.Header.Add("Content-Encoding", algorithm)
		ic.Request = req
		return nil
	}

	return nil
}

func gzipCompress(input io.Reader) ([]byte, error) {
	var b bytes.Buffer
	w, err := gzip.NewWriterLevel(&b, gzip.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer, %v", err)
	}

	inBytes, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed read payload to compress, %v", err)
	}

	if _, err = w.Write(inBytes); err != nil {
		return nil, fmt.Errorf("failed to write payload to be compressed, %v", err)
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush payload being compressed, %v", err)
	}

	return b.Bytes(), nil
}
