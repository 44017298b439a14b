package http

import (
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/smithy-go/runtime/interceptor"
)

const contentMD5Header = "Content-Md5"

// ChecksumInterceptor computes and sets the Content-MD5 header required by
// operations modeled with the httpChecksumRequired trait, unless the header
// has already been set by the caller or a protocol-specific checksum step.
type ChecksumInterceptor struct {
	interceptor.NoOpInterceptor
}

var _ interceptor.Interceptor = (*ChecksumInterceptor)(nil)

// ModifyBeforeSigning computes the request body's MD5 digest before the
// request is signed, so the signature covers the header this interceptor
// sets.
func (*ChecksumInterceptor) ModifyBeforeSigning(ic *interceptor.Context) error {
	req, ok := ic.Request.(*Request)
	if !ok {
		return fmt.Errorf("checksum interceptor: unsupported request type %T", ic.Request)
	}

	if v := req.Header.Get(contentMD5Header); len(v) != 0 {
		return nil
	}

	stream := req.GetStream()
	if stream == nil {
		return nil
	}

	sum, err := computeMD5Checksum(stream)
	if err != nil {
		return fmt.Errorf("compute md5 checksum: %w", err)
	}
	if err := req.RewindStream(); err != nil {
		return fmt.Errorf("rewind stream after checksum: %w", err)
	}

	req.Header.Set("Content-MD5", sum)
	return nil
}

func computeMD5Checksum(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
