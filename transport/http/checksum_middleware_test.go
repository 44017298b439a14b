package http

import (
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	"github.com/smithy-go/runtime/interceptor"
)

func TestChecksumInterceptor(t *testing.T) {
	cases := map[string]struct {
		payload             io.Reader
		expectedMD5Checksum string
	}{
		"empty body": {
			payload:             bytes.NewReader([]byte(``)),
			expectedMD5Checksum: "1B2M2Y8AsgTpgAmY7PhCfg==",
		},
		"standard req body": {
			payload:             bytes.NewReader([]byte(`abc`)),
			expectedMD5Checksum: "kAFQmDzST7DWlj99KOF/cg==",
		},
		"nil body": {},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			req := NewStackRequest().(*Request)

			var err error
			if c.payload != nil {
				req, err = req.SetStream(ioutil.NopCloser(c.payload))
				if err != nil {
					t.Fatalf("error setting request stream")
				}
			}

			ic := &interceptor.Context{Request: req}
			m := &ChecksumInterceptor{}
			if err := m.ModifyBeforeSigning(ic); err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			got := ic.Request.(*Request).Header.Get(contentMD5Header)
			if e, a := c.expectedMD5Checksum, got; e != a {
				t.Errorf("expect md5 checksum : %v, got %v", e, a)
			}
		})
	}
}
