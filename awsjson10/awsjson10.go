// Package awsjson10 implements the aws.protocols#awsJson1_0 client protocol:
// every operation is a POST of a single JSON document to the service root,
// dispatched by an X-Amz-Target header instead of a distinct URI per
// operation.
package awsjson10

import (
	"bytes"
	"context"
	gojson "encoding/json"
	"fmt"
	"io"
	"net/http"

	smithy "github.com/smithy-go/runtime"
	"github.com/smithy-go/runtime/encoding/json"
	smithyhttp "github.com/smithy-go/runtime/transport/http"
)

// New returns a protocol instance scoped to one operation's fully qualified
// target, e.g. "DynamoDB_20120810.GetItem". A generated client constructs one
// Protocol per operation, since the target is fixed per operation but the
// ClientProtocol contract carries no operation identity of its own.
func New(target string) *Protocol {
	return &Protocol{target: target, codec: json.Codec{}}
}

// Protocol implements aws.protocols#awsJson1_0.
type Protocol struct {
	// UseQueryCompatible sets the X-Amzn-Query-Compatible request header and
	// prefers the X-Amzn-ErrorType response header over the body's __type
	// field when resolving an error shape, for services migrated from an
	// AWS query protocol that still serve an EC2/query-style SDK alongside
	// this one.
	UseQueryCompatible bool

	target string
	codec  smithy.Codec
}

var _ smithy.ClientProtocol[*smithyhttp.Request, *smithyhttp.Response] = (*Protocol)(nil)

// ID identifies the protocol.
func (*Protocol) ID() string { return "aws.protocols#awsJson1_0" }

// SerializeRequest serializes a request for AWS Json 1.0.
func (p *Protocol) SerializeRequest(ctx context.Context, in smithy.Serializable, req *smithyhttp.Request) error {
	req.Method = http.MethodPost
	req.Header.Set("X-Amz-Target", p.target)
	req.Header.Set("Content-Type", "application/x-amz-json-1.0")
	if p.UseQueryCompatible {
		req.Header.Set("X-Amzn-Query-Compatible", "true")
	}

	var buf bytes.Buffer
	in.Serialize(p.codec.CreateSerializer(&buf))

	sreq, err := req.SetStream(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("set request stream: %w", err)
	}
	*req = *sreq
	return nil
}

// DeserializeResponse deserializes a response for AWS Json 1.0.
func (p *Protocol) DeserializeResponse(ctx context.Context, types *smithy.TypeRegistry, resp *smithyhttp.Response, out smithy.Deserializable) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.deserializeError(types, resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}

	if err := out.Deserialize(p.codec.CreateDeserializer(payload)); err != nil {
		return fmt.Errorf("deserialize response: %w", err)
	}
	return nil
}

// deserializeError resolves the wire error code from the X-Amzn-ErrorType
// header (query-compatible services) or the body's __type/code field,
// decodes the body into the operation's registered error shape if one
// matches, and otherwise falls back to an unmodeled APIError.
func (p *Protocol) deserializeError(types *smithy.TypeRegistry, resp *smithyhttp.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error response body: %w", err)
	}

	var headerCode string
	if p.UseQueryCompatible {
		headerCode = resp.Header.Get("X-Amzn-ErrorType")
	}

	dec := gojson.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	info, err := getProtocolErrorInfo(dec)
	if err != nil {
		return fmt.Errorf("decode error response body %q: %w", truncate(body, 1024), err)
	}

	errorCode := "UnknownError"
	if typ, ok := resolveProtocolErrorType(headerCode, info); ok {
		errorCode = typ
	}
	errorMessage := errorCode
	if len(info.Message) != 0 {
		errorMessage = info.Message
	}

	fault := smithy.FaultClient
	if resp.StatusCode >= 500 {
		fault = smithy.FaultServer
	}

	perr, ok := types.DeserializableError(errorCode)
	if !ok {
		return &smithy.APIError{ShapeName: errorCode, Message: errorMessage, Fault: fault}
	}

	if err := perr.Deserialize(p.codec.CreateDeserializer(body)); err != nil {
		return fmt.Errorf("deserialize %s error body: %w", errorCode, err)
	}
	return perr
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

type protocolErrorInfo struct {
	Type    string `json:"__type"`
	Message string

	// Code is nonstandard, but some AWS services present the error type here
	// instead of __type.
	Code any
}

func getProtocolErrorInfo(dec *gojson.Decoder) (protocolErrorInfo, error) {
	var info protocolErrorInfo
	if err := dec.Decode(&info); err != nil && err != io.EOF {
		return info, err
	}
	return info, nil
}

func resolveProtocolErrorType(headerType string, info protocolErrorInfo) (string, bool) {
	switch {
	case len(headerType) != 0:
		return headerType, true
	case len(info.Type) != 0:
		return info.Type, true
	default:
		if code, ok := info.Code.(string); ok && len(code) != 0 {
			return code, true
		}
		return "", false
	}
}
