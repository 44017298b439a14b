// Package restjson1 implements the aws.protocols#restJson1 client protocol:
// each operation has its own HTTP method and URI pattern, with input/output
// members routed between the URI, query string, headers, and a JSON body by
// their own traits (see the httpbinding package), rather than every
// operation sharing one fixed POST endpoint the way awsJson1_0 does.
package restjson1

import (
	"bytes"
	"context"
	gojson "encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	smithy "github.com/smithy-go/runtime"
	"github.com/smithy-go/runtime/encoding/json"
	"github.com/smithy-go/runtime/httpbinding"
	smithyhttp "github.com/smithy-go/runtime/transport/http"
)

// New returns a protocol instance scoped to one operation, read from op's
// @http trait (method and URI pattern) and its "input" member (the input
// structure schema bound by httpLabel/httpQuery/httpHeader/httpPayload
// traits). The output side needs no such lookup: out.Deserialize itself
// supplies its own schema to the ResponseBindingDeserializer's ReadStruct.
// A generated client constructs one Protocol per operation, since the
// operation's method, URI pattern, and input shape are fixed at generation
// time but the ClientProtocol contract carries no operation identity of its
// own.
func New(op *smithy.Schema) (*Protocol, error) {
	httpTrait, ok := smithy.SchemaTrait[smithy.HTTPTrait](op)
	if !ok {
		return nil, fmt.Errorf("restJson1: operation %s has no http trait", op.ID)
	}

	input, ok := op.MemberByName("input")
	if !ok {
		return nil, fmt.Errorf("restJson1: operation %s has no input member", op.ID)
	}

	path, query, _ := strings.Cut(httpTrait.URI, "?")

	return &Protocol{
		method: httpTrait.Method,
		path:   path,
		query:  query,
		input:  input.ExpectMemberTarget(),
		codec:  json.Codec{},
	}, nil
}

// Protocol implements aws.protocols#restJson1 for a single operation.
type Protocol struct {
	method, path, query string
	input               *smithy.Schema
	codec               smithy.Codec
}

var _ smithy.ClientProtocol[*smithyhttp.Request, *smithyhttp.Response] = (*Protocol)(nil)

// ID identifies the protocol.
func (*Protocol) ID() string { return "aws.protocols#restJson1" }

// SerializeRequest serializes a request for restJson1: the input's members
// are scanned once by httpbinding.RequestBindingSerializer and routed to the
// URI, query string, headers, or a JSON body per their own traits.
func (p *Protocol) SerializeRequest(ctx context.Context, in smithy.Serializable, req *smithyhttp.Request) error {
	req.Method = p.method
	if req.URL == nil {
		req.URL = &url.URL{}
	}

	enc, err := httpbinding.NewEncoder(p.path, p.query, req.Header)
	if err != nil {
		return fmt.Errorf("new http binding encoder: %w", err)
	}

	// in.Serialize opens and closes its own top-level struct scope on ser
	// (the same contract any ShapeSerializer consumer follows), so no
	// separate Close call belongs here.
	ser := httpbinding.NewRequestBindingSerializer(p.input, enc, p.codec)
	in.Serialize(ser)
	if err := ser.Err(); err != nil {
		return fmt.Errorf("bind request: %w", err)
	}

	built, err := enc.Encode(req.Request)
	if err != nil {
		return fmt.Errorf("encode http binding: %w", err)
	}
	req.Request = built

	if stream, ok := ser.Stream(); ok {
		sreq, err := req.SetStream(stream)
		if err != nil {
			return fmt.Errorf("set request stream: %w", err)
		}
		*req = *sreq
		return nil
	}

	body, ok := ser.Body()
	if !ok || len(body) == 0 {
		return nil
	}
	if !enc.HasHeader("Content-Type") {
		req.Header.Set("Content-Type", p.codec.MediaType())
	}

	sreq, err := req.SetStream(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("set request stream: %w", err)
	}
	*req = *sreq
	return nil
}

// DeserializeResponse deserializes a response for restJson1: out's Deserialize
// method drives an httpbinding.ResponseBindingDeserializer with out's own
// output schema, which routes status code, headers, and prefix-headers off
// the response directly and everything else through the JSON body.
func (p *Protocol) DeserializeResponse(ctx context.Context, types *smithy.TypeRegistry, resp *smithyhttp.Response, out smithy.Deserializable) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	dec := httpbinding.NewDecoder(resp.Response)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.deserializeError(types, dec, body)
	}

	if err := out.Deserialize(httpbinding.NewResponseBindingDeserializer(dec, body, p.codec)); err != nil {
		return fmt.Errorf("deserialize response: %w", err)
	}
	return nil
}

// deserializeError resolves the wire error code from the X-Amzn-ErrorType
// header or the body's __type/code field, decodes the body into the
// operation's registered error shape if one matches (through the same
// binding deserializer, so an error shape's own httpHeader/httpPayload
// members are honored), and otherwise falls back to an unmodeled APIError.
func (p *Protocol) deserializeError(types *smithy.TypeRegistry, dec *httpbinding.Decoder, body []byte) error {
	headerCode := dec.Header("X-Amzn-Errortype")

	var info restJSONErrorInfo
	if len(body) > 0 {
		jdec := gojson.NewDecoder(bytes.NewReader(body))
		jdec.UseNumber()
		if err := jdec.Decode(&info); err != nil && err != io.EOF {
			return fmt.Errorf("decode error response body %q: %w", truncate(body, 1024), err)
		}
	}

	errorCode := "UnknownError"
	switch {
	case headerCode.Present():
		errorCode = headerCode.String()
	case len(info.Type) != 0:
		errorCode = info.Type
	case len(info.Code) != 0:
		errorCode = info.Code
	}

	errorMessage := errorCode
	if len(info.Message) != 0 {
		errorMessage = info.Message
	}

	fault := smithy.FaultClient
	if dec.StatusCode() >= 500 {
		fault = smithy.FaultServer
	}

	perr, ok := types.DeserializableError(errorCode)
	if !ok {
		return &smithy.APIError{ShapeName: errorCode, Message: errorMessage, Fault: fault}
	}

	if err := perr.Deserialize(httpbinding.NewResponseBindingDeserializer(dec, body, p.codec)); err != nil {
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

type restJSONErrorInfo struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
