package restjson1

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	smithy "github.com/smithy-go/runtime"
	smithyhttp "github.com/smithy-go/runtime/transport/http"
)

var stringShape = &smithy.Schema{ID: smithy.ParseShapeID("smithy.api#String"), Type: smithy.ShapeTypeString}
var booleanShape = &smithy.Schema{ID: smithy.ParseShapeID("smithy.api#Boolean"), Type: smithy.ShapeTypeBoolean}
var integerShape = &smithy.Schema{ID: smithy.ParseShapeID("smithy.api#Integer"), Type: smithy.ShapeTypeInteger}

var getWidgetInputSchema = smithy.Collection(
	smithy.ParseShapeID("example#GetWidgetInput"),
	smithy.ShapeTypeStructure,
	nil,
	smithy.MemberSpec{Name: "Id", Target: stringShape, Traits: []smithy.Trait{smithy.HTTPLabelTrait{}}},
	smithy.MemberSpec{Name: "Verbose", Target: booleanShape, Traits: []smithy.Trait{smithy.HTTPQueryTrait{Name: "verbose"}}},
	smithy.MemberSpec{Name: "Note", Target: stringShape, Traits: []smithy.Trait{smithy.HTTPHeaderTrait{Name: "X-Note"}}},
	smithy.MemberSpec{Name: "Name", Target: stringShape},
)

var getWidgetOutputSchema = smithy.Collection(
	smithy.ParseShapeID("example#GetWidgetOutput"),
	smithy.ShapeTypeStructure,
	nil,
	smithy.MemberSpec{Name: "Status", Target: integerShape, Traits: []smithy.Trait{smithy.HTTPResponseCodeTrait{}}},
	smithy.MemberSpec{Name: "ETag", Target: stringShape, Traits: []smithy.Trait{smithy.HTTPHeaderTrait{Name: "ETag"}}},
	smithy.MemberSpec{Name: "Name", Target: stringShape},
)

var notFoundErrorSchema = smithy.Collection(
	smithy.ParseShapeID("example#NotFoundError"),
	smithy.ShapeTypeStructure,
	nil,
	smithy.MemberSpec{Name: "Message", Target: stringShape},
)

var getWidgetOperationSchema = smithy.Collection(
	smithy.ParseShapeID("example#GetWidget"),
	smithy.ShapeTypeOperation,
	map[string]smithy.Trait{
		smithy.HTTPTrait{}.TraitID(): smithy.HTTPTrait{Method: http.MethodGet, URI: "/widgets/{Id}", Code: 200},
	},
	smithy.MemberSpec{Name: "input", Target: getWidgetInputSchema},
)

// GetWidgetInput is a hand-written stand-in for what a generator would
// produce for an operation input: a Serialize method that opens the top-level
// struct scope and writes each member through the schema httpbinding routes
// by its traits.
type GetWidgetInput struct {
	Id      string
	Verbose bool
	Note    string
	Name    string
}

func (in *GetWidgetInput) Serialize(s smithy.ShapeSerializer) {
	m := s.BeginStruct(getWidgetInputSchema)
	defer m.Close()

	idSchema, _ := getWidgetInputSchema.MemberByName("Id")
	m.WriteString(idSchema, in.Id)
	verboseSchema, _ := getWidgetInputSchema.MemberByName("Verbose")
	m.WriteBoolean(verboseSchema, in.Verbose)
	noteSchema, _ := getWidgetInputSchema.MemberByName("Note")
	m.WriteString(noteSchema, in.Note)
	nameSchema, _ := getWidgetInputSchema.MemberByName("Name")
	m.WriteString(nameSchema, in.Name)
}

// GetWidgetOutput is the output-side counterpart: Deserialize hands its own
// schema to ReadStruct and switches on the member name of each callback.
type GetWidgetOutput struct {
	Status int32
	ETag   string
	Name   string
}

func (out *GetWidgetOutput) Deserialize(d smithy.ShapeDeserializer) error {
	return d.ReadStruct(getWidgetOutputSchema, func(member *smithy.Schema, md smithy.ShapeDeserializer) error {
		var err error
		switch member.ExpectMemberName() {
		case "Status":
			out.Status, err = md.ReadInteger(member)
		case "ETag":
			out.ETag, err = md.ReadString(member)
		case "Name":
			out.Name, err = md.ReadString(member)
		}
		return err
	})
}

// NotFoundError is a modeled error shape registered in the operation's
// TypeRegistry.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Deserialize(d smithy.ShapeDeserializer) error {
	return d.ReadStruct(notFoundErrorSchema, func(member *smithy.Schema, md smithy.ShapeDeserializer) error {
		if member.ExpectMemberName() == "Message" {
			var err error
			e.Message, err = md.ReadString(member)
			return err
		}
		return nil
	})
}

func newRequest() *smithyhttp.Request {
	r, ok := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	if !ok {
		panic("NewStackRequest did not return *http.Request")
	}
	return r
}

func TestSerializeRequest(t *testing.T) {
	p, err := New(getWidgetOperationSchema)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	req := newRequest()
	in := &GetWidgetInput{Id: "abc/def", Verbose: true, Note: "hello", Name: "widget-1"}

	if err := p.SerializeRequest(context.Background(), in, req); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if req.Method != http.MethodGet {
		t.Errorf("expect GET, got %s", req.Method)
	}
	if got, want := req.URL.RawPath, "/widgets/abc%2Fdef"; got != want {
		t.Errorf("expect path %s, got %s", want, got)
	}
	if got, want := req.URL.Query().Get("verbose"), "true"; got != want {
		t.Errorf("expect verbose=%s, got %s", want, got)
	}
	if got, want := req.Header.Get("X-Note"), "hello"; got != want {
		t.Errorf("expect X-Note=%s, got %s", want, got)
	}
	if got, want := req.Header.Get("Content-Type"), "application/json"; got != want {
		t.Errorf("expect content-type %s, got %s", want, got)
	}

	body, err := io.ReadAll(req.GetStream())
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if got, want := string(body), `{"Name":"widget-1"}`; got != want {
		t.Errorf("expect body %s, got %s", want, got)
	}
}

func TestDeserializeResponseSuccess(t *testing.T) {
	p, err := New(getWidgetOperationSchema)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	resp := &smithyhttp.Response{Response: &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Etag": []string{`"v1"`}},
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"Name":"widget-1"}`))),
	}}

	var out GetWidgetOutput
	if err := p.DeserializeResponse(context.Background(), smithy.NewTypeRegistry(nil), resp, &out); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if out.Status != 200 {
		t.Errorf("expect status 200, got %d", out.Status)
	}
	if out.ETag != `"v1"` {
		t.Errorf(`expect etag "v1", got %s`, out.ETag)
	}
	if out.Name != "widget-1" {
		t.Errorf("expect name widget-1, got %s", out.Name)
	}
}

func TestDeserializeResponseModeledError(t *testing.T) {
	p, err := New(getWidgetOperationSchema)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	types := smithy.NewTypeRegistry(map[string]*smithy.TypeRegistryEntry{
		"example#NotFoundError": smithy.RegistryEntry[NotFoundError](notFoundErrorSchema),
	})

	resp := &smithyhttp.Response{Response: &http.Response{
		StatusCode: 404,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"__type":"example#NotFoundError","Message":"no such widget"}`))),
	}}

	var out GetWidgetOutput
	err = p.DeserializeResponse(context.Background(), types, resp, &out)
	if err == nil {
		t.Fatalf("expect error, got none")
	}

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expect *NotFoundError, got %T (%v)", err, err)
	}
	if nfe.Message != "no such widget" {
		t.Errorf("expect message %q, got %q", "no such widget", nfe.Message)
	}
}

func TestDeserializeResponseUnmodeledError(t *testing.T) {
	p, err := New(getWidgetOperationSchema)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	resp := &smithyhttp.Response{Response: &http.Response{
		StatusCode: 500,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"message":"internal failure"}`))),
	}}

	var out GetWidgetOutput
	err = p.DeserializeResponse(context.Background(), smithy.NewTypeRegistry(nil), resp, &out)
	if err == nil {
		t.Fatalf("expect error, got none")
	}

	var apiErr *smithy.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expect *smithy.APIError, got %T (%v)", err, err)
	}
	if apiErr.Fault != smithy.FaultServer {
		t.Errorf("expect server fault, got %v", apiErr.Fault)
	}
}
