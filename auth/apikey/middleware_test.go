package apikey

import (
	"context"
	"net/url"
	"testing"

	smithy "github.com/smithy-go/runtime"
	smithyhttp "github.com/smithy-go/runtime/transport/http"
)

func TestSignerHeader(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL, _ = url.Parse("https://example.aws")

	var props smithy.Properties
	smithy.SetProperty(&props, AuthDefinitionProperty, HttpApiKeyAuthDefinition{
		In:     "header",
		Name:   "Authorization",
		Scheme: "Apikey",
	})

	signer := Signer{}
	if err := signer.SignRequest(context.Background(), req, Identity{APIKey: "abc123"}, props); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if e, a := "Apikey abc123", req.Header.Get("Authorization"); e != a {
		t.Errorf("expect %q, got %q", e, a)
	}
}

func TestSignerQuery(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL, _ = url.Parse("https://example.aws")

	var props smithy.Properties
	smithy.SetProperty(&props, AuthDefinitionProperty, HttpApiKeyAuthDefinition{
		In:   "query",
		Name: "api_key",
	})

	signer := Signer{}
	if err := signer.SignRequest(context.Background(), req, Identity{APIKey: "abc123"}, props); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if e, a := "abc123", req.URL.Query().Get("api_key"); e != a {
		t.Errorf("expect %q, got %q", e, a)
	}
}

func TestSignerWrongRequestType(t *testing.T) {
	var props smithy.Properties
	smithy.SetProperty(&props, AuthDefinitionProperty, HttpApiKeyAuthDefinition{In: "header", Name: "Authorization"})

	signer := Signer{}
	err := signer.SignRequest(context.Background(), struct{}{}, Identity{APIKey: "abc123"}, props)
	if err == nil {
		t.Fatalf("expect error, got none")
	}
}
