package apikey

import (
	"context"
	"fmt"
	"time"

	smithy "github.com/smithy-go/runtime"
	"github.com/smithy-go/runtime/auth"
	"github.com/smithy-go/runtime/pipeline"
	smithyhttp "github.com/smithy-go/runtime/transport/http"
)

// Identity carries a retrieved api key value through the pipeline's
// identity-resolution hook. Static keys never expire.
type Identity struct {
	APIKey string
}

// Expiration implements auth.Identity.
func (Identity) Expiration() time.Time { return time.Time{} }

var _ auth.Identity = Identity{}

// IdentityResolver adapts an ApiKeyProvider into an auth.IdentityResolver.
type IdentityResolver struct {
	Provider ApiKeyProvider
}

// GetIdentity retrieves the api key and wraps it as an Identity.
func (r IdentityResolver) GetIdentity(ctx context.Context, _ smithy.Properties) (auth.Identity, error) {
	apiKey, err := r.Provider.RetrieveApiKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve api key: %w", err)
	}
	return Identity{APIKey: apiKey}, nil
}

var _ auth.IdentityResolver = IdentityResolver{}

// AuthDefinitionProperty is the signer property key an auth.Option's
// SignerProperties carries the scheme's HttpApiKeyAuthDefinition under, so
// Signer knows where to place the key without a second model lookup.
var AuthDefinitionProperty = smithy.NewPropertyKey[HttpApiKeyAuthDefinition]("apikey-auth-definition")

// Signer implements pipeline.Signer for the httpApiKeyAuth trait: it places
// the resolved api key in the header or query parameter named by the
// scheme's auth definition.
type Signer struct{}

// SignRequest decorates request (a *transport/http.Request) with the
// identity's api key, per the auth definition carried in props.
func (Signer) SignRequest(ctx context.Context, request any, identity auth.Identity, props smithy.Properties) error {
	req, ok := request.(*smithyhttp.Request)
	if !ok {
		return fmt.Errorf("apikey signer: expect smithy-go HTTP Request, got %T", request)
	}

	apiKeyIdentity, ok := identity.(Identity)
	if !ok {
		return fmt.Errorf("apikey signer: expect apikey.Identity, got %T", identity)
	}

	def, ok := smithy.GetProperty(&props, AuthDefinitionProperty)
	if !ok {
		return fmt.Errorf("apikey signer: missing auth definition in signer properties")
	}
	if def.In != "header" && def.In != "query" {
		return fmt.Errorf("apikey signer: invalid auth definition location %q", def.In)
	}

	switch def.In {
	case "header":
		value := apiKeyIdentity.APIKey
		if len(def.Scheme) != 0 {
			value = def.Scheme + " " + value
		}
		req.Header.Set(def.Name, value)
	case "query":
		values := req.URL.Query()
		values.Set(def.Name, apiKeyIdentity.APIKey)
		req.URL.RawQuery = values.Encode()
	}

	return nil
}

var _ pipeline.Signer = Signer{}
