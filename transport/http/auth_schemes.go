package http

import (
	"context"
	"fmt"
	"time"

	smithy "github.com/smithy-go/runtime"
	"github.com/smithy-go/runtime/auth"
	"github.com/smithy-go/runtime/aws-http-auth/credentials"
	"github.com/smithy-go/runtime/aws-http-auth/sigv4"
	v4 "github.com/smithy-go/runtime/aws-http-auth/v4"
	"github.com/smithy-go/runtime/pipeline"
)

// Scheme IDs identify the auth schemes an operation's @auth trait may select
// among. An AuthResolver returns these in an *auth.Option's SchemeID, and a
// pipeline.Config's Signers map looks up the matching pipeline.Signer by the
// same string.
const (
	// SchemeIDSigV4 identifies the SigV4 auth scheme.
	SchemeIDSigV4 = "aws.auth#sigv4"

	// SchemeIDBearer identifies the HTTP Bearer auth scheme.
	SchemeIDBearer = "smithy.api#httpBearerAuth"

	// SchemeIDAnonymous identifies the anonymous or "no-auth" scheme.
	SchemeIDAnonymous = "smithy.api#noAuth"
)

// SigV4Signer implements pipeline.Signer for the aws.auth#sigv4 scheme,
// signing the request in place with the resolved credentials.Identity. The
// signing name, region, and unsigned-payload choice come from the
// auth.Option's SignerProperties, set via NewSigV4Option.
type SigV4Signer struct {
	Signer *sigv4.Signer
}

// SignRequest signs request (a *Request) with identity's credentials.
func (s SigV4Signer) SignRequest(ctx context.Context, request any, identity auth.Identity, props smithy.Properties) error {
	req, ok := request.(*Request)
	if !ok {
		return fmt.Errorf("sigv4 signer: expect transport/http.Request, got %T", request)
	}

	creds, ok := identity.(credentials.Identity)
	if !ok {
		return fmt.Errorf("sigv4 signer: expect credentials.Identity, got %T", identity)
	}

	name, _ := GetSigV4SigningName(&props)
	region, _ := GetSigV4SigningRegion(&props)

	var payloadHash []byte
	if unsigned, _ := GetSigV4IsUnsignedPayload(&props); unsigned {
		payloadHash = []byte(v4.UnsignedPayload)
	}

	return s.Signer.SignRequest(&sigv4.SignRequestInput{
		Request:     req.Request,
		Credentials: creds.Credentials,
		Service:     name,
		Region:      region,
		PayloadHash: payloadHash,
	})
}

var _ pipeline.Signer = SigV4Signer{}

// BearerIdentity carries a resolved bearer token through the pipeline's
// identity-resolution hook.
type BearerIdentity struct {
	Token string
}

// Expiration always returns the zero time; bearer tokens in this scheme
// carry no expiry of their own.
func (BearerIdentity) Expiration() time.Time { return time.Time{} }

var _ auth.Identity = BearerIdentity{}

// BearerSigner implements pipeline.Signer for the smithy.api#httpBearerAuth
// scheme, per RFC 6750: it sets the Authorization header to "Bearer <token>".
type BearerSigner struct{}

// SignRequest sets request's (a *Request) Authorization header.
func (BearerSigner) SignRequest(ctx context.Context, request any, identity auth.Identity, _ smithy.Properties) error {
	req, ok := request.(*Request)
	if !ok {
		return fmt.Errorf("bearer signer: expect transport/http.Request, got %T", request)
	}

	bearer, ok := identity.(BearerIdentity)
	if !ok {
		return fmt.Errorf("bearer signer: expect BearerIdentity, got %T", identity)
	}

	req.Header.Set("Authorization", "Bearer "+bearer.Token)
	return nil
}

var _ pipeline.Signer = BearerSigner{}

// AnonymousSigner implements pipeline.Signer for the smithy.api#noAuth
// scheme: it leaves the request unmodified.
type AnonymousSigner struct{}

// SignRequest is a no-op.
func (AnonymousSigner) SignRequest(context.Context, any, auth.Identity, smithy.Properties) error {
	return nil
}

var _ pipeline.Signer = AnonymousSigner{}
