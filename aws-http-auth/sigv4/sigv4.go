// Package sigv4 implements AWS Signature Version 4 request signing.
package sigv4

import (
	"fmt"
	"net/http"
	"time"

	"github.com/smithy-go/runtime/aws-http-auth/credentials"
	v4internal "github.com/smithy-go/runtime/aws-http-auth/internal/v4"
	v4 "github.com/smithy-go/runtime/aws-http-auth/v4"
)

// Signer signs HTTP requests with AWS Signature Version 4.
type Signer struct {
	options v4.SignerOptions
}

// New creates a Signer, applying any given options on top of the defaults.
func New(opts ...v4.SignerOption) *Signer {
	s := &Signer{}
	for _, opt := range opts {
		opt(&s.options)
	}
	return s
}

// SignRequestInput is the input to SignRequest.
type SignRequestInput struct {
	// Request is the HTTP request to sign, modified in place.
	Request *http.Request

	// Credentials are the AWS credentials to sign with.
	Credentials credentials.Credentials

	// Service is the signing name of the service being called.
	Service string
	// Region is the signing region.
	Region string

	// Time is the signing time. The zero value signs with time.Now().
	Time time.Time

	// PayloadHash, if set, overrides the automatic payload hash resolution
	// (computed from a seekable body, or the UNSIGNED-PAYLOAD sentinel
	// otherwise).
	PayloadHash []byte
}

// SignRequest signs in.Request in place, setting the Authorization,
// X-Amz-Date, and (if applicable) X-Amz-Security-Token headers.
func (s *Signer) SignRequest(in *SignRequestInput) error {
	if in.Request == nil {
		return fmt.Errorf("sigv4: request must not be nil")
	}

	signingTime := v4internal.ResolveTime(in.Time)
	credentialScope := buildCredentialScope(signingTime, in.Region, in.Service)

	signer := &v4internal.Signer{
		Request:         in.Request,
		PayloadHash:     in.PayloadHash,
		Time:            signingTime,
		Credentials:     in.Credentials,
		Options:         s.options,
		Algorithm:       "AWS4-HMAC-SHA256",
		CredentialScope: credentialScope,
		Finalizer: &keyFinalizer{
			secret:  in.Credentials.SecretAccessKey,
			date:    signingTime.Format(v4internal.ShortTimeFormat),
			region:  in.Region,
			service: in.Service,
		},
	}

	return signer.Do()
}

func buildCredentialScope(t time.Time, region, service string) string {
	return fmt.Sprintf("%s/%s/%s/aws4_request", t.Format(v4internal.ShortTimeFormat), region, service)
}

// keyFinalizer derives the SigV4 signing key via the kDate -> kRegion ->
// kService -> kSigning HMAC chain and uses it to sign the string-to-sign.
type keyFinalizer struct {
	secret  string
	date    string
	region  string
	service string
}

func (f *keyFinalizer) SignString(stringToSign string) (string, error) {
	key := v4internal.DeriveSigningKey(f.secret, f.date, f.region, f.service)
	return v4internal.HMACHex(key, stringToSign), nil
}
