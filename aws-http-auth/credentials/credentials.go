// Package credentials holds the static credential value consumed by the
// v4 signer. Resolving these values (env vars, profile files, STS
// AssumeRole, container/instance metadata, ...) is out of scope for the
// signer itself; callers supply a resolved Credentials value per signing
// call.
package credentials

import (
	"time"

	"github.com/smithy-go/runtime/auth"
)

// Credentials is a resolved set of AWS SigV4 credentials.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Expires is the time after which the credentials are no longer valid,
	// the zero value if the credentials do not expire.
	Expires time.Time
}

// Expired reports whether the credentials have an expiry and it has passed.
func (c Credentials) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

// Identity adapts Credentials to satisfy auth.Identity, so a resolved
// credential set can flow through the pipeline's identity-resolution hook
// like any other auth scheme's identity.
type Identity struct {
	Credentials
}

// Expiration returns the wrapped credentials' Expires time.
func (i Identity) Expiration() time.Time { return i.Expires }

var _ auth.Identity = Identity{}
