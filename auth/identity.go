package auth

import (
	"context"
	"time"

	"github.com/smithy-go/runtime"
)

// Identity contains information that identifies who the user making the
// request is.
type Identity interface {
	Expiration() time.Time
}

// IdentityResolver defines the interface through which an Identity is
// retrieved.
type IdentityResolver interface {
	GetIdentity(context.Context, smithy.Properties) (Identity, error)
}

// IdentityResolverOptions defines the interface through which an entity can be
// queried to retrieve an IdentityResolver for a given auth scheme.
type IdentityResolverOptions interface {
	GetIdentityResolver(schemeID string) IdentityResolver
}

// AnonymousIdentity is the identity resolved for the smithy.api#noAuth
// scheme. It carries no credentials and never expires.
type AnonymousIdentity struct{}

// Expiration always returns the zero time.
func (AnonymousIdentity) Expiration() time.Time { return time.Time{} }

var _ Identity = AnonymousIdentity{}

// AnonymousIdentityResolver resolves an AnonymousIdentity unconditionally.
type AnonymousIdentityResolver struct{}

// GetIdentity returns an AnonymousIdentity.
func (AnonymousIdentityResolver) GetIdentity(context.Context, smithy.Properties) (Identity, error) {
	return AnonymousIdentity{}, nil
}

var _ IdentityResolver = AnonymousIdentityResolver{}
