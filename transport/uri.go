package transport

import (
	"fmt"
	"strings"

	internaluri "github.com/smithy-go/runtime/internal/uri"
)

// Userinfo carries the optional userinfo subcomponent of a URI authority.
type Userinfo struct {
	Username    string
	Password    string
	HasPassword bool
}

// URI is a parsed representation of a request/endpoint URI, broken into its
// RFC 3986 components so the HTTP binding layer and the SigV4 signer can
// manipulate the path, query, and host independently without re-parsing a
// string on every access.
type URI struct {
	Scheme   string
	Userinfo *Userinfo
	Host     string
	Port     string
	Path     string
	Query    []QueryParam
	Fragment string
}

// QueryParam is a single, ordered query string key/value pair. Order is
// preserved because some protocols (and SigV4's canonical query string) are
// sensitive to it.
type QueryParam struct {
	Key   string
	Value string
}

// NewURI returns a URI with no components set beyond the host.
func NewURI(host string) *URI {
	return &URI{Host: host}
}

// netloc renders the authority component (userinfo@host:port), bracketing an
// IPv6 host literal per RFC 3986 §3.2.2.
func (u *URI) netloc() string {
	var b strings.Builder
	if u.Userinfo != nil {
		b.WriteString(u.Userinfo.Username)
		if u.Userinfo.HasPassword {
			b.WriteByte(':')
			b.WriteString(u.Userinfo.Password)
		}
		b.WriteByte('@')
	}

	host := u.Host
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		host = "[" + host + "]"
	}
	b.WriteString(host)

	if u.Port != "" {
		b.WriteByte(':')
		b.WriteString(u.Port)
	}
	return b.String()
}

// RawQuery renders the query component in key=value&key=value form, in
// declared order, without a leading '?'.
func (u *URI) RawQuery() string {
	parts := make([]string, len(u.Query))
	for i, q := range u.Query {
		if q.Value == "" {
			parts[i] = q.Key
		} else {
			parts[i] = q.Key + "=" + q.Value
		}
	}
	return strings.Join(parts, "&")
}

// Build renders the full URI string.
func (u *URI) Build() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	b.WriteString(u.netloc())
	b.WriteString(u.Path)
	if q := u.RawQuery(); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// Validate checks the URI's host and, if set, port against RFC 3986.
func (u *URI) Validate() error {
	host := u.Host
	if u.Port != "" && !internaluri.ValidPortNumber(u.Port) {
		return fmt.Errorf("invalid port %q", u.Port)
	}
	if host == "" {
		return fmt.Errorf("uri: host must not be empty")
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" {
			continue // permit a trailing dot / leading wildcard label
		}
		if !internaluri.ValidHostLabel(label) && !strings.Contains(label, ":") {
			// an IPv6 literal segment contains ':' and is validated
			// separately by the caller binding @hostLabel; a dotted
			// decimal/hex label otherwise must be a valid host label.
			return fmt.Errorf("invalid host label %q", label)
		}
	}
	return nil
}

// Equal reports whether two URIs render to the same string with Build; two
// nil URIs are equal.
func (u *URI) Equal(o *URI) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.Build() == o.Build()
}
