// Package eventsigner implements the chained SigV4 signing scheme used to
// authenticate each frame of an event stream after the initial HTTP request
// has been signed.
//
// Unlike a single request signature, each event's string-to-sign embeds the
// signature of the event before it (or the initiating HTTP request's
// signature, for the first event), forming a hash chain that lets a server
// detect truncation or reordering of the stream.
package eventsigner

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/smithy-go/runtime/aws-http-auth/credentials"
	v4internal "github.com/smithy-go/runtime/aws-http-auth/internal/v4"
	"github.com/smithy-go/runtime/transport/eventstream"
)

// Signer signs successive event-stream frames, serializing access to its
// chain state so concurrent writers on the same stream never interleave
// signatures out of order.
type Signer struct {
	mu sync.Mutex

	credentials     credentials.Credentials
	region, service string
	date            string
	credentialScope string

	priorSignature string // hex, chain head
}

// New creates an event-stream Signer. requestSignature is the hex signature
// produced by signing the initiating HTTP request; it seeds the chain as
// event 0's prior signature.
func New(creds credentials.Credentials, region, service string, signingTime time.Time, requestSignature string) *Signer {
	date := signingTime.Format(v4internal.ShortTimeFormat)
	return &Signer{
		credentials:     creds,
		region:          region,
		service:         service,
		date:            date,
		credentialScope: fmt.Sprintf("%s/%s/%s/aws4_request", date, region, service),
		priorSignature:  requestSignature,
	}
}

// SignEvent computes the signature for the next frame in the chain given its
// modeled-headers-free payload bytes (the caller is responsible for
// assembling the full event-stream frame; SignEvent only produces the
// `:chunk-signature` value and advances the chain). It must be called once
// per event, strictly in wire order.
//
// signing_properties.date advances to t on every call, per §4.6.1, so a
// stream that outlives midnight UTC still derives each event's signing key
// against its own day rather than the day the stream opened on.
func (s *Signer) SignEvent(payload []byte, t time.Time) (signature string, dateHeader time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := t.UTC().Format(v4internal.ShortTimeFormat)
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", date, s.region, s.service)

	headerHash, err := s.dateHeaderHash(t)
	if err != nil {
		return "", time.Time{}, err
	}
	stringToSign := buildStringToSign(t, credentialScope, s.priorSignature, headerHash, payload)

	key := v4internal.DeriveSigningKey(s.credentials.SecretAccessKey, date, s.region, s.service)
	sig := v4internal.HMACHex(key, stringToSign)

	s.date = date
	s.credentialScope = credentialScope
	s.priorSignature = sig
	return sig, t, nil
}

// dateHeaderHash returns the SHA-256 digest of the wire encoding of the
// single `:date` header every event frame carries, per §4.6.2-3: the
// string-to-sign's headers component hashes the encoded headers frame, not
// an empty one.
func (s *Signer) dateHeaderHash(t time.Time) ([]byte, error) {
	var millis [8]byte
	binary.BigEndian.PutUint64(millis[:], uint64(t.UnixMilli()))

	encoded, err := eventstream.EncodeHeaders([]eventstream.Header{
		{Name: ":date", Type: eventstream.HeaderTypeTimestamp, Value: millis[:]},
	})
	if err != nil {
		return nil, fmt.Errorf("encode :date header: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return sum[:], nil
}

func buildStringToSign(t time.Time, credentialScope, priorSignature string, headerHash, payload []byte) string {
	payloadHash := sha256.Sum256(payload)

	return "AWS4-HMAC-SHA256-PAYLOAD\n" +
		t.UTC().Format(v4internal.TimeFormat) + "\n" +
		credentialScope + "\n" +
		priorSignature + "\n" +
		hex.EncodeToString(headerHash) + "\n" +
		hex.EncodeToString(payloadHash[:])
}

// PriorSignature returns the current chain head, the signature the next
// event will reference as its prior signature.
func (s *Signer) PriorSignature() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.priorSignature
}
