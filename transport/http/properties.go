package http

import smithy "github.com/smithy-go/runtime"

// Properties keys a non-string key by its dynamic type, so these keys are
// distinct strings.
const (
	sigV4SigningNameKey       = "transport/http#sigV4SigningName"
	sigV4SigningRegionKey     = "transport/http#sigV4SigningRegion"
	sigV4IsUnsignedPayloadKey = "transport/http#sigV4IsUnsignedPayload"
)

// GetSigV4SigningName gets the signing name from Properties.
func GetSigV4SigningName(p *smithy.Properties) (string, bool) {
	v, ok := p.Get(sigV4SigningNameKey).(string)
	return v, ok
}

// SetSigV4SigningName sets the signing name on Properties.
func SetSigV4SigningName(p *smithy.Properties, name string) {
	p.Set(sigV4SigningNameKey, name)
}

// GetSigV4SigningRegion gets the signing region from Properties.
func GetSigV4SigningRegion(p *smithy.Properties) (string, bool) {
	v, ok := p.Get(sigV4SigningRegionKey).(string)
	return v, ok
}

// SetSigV4SigningRegion sets the signing region on Properties.
func SetSigV4SigningRegion(p *smithy.Properties, region string) {
	p.Set(sigV4SigningRegionKey, region)
}

// GetSigV4IsUnsignedPayload gets whether the payload is unsigned from Properties.
func GetSigV4IsUnsignedPayload(p *smithy.Properties) (bool, bool) {
	v, ok := p.Get(sigV4IsUnsignedPayloadKey).(bool)
	return v, ok
}

// SetSigV4IsUnsignedPayload sets whether the payload is unsigned on Properties.
func SetSigV4IsUnsignedPayload(p *smithy.Properties, isUnsignedPayload bool) {
	p.Set(sigV4IsUnsignedPayloadKey, isUnsignedPayload)
}
