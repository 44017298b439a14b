package v4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

func hmacSum(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// DeriveSigningKey runs the SigV4 kDate -> kRegion -> kService -> kSigning
// HMAC-SHA256 chain over the secret access key, producing the signing key
// used to sign a single day/region/service's requests.
func DeriveSigningKey(secret, date, region, service string) []byte {
	kDate := hmacSum([]byte("AWS4"+secret), []byte(date))
	kRegion := hmacSum(kDate, []byte(region))
	kService := hmacSum(kRegion, []byte(service))
	return hmacSum(kService, []byte("aws4_request"))
}

// HMACHex signs data with key and hex-encodes the result, the final step
// producing the Signature= value for the Authorization header.
func HMACHex(key []byte, data string) string {
	return hex.EncodeToString(hmacSum(key, []byte(data)))
}
