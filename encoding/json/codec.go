// Package json implements a Smithy Codec over JSON, the wire format used by
// awsJson1_0, awsJson1_1, restJson1, and the JSON document body of any
// HTTP-bound protocol that routes an implicit member set through a body.
package json

import (
	"io"

	"github.com/smithy-go/runtime"
)

// Codec is the JSON smithy.Codec.
type Codec struct{}

var _ smithy.Codec = (*Codec)(nil)

// MediaType returns the codec's IANA media type.
func (Codec) MediaType() string { return "application/json" }

// CreateSerializer returns a ShapeSerializer writing JSON into sink.
func (Codec) CreateSerializer(sink io.Writer) smithy.ShapeSerializer {
	return &ShapeSerializer{enc: NewEncoder(sink)}
}

// CreateDeserializer returns a ShapeDeserializer reading JSON from source.
func (Codec) CreateDeserializer(source []byte) smithy.ShapeDeserializer {
	return newShapeDeserializer(source)
}
