package transport

import "github.com/smithy-go/runtime"

// Endpoint is a Smithy endpoint.
type Endpoint struct {
	URI string

	Fields *FieldSet

	Properties smithy.Properties
}
