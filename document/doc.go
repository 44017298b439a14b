// Package document bridges arbitrary Go values and the schema-free
// *smithy.Document open-content type used by document-shaped API members.
// It round-trips through encoding/json rather than reflecting over struct
// tags directly, so any value JSON already knows how to marshal works here
// too, at the cost of an intermediate allocation.
package document
