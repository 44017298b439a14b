package smithy

import (
	"fmt"
	"maps"
	"strings"
)

// ShapeType is a type of Smithy shape.
// See https://smithy.io/2.0/spec/idl.html#defining-shapes.
type ShapeType int

// Enumerates ShapeType per the Smithy IDL.
const (
	ShapeTypeBlob ShapeType = iota
	ShapeTypeBoolean
	ShapeTypeString
	ShapeTypeTimestamp
	ShapeTypeByte
	ShapeTypeShort
	ShapeTypeInteger
	ShapeTypeLong
	ShapeTypeFloat
	ShapeTypeDocument
	ShapeTypeDouble
	ShapeTypeBigDecimal
	ShapeTypeBigInteger
	ShapeTypeEnum
	ShapeTypeIntEnum
	ShapeTypeList
	ShapeTypeSet
	ShapeTypeMap
	ShapeTypeStructure
	ShapeTypeUnion
	ShapeTypeMember
	ShapeTypeService
	ShapeTypeResource
	ShapeTypeOperation
)

// ShapeID is the (namespace, name, member?) triple identifying a shape from a
// Smithy model, rendered as namespace#name or namespace#name$member.
type ShapeID struct {
	Namespace, Name, Member string
}

// String returns the IDL microformat for the shape ID.
func (s ShapeID) String() string {
	if s.Member == "" {
		return fmt.Sprintf("%s#%s", s.Namespace, s.Name)
	}
	return fmt.Sprintf("%s#%s$%s", s.Namespace, s.Name, s.Member)
}

// ParseShapeID parses the IDL microformat (namespace#name or
// namespace#name$member) into a ShapeID.
func ParseShapeID(s string) ShapeID {
	ns, n, _ := strings.Cut(s, "#")
	n, m, _ := strings.Cut(n, "$")
	return ShapeID{ns, n, m}
}

// MemberSpec describes a member to be synthesized by Collection: the target
// schema it clones, the stable member index it will carry, and any
// member-local trait overrides.
type MemberSpec struct {
	Name   string
	Target *Schema
	Traits []Trait
}

// Schema encodes information about a shape from a Smithy model.
//
// Generated clients use schemas at runtime to dynamically (de)serialize
// request/responses. Schema values are immutable and safe to share across
// goroutines once constructed.
type Schema struct {
	ID     ShapeID
	Type   ShapeType
	Traits map[string]Trait // trait ID -> trait

	// MemberTarget is set only on member schemas; it is the schema this
	// member was cloned from.
	MemberTarget *Schema

	// MemberIndex is set only on member schemas; it is the zero-based,
	// stable position of the member within its parent's member list.
	//
	// Invariant: ID.Member, MemberTarget, and MemberIndex are all present
	// together, or all absent.
	MemberIndex int

	members     []*Schema
	memberIndex map[string]int
}

// Collection builds a structure/union/list/map schema from member specs. Each
// member schema is a clone of its target with its own ID (parent ID extended
// with "$<name>"), a trait-merged view (member traits override target
// traits), a MemberTarget back-reference, and a stable zero-based
// MemberIndex reflecting the order the specs were given in.
func Collection(id ShapeID, typ ShapeType, traits map[string]Trait, specs ...MemberSpec) *Schema {
	s := &Schema{
		ID:          id,
		Type:        typ,
		Traits:      traits,
		memberIndex: make(map[string]int, len(specs)),
	}

	for i, spec := range specs {
		mid := id
		mid.Member = spec.Name

		m := &Schema{
			ID:           mid,
			Type:         spec.Target.Type,
			Traits:       maps.Clone(spec.Target.Traits),
			MemberTarget: spec.Target,
			MemberIndex:  i,
			members:      spec.Target.members,
			memberIndex:  spec.Target.memberIndex,
		}

		if len(m.Traits) == 0 && len(spec.Traits) != 0 {
			m.Traits = map[string]Trait{}
		}
		for _, t := range spec.Traits {
			m.Traits[t.TraitID()] = t
		}

		s.members = append(s.members, m)
		s.memberIndex[spec.Name] = i
	}

	return s
}

// NewMember creates a standalone member schema from a target schema,
// overriding traits. It does not set MemberIndex or register the member on
// any parent; use Collection to build a full structure/union/list/map.
//
// Traits provided for the member override any traits on the target if there
// is collision.
func NewMember(name string, target *Schema, traits ...Trait) *Schema {
	m := &Schema{
		ID:           ShapeID{Member: name},
		Type:         target.Type,
		Traits:       maps.Clone(target.Traits),
		MemberTarget: target,
		members:      target.members,
		memberIndex:  target.memberIndex,
	}

	if len(m.Traits) == 0 && len(traits) != 0 {
		m.Traits = map[string]Trait{}
	}
	for _, t := range traits {
		m.Traits[t.TraitID()] = t
	}

	return m
}

// Members returns the schema's members in declared order.
func (s *Schema) Members() []*Schema {
	return s.members
}

// MemberByName looks up a member schema by name.
func (s *Schema) MemberByName(name string) (*Schema, bool) {
	i, ok := s.memberIndex[name]
	if !ok {
		return nil, false
	}
	return s.members[i], true
}

// GetTrait looks up a trait by ID on the schema.
func (s *Schema) GetTrait(id string) (Trait, bool) {
	t, ok := s.Traits[id]
	return t, ok
}

// SchemaTrait returns the typed trait T on the schema if present.
//
// If the schema holds an inert, document-valued placeholder for this trait
// ID (because the concrete trait type was unknown when the schema's traits
// were populated), it is upgraded in place to the strongly typed value the
// first time it is requested by that type. The upgrade succeeds only for
// trait types that implement traitUpgrader; none of the trait types in this
// package do, so for them SchemaTrait reports false on a placeholder.
func SchemaTrait[T Trait](s *Schema) (T, bool) {
	var zero T

	opaque, ok := s.Traits[zero.TraitID()]
	if !ok {
		return zero, false
	}

	if tt, ok := opaque.(T); ok {
		return tt, true
	}

	if holder, ok := opaque.(*inertTrait); ok {
		upgraded, err := holder.upgrade(zero)
		if err == nil {
			s.Traits[zero.TraitID()] = upgraded
			if tt, ok := upgraded.(T); ok {
				return tt, true
			}
		}
	}

	return zero, false
}

// ExpectationNotMet is raised by the Expect* schema helpers when a schema
// does not carry the data a caller asserted it must.
type ExpectationNotMet struct {
	Message string
}

func (e *ExpectationNotMet) Error() string { return "expectation not met: " + e.Message }

// ExpectMemberName asserts that the schema is a member schema and returns
// its member name.
func (s *Schema) ExpectMemberName() string {
	if s.ID.Member == "" {
		panic(&ExpectationNotMet{Message: fmt.Sprintf("%s is not a member schema", s.ID.String())})
	}
	return s.ID.Member
}

// ExpectMemberTarget asserts that the schema is a member schema and returns
// its target schema.
func (s *Schema) ExpectMemberTarget() *Schema {
	if s.MemberTarget == nil {
		panic(&ExpectationNotMet{Message: fmt.Sprintf("%s has no member target", s.ID.String())})
	}
	return s.MemberTarget
}

// ExpectMemberIndex asserts that the schema is a member schema and returns
// its stable member index.
func (s *Schema) ExpectMemberIndex() int {
	if s.ID.Member == "" {
		panic(&ExpectationNotMet{Message: fmt.Sprintf("%s is not a member schema", s.ID.String())})
	}
	return s.MemberIndex
}
