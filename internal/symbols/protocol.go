package symbols

import (
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/token"
)

// RequirementKind discriminates the two requirement forms a protocol may
// declare. The set is closed: a protocol requirement is either an
// associated-type slot or a method slot.
type RequirementKind uint8

const (
	AssociatedTypeRequirement RequirementKind = iota
	MethodRequirement
)

func (k RequirementKind) String() string {
	if k == AssociatedTypeRequirement {
		return "associated type"
	}
	return "method"
}

// Requirement is one named slot of a protocol.
type Requirement struct {
	Kind  RequirementKind
	Name  string
	Token token.Token
}

// Protocol is a named set of requirements a type may satisfy.
type Protocol struct {
	Name         string
	Requirements []Requirement
}

// Requirement returns the requirement with the given name.
func (p *Protocol) Requirement(name string) (Requirement, bool) {
	for _, r := range p.Requirements {
		if r.Name == name {
			return r, true
		}
	}
	return Requirement{}, false
}

// MethodRequirements returns all method requirements with the given name.
// Well-formed protocols declare each method slot exactly once.
func (p *Protocol) MethodRequirements(name string) []Requirement {
	var out []Requirement
	for _, r := range p.Requirements {
		if r.Kind == MethodRequirement && r.Name == name {
			out = append(out, r)
		}
	}
	return out
}

// ParameterGroupProtocol builds the ParameterGroup protocol definition:
// an associated type Parameter and a mutating method
// update(withGradients:_:) applying an updater across all parameters.
func ParameterGroupProtocol() *Protocol {
	return &Protocol{
		Name: config.ParameterGroupProtocolName,
		Requirements: []Requirement{
			{Kind: AssociatedTypeRequirement, Name: config.ParameterTypeName},
			{Kind: MethodRequirement, Name: config.UpdateMethodName},
		},
	}
}
