package symbols

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/typesystem"
)

// Registry holds protocol definitions and the conformances registered for
// them. Registries form a scope chain: lookups fall through to the outer
// registry when the local one has no match.
type Registry struct {
	protocols    map[string]*Protocol
	conformances map[string][]*Conformance
	outer        *Registry
}

func NewRegistry() *Registry {
	return &Registry{
		protocols:    make(map[string]*Protocol),
		conformances: make(map[string][]*Conformance),
	}
}

func NewEnclosedRegistry(outer *Registry) *Registry {
	r := NewRegistry()
	r.outer = outer
	return r
}

// DefineProtocol registers a protocol definition in the current scope.
func (r *Registry) DefineProtocol(p *Protocol) {
	r.protocols[p.Name] = p
}

// Protocol returns the protocol definition with the given name.
func (r *Registry) Protocol(name string) (*Protocol, bool) {
	if p, ok := r.protocols[name]; ok {
		return p, true
	}
	if r.outer != nil {
		return r.outer.Protocol(name)
	}
	return nil, false
}

func (r *Registry) ProtocolExists(name string) bool {
	_, ok := r.Protocol(name)
	return ok
}

// RegisterConformance records a conformance in the current scope.
// Overlapping conformances (two registrations whose targets unify for the
// same protocol) are rejected.
func (r *Registry) RegisterConformance(c *Conformance) error {
	if c.Protocol == nil {
		panic("RegisterConformance: conformance has no protocol")
	}
	if !r.ProtocolExists(c.Protocol.Name) {
		panic(fmt.Sprintf("RegisterConformance: protocol %q does not exist", c.Protocol.Name))
	}

	// Check overlap across ALL scopes (local + parents)
	for _, existing := range r.allConformances(c.Protocol.Name) {
		renamed := RenameTypeVars(c.Target, "new")
		if _, err := typesystem.Unify(existing.Target, renamed); err == nil {
			return fmt.Errorf("overlapping conformances to %s: %s and %s",
				c.Protocol.Name, existing.Target.String(), c.Target.String())
		}
	}

	r.conformances[c.Protocol.Name] = append(r.conformances[c.Protocol.Name], c)
	return nil
}

// Lookup finds the conformance of a type to a protocol. The returned
// reference resolves witnesses instantiated for t. The conformance's type
// variables are renamed apart before unification, and witnesses are carried
// through the same rename, so a variable in t that shares a name with one of
// the target's variables is never captured.
func (r *Registry) Lookup(t typesystem.Type, protocolName string) (*ConformanceRef, bool) {
	for _, c := range r.conformances[protocolName] {
		rename := renameSubst(c.Target, "inst")
		subst, err := typesystem.Unify(c.Target.Apply(rename), t)
		if err != nil {
			continue
		}
		return &ConformanceRef{Conformance: c, rename: rename, subst: subst}, true
	}
	if r.outer != nil {
		return r.outer.Lookup(t, protocolName)
	}
	return nil, false
}

// Conforms reports whether t conforms to the named protocol.
func (r *Registry) Conforms(t typesystem.Type, protocolName string) bool {
	_, ok := r.Lookup(t, protocolName)
	return ok
}

func (r *Registry) allConformances(protocolName string) []*Conformance {
	var out []*Conformance
	if r.outer != nil {
		out = append(out, r.outer.allConformances(protocolName)...)
	}
	out = append(out, r.conformances[protocolName]...)
	return out
}

// RenameTypeVars maps every free type variable of t to a suffixed copy.
func RenameTypeVars(t typesystem.Type, suffix string) typesystem.Type {
	return t.Apply(renameSubst(t, suffix))
}

// renameSubst builds the substitution renaming every free type variable of t
// to a suffixed copy.
func renameSubst(t typesystem.Type, suffix string) typesystem.Subst {
	subst := make(typesystem.Subst)
	for _, v := range t.FreeTypeVariables() {
		subst[v.Name] = typesystem.TVar{Name: v.Name + "_" + suffix}
	}
	return subst
}
