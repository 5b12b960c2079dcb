package symbols

import (
	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

// Conformance records that a specific type satisfies a specific protocol,
// with witnesses for each requirement. Target may be generic (e.g.
// Dense<t>); Lookup instantiates witnesses through the unification
// substitution.
type Conformance struct {
	Protocol *Protocol
	Target   typesystem.Type

	// Derived marks conformances synthesized by the compiler rather than
	// declared by the user.
	Derived bool

	typeWitnesses  map[string]typesystem.Type
	valueWitnesses map[string]*ast.FuncDecl
}

func NewConformance(protocol *Protocol, target typesystem.Type) *Conformance {
	return &Conformance{
		Protocol:       protocol,
		Target:         target,
		typeWitnesses:  make(map[string]typesystem.Type),
		valueWitnesses: make(map[string]*ast.FuncDecl),
	}
}

// SetTypeWitness records the type fulfilling an associated-type requirement.
func (c *Conformance) SetTypeWitness(name string, t typesystem.Type) {
	c.typeWitnesses[name] = t
}

// TypeWitness returns the type fulfilling the named associated-type
// requirement.
func (c *Conformance) TypeWitness(name string) (typesystem.Type, bool) {
	t, ok := c.typeWitnesses[name]
	return t, ok
}

// SetValueWitness records the declaration fulfilling a method requirement.
func (c *Conformance) SetValueWitness(name string, decl *ast.FuncDecl) {
	c.valueWitnesses[name] = decl
}

// ValueWitness returns the declaration fulfilling the named method
// requirement.
func (c *Conformance) ValueWitness(name string) (*ast.FuncDecl, bool) {
	d, ok := c.valueWitnesses[name]
	return d, ok
}

// ConformanceRef is a successful conformance lookup: the conformance record
// plus the substitution instantiating its (possibly generic) target against
// the queried type. Witnesses resolve through the reference in two steps,
// first renaming the conformance's own variables apart and then substituting
// the queried type's. A single combined substitution would capture a query
// variable that shares a name with a target variable.
type ConformanceRef struct {
	Conformance *Conformance

	rename typesystem.Subst
	subst  typesystem.Subst
}

// TypeWitness returns the type fulfilling the named associated-type
// requirement, instantiated for the queried type.
func (ref *ConformanceRef) TypeWitness(name string) (typesystem.Type, bool) {
	w, ok := ref.Conformance.TypeWitness(name)
	if !ok {
		return nil, false
	}
	return w.Apply(ref.rename).Apply(ref.subst), true
}

// ValueWitness returns the declaration fulfilling the named method
// requirement.
func (ref *ConformanceRef) ValueWitness(name string) (*ast.FuncDecl, bool) {
	return ref.Conformance.ValueWitness(name)
}
