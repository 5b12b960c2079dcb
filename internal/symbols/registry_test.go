package symbols

import (
	"testing"

	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.DefineProtocol(ParameterGroupProtocol())
	return r
}

func TestParameterGroupProtocolShape(t *testing.T) {
	p := ParameterGroupProtocol()

	assoc, ok := p.Requirement(config.ParameterTypeName)
	if !ok || assoc.Kind != AssociatedTypeRequirement {
		t.Errorf("Parameter requirement = %+v, ok = %v", assoc, ok)
	}

	methods := p.MethodRequirements(config.UpdateMethodName)
	if len(methods) != 1 {
		t.Fatalf("expected exactly one update requirement, got %d", len(methods))
	}
	if methods[0].Kind != MethodRequirement {
		t.Errorf("update requirement kind = %v", methods[0].Kind)
	}
}

func TestRegisterAndLookupConformance(t *testing.T) {
	r := newTestRegistry()

	dense := typesystem.TCon{Name: "Dense"}
	tensor := typesystem.TCon{Name: "Tensor"}

	c := NewConformance(ParameterGroupProtocol(), dense)
	c.SetTypeWitness(config.ParameterTypeName, tensor)
	if err := r.RegisterConformance(c); err != nil {
		t.Fatalf("RegisterConformance: %v", err)
	}

	ref, ok := r.Lookup(dense, config.ParameterGroupProtocolName)
	if !ok {
		t.Fatalf("Lookup(Dense) found nothing")
	}
	w, ok := ref.TypeWitness(config.ParameterTypeName)
	if !ok || !typesystem.Equal(w, tensor) {
		t.Errorf("Parameter witness = %v, want Tensor", w)
	}

	if _, ok := r.Lookup(typesystem.TCon{Name: "Float"}, config.ParameterGroupProtocolName); ok {
		t.Errorf("Float should not conform")
	}
}

func TestLookupGenericConformance(t *testing.T) {
	r := newTestRegistry()

	// Dense<t> : ParameterGroup with Parameter = t
	target := typesystem.TApp{
		Constructor: typesystem.TCon{Name: "Dense"},
		Args:        []typesystem.Type{typesystem.TVar{Name: "t"}},
	}
	c := NewConformance(ParameterGroupProtocol(), target)
	c.SetTypeWitness(config.ParameterTypeName, typesystem.TVar{Name: "t"})
	if err := r.RegisterConformance(c); err != nil {
		t.Fatalf("RegisterConformance: %v", err)
	}

	concrete := typesystem.TApp{
		Constructor: typesystem.TCon{Name: "Dense"},
		Args:        []typesystem.Type{typesystem.TCon{Name: "Float"}},
	}
	ref, ok := r.Lookup(concrete, config.ParameterGroupProtocolName)
	if !ok {
		t.Fatalf("Lookup(Dense<Float>) found nothing")
	}

	w, ok := ref.TypeWitness(config.ParameterTypeName)
	if !ok || !typesystem.Equal(w, typesystem.TCon{Name: "Float"}) {
		t.Errorf("instantiated Parameter witness = %v, want Float", w)
	}
}

func TestLookupSharedVariableNameNotCaptured(t *testing.T) {
	r := newTestRegistry()

	// Dense<t> : ParameterGroup with Parameter = t
	target := typesystem.TApp{
		Constructor: typesystem.TCon{Name: "Dense"},
		Args:        []typesystem.Type{typesystem.TVar{Name: "t"}},
	}
	c := NewConformance(ParameterGroupProtocol(), target)
	c.SetTypeWitness(config.ParameterTypeName, typesystem.TVar{Name: "t"})
	if err := r.RegisterConformance(c); err != nil {
		t.Fatalf("RegisterConformance: %v", err)
	}

	// The queried type reuses the variable name t: Dense<Dense<t>>.
	inner := typesystem.TApp{
		Constructor: typesystem.TCon{Name: "Dense"},
		Args:        []typesystem.Type{typesystem.TVar{Name: "t"}},
	}
	query := typesystem.TApp{
		Constructor: typesystem.TCon{Name: "Dense"},
		Args:        []typesystem.Type{inner},
	}
	ref, ok := r.Lookup(query, config.ParameterGroupProtocolName)
	if !ok {
		t.Fatalf("Lookup(Dense<Dense<t>>) found nothing")
	}

	w, ok := ref.TypeWitness(config.ParameterTypeName)
	if !ok || !typesystem.Equal(w, inner) {
		t.Errorf("Parameter witness = %v, want Dense<t>", w)
	}
}

func TestOverlappingConformancesRejected(t *testing.T) {
	r := newTestRegistry()

	dense := typesystem.TCon{Name: "Dense"}
	first := NewConformance(ParameterGroupProtocol(), dense)
	if err := r.RegisterConformance(first); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	second := NewConformance(ParameterGroupProtocol(), dense)
	if err := r.RegisterConformance(second); err == nil {
		t.Errorf("expected overlap error for duplicate Dense conformance")
	}
}

func TestRegisterUnknownProtocolPanics(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for unknown protocol")
		}
	}()
	_ = r.RegisterConformance(NewConformance(ParameterGroupProtocol(), typesystem.TCon{Name: "Dense"}))
}

func TestEnclosedRegistryFallsThrough(t *testing.T) {
	outer := newTestRegistry()
	dense := typesystem.TCon{Name: "Dense"}
	c := NewConformance(ParameterGroupProtocol(), dense)
	if err := outer.RegisterConformance(c); err != nil {
		t.Fatalf("RegisterConformance: %v", err)
	}

	inner := NewEnclosedRegistry(outer)
	if !inner.Conforms(dense, config.ParameterGroupProtocolName) {
		t.Errorf("inner scope should see outer conformance")
	}
	// Overlap detection must also see through scopes.
	if err := inner.RegisterConformance(NewConformance(ParameterGroupProtocol(), dense)); err == nil {
		t.Errorf("expected overlap error across scopes")
	}
}
