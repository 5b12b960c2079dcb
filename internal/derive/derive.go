// Package derive implements compiler synthesis of ParameterGroup
// conformances: associated-type inference over a struct's stored fields and
// generation of the elementwise update(withGradients:_:) method.
//
// The type checker asks CanDeriveParameterGroup before committing to a
// derivation, then calls DeriveParameterGroupType and
// DeriveParameterGroupValue for the protocol's two requirement slots. The
// caller owns pass ordering: the Parameter type alias must be a member of
// the struct before the update method is derived.
package derive

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/diagnostics"
	"github.com/tensil-lang/tensil/internal/symbols"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

// Context carries the collaborators a derivation request needs. There is no
// ambient compiler state: every entry point receives a Context explicitly.
type Context struct {
	Arena        *ast.Arena
	Conformances *symbols.Registry
	Diags        diagnostics.Sink

	synthesized []ast.Decl
}

func NewContext(arena *ast.Arena, conformances *symbols.Registry, diags diagnostics.Sink) *Context {
	return &Context{Arena: arena, Conformances: conformances, Diags: diags}
}

// NoteSynthesized records a compiler-generated declaration so downstream
// tooling can exclude it from user-facing queries.
func (ctx *Context) NoteSynthesized(d ast.Decl) {
	ctx.synthesized = append(ctx.synthesized, d)
}

// SynthesizedDecls returns every declaration recorded via NoteSynthesized,
// in synthesis order.
func (ctx *Context) SynthesizedDecls() []ast.Decl {
	return ctx.synthesized
}

// DeriveParameterGroupType derives the type satisfying an associated-type
// requirement of ParameterGroup for the given struct. Returns nil when the
// conformance cannot be derived (refusal, no diagnostic) or when the
// requirement is not one ParameterGroup declares (broken protocol,
// diagnosed).
func DeriveParameterGroupType(ctx *Context, nominal *ast.StructDecl, requirement symbols.Requirement) typesystem.Type {
	if requirement.Kind == symbols.AssociatedTypeRequirement && requirement.Name == config.ParameterTypeName {
		nominal.SetFixedLayout()
		return inferParameterType(ctx, nominal)
	}
	ctx.Diags.Add(diagnostics.NewError(
		diagnostics.ErrD003,
		requirement.Token,
		fmt.Sprintf("broken %s requirement: unexpected %s %q",
			config.ParameterGroupProtocolName, requirement.Kind, requirement.Name),
	))
	return nil
}

// DeriveParameterGroupValue derives the declaration satisfying a method
// requirement of ParameterGroup for the given struct. Returns nil for a
// requirement ParameterGroup does not declare (broken protocol, diagnosed).
func DeriveParameterGroupValue(ctx *Context, nominal *ast.StructDecl, requirement symbols.Requirement) *ast.FuncDecl {
	if requirement.Kind == symbols.MethodRequirement && requirement.Name == config.UpdateMethodName {
		nominal.SetFixedLayout()
		return buildUpdateMethod(ctx, nominal)
	}
	ctx.Diags.Add(diagnostics.NewError(
		diagnostics.ErrD003,
		requirement.Token,
		fmt.Sprintf("broken %s requirement: unexpected %s %q",
			config.ParameterGroupProtocolName, requirement.Kind, requirement.Name),
	))
	return nil
}
