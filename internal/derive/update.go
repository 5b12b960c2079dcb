package derive

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

// buildUpdateMethod synthesizes the update(withGradients:_:) method
// declaration for a struct:
//
//	mutating func update(withGradients gradients: Self,
//	                     _ updater: @noescape (inout Parameter, Parameter) -> ())
//
// The Parameter type alias must already be a member of the struct; the type
// checker derives the associated type before the method, so a missing alias
// is a defect in the surrounding compiler, not user input.
//
// The body is not built here. A synthesizer thunk is attached and runs the
// first time the body is demanded.
func buildUpdateMethod(ctx *Context, nominal *ast.StructDecl) *ast.FuncDecl {
	parameterDecl := nominal.TypeAliasMember(config.ParameterTypeName)
	if parameterDecl == nil {
		panic(fmt.Sprintf("derive: %s has no %s member; associated type must be derived before the method",
			nominal.Name, config.ParameterTypeName))
	}
	parameterType := parameterDecl.Aliased
	parametersType := nominal.DeclaredType()

	gradientsDecl := &ast.ParamDecl{
		Label: config.GradientsParamLabel,
		Name:  config.GradientsParamName,
		Type:  parametersType,
	}
	updaterDecl := &ast.ParamDecl{
		Name: config.UpdaterParamName,
		Type: typesystem.TFunc{
			Params:     []typesystem.Type{typesystem.TInOut{Elem: parameterType}, parameterType},
			ReturnType: typesystem.Unit,
			NoEscape:   true,
		},
	}
	selfDecl := &ast.ParamDecl{
		Name: config.SelfName,
		Type: parametersType,
	}

	updateDecl := &ast.FuncDecl{
		Name:        config.UpdateMethodName,
		Receiver:    nominal,
		SelfDecl:    selfDecl,
		Params:      []*ast.ParamDecl{gradientsDecl, updaterDecl},
		ReturnType:  typesystem.Unit,
		TypeParams:  nominal.TypeParams,
		Mutating:    true,
		Implicit:    true,
		Synthesized: true,
		Validated:   true,
		Access:      nominal.Access,
	}
	updateDecl.SetBodySynthesizer(func(f *ast.FuncDecl) ast.BlockID {
		return synthesizeUpdateBody(ctx, f)
	})

	nominal.AddMethod(updateDecl)
	ctx.NoteSynthesized(updateDecl)
	return updateDecl
}

// synthesizeUpdateBody builds the method body, one statement per stored
// field of the receiver, in declaration order:
//
//	updater(&self.f, gradients.f)                     f does not conform
//	self.f.update(withGradients: gradients.f, updater) f conforms
//
// Every statement runs unconditionally; the receiver is updated in place.
func synthesizeUpdateBody(ctx *Context, funcDecl *ast.FuncDecl) ast.BlockID {
	nominal := funcDecl.Receiver
	arena := ctx.Arena

	selfDRE := arena.NewDeclRef(funcDecl.SelfDecl)
	gradientsDRE := arena.NewDeclRef(funcDecl.Params[0])
	updaterDRE := arena.NewDeclRef(funcDecl.Params[1])

	proto, ok := ctx.Conformances.Protocol(config.ParameterGroupProtocolName)
	if !ok {
		panic(fmt.Sprintf("derive: protocol %s is not defined", config.ParameterGroupProtocolName))
	}
	if reqs := proto.MethodRequirements(config.UpdateMethodName); len(reqs) != 1 {
		panic(fmt.Sprintf("derive: broken %s protocol: %d %s requirements",
			config.ParameterGroupProtocolName, len(reqs), config.UpdateMethodName))
	}

	// The gradients parameter shares the receiver's declared shape, so every
	// receiver field has an identically named counterpart.
	matchingField := func(target *ast.FieldDecl) *ast.FieldDecl {
		if f := nominal.FieldNamed(target.Name); f != nil {
			return f
		}
		panic(fmt.Sprintf("derive: no field named %q in %s matching the receiver's field",
			target.Name, nominal.Name))
	}

	updateCallExpr := func(field *ast.FieldDecl) ast.ExprID {
		memberExpr := arena.NewMember(selfDRE, field)
		gradientsMemberExpr := arena.NewMember(gradientsDRE, matchingField(field))

		ref, ok := ctx.Conformances.Lookup(field.Type, config.ParameterGroupProtocolName)
		if !ok {
			inoutExpr := arena.NewInOut(memberExpr)
			return arena.NewCall(updaterDRE,
				[]ast.ExprID{inoutExpr, gradientsMemberExpr},
				[]string{"", ""})
		}

		witness, ok := ref.ValueWitness(config.UpdateMethodName)
		if !ok {
			panic(fmt.Sprintf("derive: conformance of %s to %s has no %s value witness",
				field.Type.String(), config.ParameterGroupProtocolName, config.UpdateMethodName))
		}
		updateRef := arena.NewMember(memberExpr, witness)
		return arena.NewCall(updateRef,
			[]ast.ExprID{gradientsMemberExpr, updaterDRE},
			[]string{config.GradientsParamLabel, ""})
	}

	var updateCallNodes []ast.ExprID
	for _, field := range nominal.StoredFields() {
		updateCallNodes = append(updateCallNodes, updateCallExpr(field))
	}
	return arena.NewBlock(updateCallNodes)
}
