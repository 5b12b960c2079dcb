package derive

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/diagnostics"
	"github.com/tensil-lang/tensil/internal/pipeline"
	"github.com/tensil-lang/tensil/internal/symbols"
)

// Processor runs the derivation for every struct the manifest lists, in
// manifest order. A struct nested inside another derived struct must appear
// earlier in the list so its conformance is registered before the outer
// derivation looks it up.
type Processor struct{}

func (dp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.DeriveOrder) == 0 {
		return ctx
	}
	proto, ok := ctx.Registry.Protocol(config.ParameterGroupProtocolName)
	if !ok {
		// Manifest stage failed before defining the protocol.
		return ctx
	}
	assocReq, _ := proto.Requirement(config.ParameterTypeName)
	methodReq, _ := proto.Requirement(config.UpdateMethodName)

	dctx := NewContext(ctx.Arena, ctx.Registry, ctx)
	for _, name := range ctx.DeriveOrder {
		nominal := ctx.StructNamed(name)
		if nominal == nil {
			continue // already reported by the manifest stage
		}

		if !CanDeriveParameterGroup(dctx, nominal) {
			ctx.Add(diagnostics.NewError(diagnostics.ErrD004, nominal.Token,
				fmt.Sprintf("cannot automatically derive conformance of %s to %s: stored fields do not share a parameter type",
					nominal.Name, proto.Name)))
			continue
		}

		// Associated type first: the method's signature builder requires
		// the Parameter alias to be a resolvable member.
		parameterType := DeriveParameterGroupType(dctx, nominal, assocReq)
		alias := &ast.TypeAliasDecl{
			Token:    nominal.Token,
			Name:     config.ParameterTypeName,
			Aliased:  parameterType,
			Implicit: true,
		}
		nominal.AddAlias(alias)
		dctx.NoteSynthesized(alias)

		updateDecl := DeriveParameterGroupValue(dctx, nominal, methodReq)

		conf := symbols.NewConformance(proto, nominal.DeclaredType())
		conf.Derived = true
		conf.SetTypeWitness(config.ParameterTypeName, parameterType)
		conf.SetValueWitness(config.UpdateMethodName, updateDecl)
		if err := ctx.Registry.RegisterConformance(conf); err != nil {
			ctx.Add(diagnostics.NewError(diagnostics.ErrD002, nominal.Token, err.Error()))
			continue
		}
		ctx.Derived = append(ctx.Derived, nominal)
	}
	ctx.Synthesized = append(ctx.Synthesized, dctx.SynthesizedDecls()...)
	return ctx
}
