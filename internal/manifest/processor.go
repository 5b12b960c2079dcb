package manifest

import (
	"github.com/tensil-lang/tensil/internal/diagnostics"
	"github.com/tensil-lang/tensil/internal/pipeline"
	"github.com/tensil-lang/tensil/internal/symbols"
	"github.com/tensil-lang/tensil/internal/token"
)

// LoaderProcessor parses the manifest source, builds the declared structs
// and seeds the registry with the ParameterGroup protocol and the declared
// library conformances.
type LoaderProcessor struct{}

func (lp *LoaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	m, err := Parse([]byte(ctx.Source))
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(
			diagnostics.ErrD002, token.Token{File: ctx.FilePath}, err.Error()))
		return ctx
	}
	m.Path = ctx.FilePath

	ctx.Registry.DefineProtocol(symbols.ParameterGroupProtocol())
	ctx.ModuleName = m.Module
	ctx.Structs = m.Build(ctx.Registry, ctx)
	ctx.DeriveOrder = m.Derive
	return ctx
}
