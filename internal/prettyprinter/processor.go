package prettyprinter

import (
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/pipeline"
)

// RenderProcessor renders every derived struct as source text into the
// context's output. Printing demands the synthesized method bodies, so this
// stage is also where the lazy body thunks run.
type RenderProcessor struct{}

func (rp *RenderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Derived) == 0 {
		return ctx
	}
	printer := NewCodePrinter(ctx.Arena)
	for i, s := range ctx.Derived {
		if i > 0 {
			printer.write("\n")
		}
		printer.PrintStruct(s, config.ParameterGroupProtocolName)
	}
	ctx.Output = printer.String()
	return ctx
}
