package pipeline

import (
	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/diagnostics"
	"github.com/tensil-lang/tensil/internal/symbols"
)

// Processor is one stage of the pipeline. A processor reads and extends the
// context and appends diagnostics rather than aborting, so later stages can
// still report their own errors.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the state threaded through the pipeline stages:
// manifest source in, declarations and conformances in the middle, rendered
// output and diagnostics out.
type PipelineContext struct {
	// Source is the raw manifest text.
	Source string
	// FilePath is where Source was read from, for diagnostics.
	FilePath string

	// ModuleName is set by the manifest stage.
	ModuleName string

	// Arena owns every expression node synthesized during this run.
	Arena *ast.Arena
	// Registry holds the protocol definitions and conformances in scope.
	Registry *symbols.Registry

	// Structs are the declared nominal types, in manifest order.
	Structs []*ast.StructDecl
	// DeriveOrder lists the struct names to derive, in manifest order.
	DeriveOrder []string
	// Derived are the structs whose conformance was successfully derived.
	Derived []*ast.StructDecl
	// Synthesized records every compiler-generated declaration.
	Synthesized []ast.Decl

	// Output is the rendered source text of the derived declarations.
	Output string

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		Source:   source,
		Arena:    ast.NewArena(),
		Registry: symbols.NewRegistry(),
	}
}

// Add appends a diagnostic; *PipelineContext is a diagnostics.Sink.
func (ctx *PipelineContext) Add(err *diagnostics.DiagnosticError) {
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
}

// StructNamed returns the declared struct with the given name, or nil.
func (ctx *PipelineContext) StructNamed(name string) *ast.StructDecl {
	for _, s := range ctx.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}
