package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

// --- Code Printer (Output looks like source code) ---

// CodePrinter renders declarations and synthesized method bodies as source
// text. Expression nodes are resolved through the arena they were built in.
type CodePrinter struct {
	buf    bytes.Buffer
	arena  *ast.Arena
	indent int
}

func NewCodePrinter(arena *ast.Arena) *CodePrinter {
	return &CodePrinter{arena: arena}
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

// PrintStruct renders a struct declaration with its fields, type aliases and
// methods. Synthesized method bodies are demanded here, so printing a struct
// forces any pending body thunks.
func (p *CodePrinter) PrintStruct(s *ast.StructDecl, protocols ...string) {
	p.writeIndent()
	p.write("struct ")
	p.write(s.Name)
	p.printTypeParams(s.TypeParams)
	if len(protocols) > 0 {
		p.write(": ")
		p.write(strings.Join(protocols, ", "))
	}
	p.write(" {\n")
	p.indent++

	for _, f := range s.Fields {
		p.writeIndent()
		p.write(fmt.Sprintf("var %s: %s\n", f.Name, f.Type.String()))
	}

	for _, a := range s.Aliases {
		p.writeIndent()
		p.write(fmt.Sprintf("typealias %s = %s\n", a.Name, a.Aliased.String()))
	}

	for _, m := range s.Methods {
		p.write("\n")
		p.PrintFunc(m)
	}

	p.indent--
	p.writeIndent()
	p.write("}\n")
}

// PrintFunc renders a method declaration and its body.
func (p *CodePrinter) PrintFunc(fn *ast.FuncDecl) {
	p.writeIndent()
	if fn.Mutating {
		p.write("mutating ")
	}
	p.write("func ")
	p.write(fn.Name)
	p.write("(")
	for i, param := range fn.Params {
		if i > 0 {
			p.write(", ")
		}
		p.printParam(param)
	}
	p.write(")")
	if fn.ReturnType != nil && !typesystem.Equal(fn.ReturnType, typesystem.Unit) {
		p.write(" -> ")
		p.write(fn.ReturnType.String())
	}

	body := fn.Body()
	if body == ast.NoBlock {
		p.write("\n")
		return
	}
	p.write(" {\n")
	p.indent++
	for _, id := range p.arena.Block(body).Exprs {
		p.writeIndent()
		p.printExpr(id)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}\n")
}

func (p *CodePrinter) printParam(param *ast.ParamDecl) {
	switch {
	case param.Label == "":
		p.write("_ ")
		p.write(param.Name)
	case param.Label == param.Name:
		p.write(param.Name)
	default:
		p.write(param.Label)
		p.write(" ")
		p.write(param.Name)
	}
	p.write(": ")
	p.write(param.Type.String())
}

func (p *CodePrinter) printTypeParams(params []*ast.TypeParamDecl) {
	if len(params) == 0 {
		return
	}
	p.write("<")
	for i, tp := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(tp.Name)
		if len(tp.Constraints) > 0 {
			p.write(": ")
			p.write(strings.Join(tp.Constraints, " & "))
		}
	}
	p.write(">")
}

func (p *CodePrinter) printExpr(id ast.ExprID) {
	if id == ast.NoExpr {
		p.write("<???>")
		return
	}
	e := p.arena.Expr(id)
	switch e.Kind {
	case ast.ExprDeclRef:
		p.write(e.Target.DeclName())
	case ast.ExprMember:
		p.printExpr(e.Base)
		p.write(".")
		p.write(e.Target.DeclName())
	case ast.ExprInOut:
		p.write("&")
		p.printExpr(e.Base)
	case ast.ExprCall:
		p.printExpr(e.Callee)
		p.write("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			if e.Labels[i] != "" {
				p.write(e.Labels[i])
				p.write(": ")
			}
			p.printExpr(arg)
		}
		p.write(")")
	default:
		p.write("<???>")
	}
}
