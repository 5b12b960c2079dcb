package prettyprinter

import (
	"testing"

	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/derive"
	"github.com/tensil-lang/tensil/internal/diagnostics"
	"github.com/tensil-lang/tensil/internal/symbols"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

func deriveForPrinting(t *testing.T, nominal *ast.StructDecl, seed func(*derive.Context)) *derive.Context {
	t.Helper()
	registry := symbols.NewRegistry()
	registry.DefineProtocol(symbols.ParameterGroupProtocol())
	ctx := derive.NewContext(ast.NewArena(), registry, diagnostics.NewBag())
	if seed != nil {
		seed(ctx)
	}

	proto, _ := registry.Protocol(config.ParameterGroupProtocolName)
	assocReq, _ := proto.Requirement(config.ParameterTypeName)
	methodReq, _ := proto.Requirement(config.UpdateMethodName)

	parameterType := derive.DeriveParameterGroupType(ctx, nominal, assocReq)
	if parameterType == nil {
		t.Fatalf("cannot derive Parameter for %s", nominal.Name)
	}
	nominal.AddAlias(&ast.TypeAliasDecl{Name: config.ParameterTypeName, Aliased: parameterType, Implicit: true})
	if fn := derive.DeriveParameterGroupValue(ctx, nominal, methodReq); fn == nil {
		t.Fatalf("cannot derive update for %s", nominal.Name)
	}
	return ctx
}

func TestPrintDerivedStructWithRecursiveCalls(t *testing.T) {
	dense := typesystem.TCon{Name: "Dense"}
	pair := &ast.StructDecl{
		Name: "Pair",
		Fields: []*ast.FieldDecl{
			{Name: "weight", Type: dense},
			{Name: "bias", Type: dense},
		},
	}
	ctx := deriveForPrinting(t, pair, func(ctx *derive.Context) {
		proto, _ := ctx.Conformances.Protocol(config.ParameterGroupProtocolName)
		conf := symbols.NewConformance(proto, dense)
		conf.SetTypeWitness(config.ParameterTypeName, typesystem.TCon{Name: "Tensor"})
		conf.SetValueWitness(config.UpdateMethodName, &ast.FuncDecl{Name: config.UpdateMethodName})
		if err := ctx.Conformances.RegisterConformance(conf); err != nil {
			t.Fatalf("RegisterConformance: %v", err)
		}
	})

	printer := NewCodePrinter(ctx.Arena)
	printer.PrintStruct(pair, config.ParameterGroupProtocolName)

	want := `struct Pair: ParameterGroup {
    var weight: Dense
    var bias: Dense
    typealias Parameter = Tensor

    mutating func update(withGradients gradients: Pair, _ updater: @noescape (inout Tensor, Tensor) -> ()) {
        self.weight.update(withGradients: gradients.weight, updater)
        self.bias.update(withGradients: gradients.bias, updater)
    }
}
`
	if got := printer.String(); got != want {
		t.Errorf("rendered struct:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintDerivedStructWithDirectApplications(t *testing.T) {
	float := typesystem.TCon{Name: "Float"}
	scaled := &ast.StructDecl{
		Name: "Scaled",
		Fields: []*ast.FieldDecl{
			{Name: "factor", Type: float},
			{Name: "offset", Type: float},
		},
	}
	ctx := deriveForPrinting(t, scaled, nil)

	printer := NewCodePrinter(ctx.Arena)
	printer.PrintStruct(scaled, config.ParameterGroupProtocolName)

	want := `struct Scaled: ParameterGroup {
    var factor: Float
    var offset: Float
    typealias Parameter = Float

    mutating func update(withGradients gradients: Scaled, _ updater: @noescape (inout Float, Float) -> ()) {
        updater(&self.factor, gradients.factor)
        updater(&self.offset, gradients.offset)
    }
}
`
	if got := printer.String(); got != want {
		t.Errorf("rendered struct:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintGenericStructHeader(t *testing.T) {
	printer := NewCodePrinter(ast.NewArena())
	printer.PrintStruct(&ast.StructDecl{
		Name:       "Dense",
		TypeParams: []*ast.TypeParamDecl{{Name: "Scalar", Constraints: []string{"Numeric"}}},
		Fields: []*ast.FieldDecl{
			{Name: "weight", Type: typesystem.TVar{Name: "Scalar"}},
		},
	})

	want := `struct Dense<Scalar: Numeric> {
    var weight: Scalar
}
`
	if got := printer.String(); got != want {
		t.Errorf("rendered struct:\n%s\nwant:\n%s", got, want)
	}
}
