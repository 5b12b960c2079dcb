package ast

import (
	"testing"

	"github.com/tensil-lang/tensil/internal/typesystem"
)

func TestArenaHandles(t *testing.T) {
	arena := NewArena()

	field := &FieldDecl{Name: "weight", Type: typesystem.TCon{Name: "Dense"}}
	param := &ParamDecl{Name: "updater"}

	selfRef := arena.NewDeclRef(field)
	member := arena.NewMember(selfRef, field)
	inout := arena.NewInOut(member)
	updaterRef := arena.NewDeclRef(param)
	call := arena.NewCall(updaterRef, []ExprID{inout, member}, []string{"", ""})
	block := arena.NewBlock([]ExprID{call})

	if arena.NumExprs() != 5 {
		t.Fatalf("expected 5 expression nodes, got %d", arena.NumExprs())
	}

	callExpr := arena.Expr(call)
	if callExpr.Kind != ExprCall {
		t.Errorf("expected ExprCall, got %v", callExpr.Kind)
	}
	if callExpr.Callee != updaterRef {
		t.Errorf("call callee handle = %d, want %d", callExpr.Callee, updaterRef)
	}
	if len(callExpr.Args) != 2 || callExpr.Args[0] != inout {
		t.Errorf("call args = %v", callExpr.Args)
	}

	if got := arena.Block(block); len(got.Exprs) != 1 || got.Exprs[0] != call {
		t.Errorf("block exprs = %v", got.Exprs)
	}
	if arena.Expr(member).Target.DeclName() != "weight" {
		t.Errorf("member target = %q, want weight", arena.Expr(member).Target.DeclName())
	}
}

func TestNewCallLabelArityMismatchPanics(t *testing.T) {
	arena := NewArena()
	ref := arena.NewDeclRef(&ParamDecl{Name: "updater"})

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on label/arg count mismatch")
		}
	}()
	arena.NewCall(ref, []ExprID{ref}, nil)
}

func TestLazyBodySynthesizedOnce(t *testing.T) {
	arena := NewArena()
	fn := &FuncDecl{Name: "update"}

	calls := 0
	fn.SetBodySynthesizer(func(f *FuncDecl) BlockID {
		calls++
		return arena.NewBlock(nil)
	})

	if !fn.HasBodySynthesizer() {
		t.Fatalf("synthesizer should be pending before first Body call")
	}

	first := fn.Body()
	second := fn.Body()

	if calls != 1 {
		t.Errorf("body synthesizer invoked %d times, want 1", calls)
	}
	if first != second {
		t.Errorf("Body() returned different handles: %d vs %d", first, second)
	}
	if fn.HasBodySynthesizer() {
		t.Errorf("synthesizer should be consumed after first Body call")
	}
}

func TestBodyWithoutSynthesizer(t *testing.T) {
	fn := &FuncDecl{Name: "update"}
	if got := fn.Body(); got != NoBlock {
		t.Errorf("Body() = %d, want NoBlock", got)
	}
}

func TestStructDeclMembers(t *testing.T) {
	s := &StructDecl{
		Name: "Pair",
		Fields: []*FieldDecl{
			{Name: "weight", Type: typesystem.TCon{Name: "Dense"}},
			{Name: "bias", Type: typesystem.TCon{Name: "Dense"}},
		},
	}

	if f := s.FieldNamed("bias"); f == nil || f.Name != "bias" {
		t.Errorf("FieldNamed(bias) = %v", f)
	}
	if f := s.FieldNamed("missing"); f != nil {
		t.Errorf("FieldNamed(missing) should be nil, got %v", f)
	}

	if s.TypeAliasMember("Parameter") != nil {
		t.Errorf("no alias member registered yet")
	}
	s.AddAlias(&TypeAliasDecl{Name: "Parameter", Aliased: typesystem.TCon{Name: "Tensor"}})
	if a := s.TypeAliasMember("Parameter"); a == nil || a.Aliased.String() != "Tensor" {
		t.Errorf("TypeAliasMember(Parameter) = %v", a)
	}
}

func TestFixedLayoutIdempotent(t *testing.T) {
	s := &StructDecl{Name: "Pair"}
	if s.IsFixedLayout() {
		t.Fatalf("fresh struct should not be fixed-layout")
	}
	s.SetFixedLayout()
	s.SetFixedLayout()
	if !s.IsFixedLayout() {
		t.Errorf("fixed-layout marker lost after repeated marking")
	}
}

func TestDeclaredType(t *testing.T) {
	plain := &StructDecl{Name: "Pair"}
	if got := plain.DeclaredType().String(); got != "Pair" {
		t.Errorf("DeclaredType() = %s, want Pair", got)
	}

	generic := &StructDecl{
		Name:       "Dense",
		TypeParams: []*TypeParamDecl{{Name: "Scalar"}},
	}
	if got := generic.DeclaredType().String(); got != "Dense<Scalar>" {
		t.Errorf("DeclaredType() = %s, want Dense<Scalar>", got)
	}
}
