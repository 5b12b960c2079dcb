package typesystem

import (
	"testing"
)

func TestEqual(t *testing.T) {
	floatType := TCon{Name: "Float"}
	intType := TCon{Name: "Int"}
	tensorType := TCon{Name: "Tensor"}
	dense := TCon{Name: "Dense"}

	tests := []struct {
		name string
		t1   Type
		t2   Type
		want bool
	}{
		{
			name: "identical constants",
			t1:   floatType,
			t2:   TCon{Name: "Float"},
			want: true,
		},
		{
			name: "different constants",
			t1:   floatType,
			t2:   intType,
			want: false,
		},
		{
			name: "same constant different module",
			t1:   TCon{Name: "Tensor", Module: "nn"},
			t2:   tensorType,
			want: false,
		},
		{
			name: "identical applications",
			t1:   TApp{Constructor: dense, Args: []Type{floatType}},
			t2:   TApp{Constructor: dense, Args: []Type{floatType}},
			want: true,
		},
		{
			name: "applications with different args",
			t1:   TApp{Constructor: dense, Args: []Type{floatType}},
			t2:   TApp{Constructor: dense, Args: []Type{intType}},
			want: false,
		},
		{
			name: "application vs constant",
			t1:   TApp{Constructor: dense, Args: []Type{floatType}},
			t2:   dense,
			want: false,
		},
		{
			name: "type variables are equal by name only",
			t1:   TVar{Name: "a"},
			t2:   TVar{Name: "b"},
			want: false,
		},
		{
			name: "variable never equals concrete type",
			t1:   TVar{Name: "a"},
			t2:   floatType,
			want: false,
		},
		{
			name: "unit equals unit",
			t1:   Unit,
			t2:   TTuple{},
			want: true,
		},
		{
			name: "function types compare structurally",
			t1:   TFunc{Params: []Type{TInOut{Elem: tensorType}, tensorType}, ReturnType: Unit, NoEscape: true},
			t2:   TFunc{Params: []Type{TInOut{Elem: tensorType}, tensorType}, ReturnType: Unit, NoEscape: true},
			want: true,
		},
		{
			name: "noescape flag is part of identity",
			t1:   TFunc{Params: []Type{tensorType}, ReturnType: Unit, NoEscape: true},
			t2:   TFunc{Params: []Type{tensorType}, ReturnType: Unit},
			want: false,
		},
		{
			name: "inout wrapper is not its element",
			t1:   TInOut{Elem: tensorType},
			t2:   tensorType,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.t1, tt.t2); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.t1, tt.t2, got, tt.want)
			}
		})
	}
}

func TestUnify(t *testing.T) {
	floatType := TCon{Name: "Float"}
	intType := TCon{Name: "Int"}
	dense := TCon{Name: "Dense"}

	tests := []struct {
		name    string
		t1      Type
		t2      Type
		wantErr bool
	}{
		{
			name:    "constant with itself",
			t1:      floatType,
			t2:      TCon{Name: "Float"},
			wantErr: false,
		},
		{
			name:    "constant mismatch",
			t1:      floatType,
			t2:      intType,
			wantErr: true,
		},
		{
			name:    "generic target against concrete",
			t1:      TApp{Constructor: dense, Args: []Type{TVar{Name: "t"}}},
			t2:      TApp{Constructor: dense, Args: []Type{floatType}},
			wantErr: false,
		},
		{
			name:    "arity mismatch",
			t1:      TApp{Constructor: dense, Args: []Type{TVar{Name: "t"}}},
			t2:      TApp{Constructor: dense, Args: []Type{floatType, intType}},
			wantErr: true,
		},
		{
			name:    "occurs check",
			t1:      TVar{Name: "t"},
			t2:      TApp{Constructor: dense, Args: []Type{TVar{Name: "t"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unify(tt.t1, tt.t2)
			if (err != nil) != tt.wantErr {
				t.Errorf("Unify(%s, %s) error = %v, wantErr %v", tt.t1, tt.t2, err, tt.wantErr)
			}
		})
	}
}

func TestUnifySubstitution(t *testing.T) {
	dense := TCon{Name: "Dense"}
	floatType := TCon{Name: "Float"}

	// Dense<t> ~ Dense<Float> should bind t -> Float
	subst, err := Unify(
		TApp{Constructor: dense, Args: []Type{TVar{Name: "t"}}},
		TApp{Constructor: dense, Args: []Type{floatType}},
	)
	if err != nil {
		t.Fatalf("Unify returned error: %v", err)
	}

	bound := TVar{Name: "t"}.Apply(subst)
	if !Equal(bound, floatType) {
		t.Errorf("t bound to %s, want Float", bound)
	}
}
