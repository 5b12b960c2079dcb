package ast

import (
	"github.com/tensil-lang/tensil/internal/token"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

// Decl is the base interface for all declarations.
type Decl interface {
	DeclName() string
	GetToken() token.Token
}

// AccessLevel is a declaration's visibility.
type AccessLevel uint8

const (
	AccessPrivate AccessLevel = iota
	AccessInternal
	AccessPublic
)

func (a AccessLevel) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessPublic:
		return "public"
	default:
		return "internal"
	}
}

// FieldDecl represents a stored field of a struct.
// name: Type
type FieldDecl struct {
	Token token.Token
	Name  string
	Type  typesystem.Type
}

func (f *FieldDecl) DeclName() string { return f.Name }
func (f *FieldDecl) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Token
}

// TypeParamDecl represents a generic type parameter of a declaration,
// with the protocol names constraining it.
// <Scalar: Numeric>
type TypeParamDecl struct {
	Token       token.Token
	Name        string
	Constraints []string
}

func (tp *TypeParamDecl) DeclName() string { return tp.Name }
func (tp *TypeParamDecl) GetToken() token.Token {
	if tp == nil {
		return token.Token{}
	}
	return tp.Token
}

// TypeAliasDecl represents a type-alias member of a struct.
// typealias Parameter = Tensor
type TypeAliasDecl struct {
	Token    token.Token
	Name     string
	Aliased  typesystem.Type
	Implicit bool
}

func (ta *TypeAliasDecl) DeclName() string { return ta.Name }
func (ta *TypeAliasDecl) GetToken() token.Token {
	if ta == nil {
		return token.Token{}
	}
	return ta.Token
}

// ParamDecl represents a function parameter. Label is the external argument
// label; "" means the argument is passed unlabeled. Name is the name the
// parameter is bound to inside the body.
type ParamDecl struct {
	Token token.Token
	Label string
	Name  string
	Type  typesystem.Type
}

func (p *ParamDecl) DeclName() string { return p.Name }
func (p *ParamDecl) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// StructDecl represents a nominal aggregate type with ordered stored fields.
type StructDecl struct {
	Token      token.Token
	Name       string
	TypeParams []*TypeParamDecl
	Fields     []*FieldDecl
	Aliases    []*TypeAliasDecl
	Methods    []*FuncDecl
	Access     AccessLevel

	fixedLayout bool
}

func (s *StructDecl) DeclName() string { return s.Name }
func (s *StructDecl) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// StoredFields returns the stored fields in declaration order.
func (s *StructDecl) StoredFields() []*FieldDecl {
	return s.Fields
}

// FieldNamed returns the stored field with the given name, or nil.
func (s *StructDecl) FieldNamed(name string) *FieldDecl {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// TypeAliasMember returns the type-alias member with the given name, or nil.
func (s *StructDecl) TypeAliasMember(name string) *TypeAliasDecl {
	for _, a := range s.Aliases {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// MethodNamed returns the first method with the given name, or nil.
func (s *StructDecl) MethodNamed(name string) *FuncDecl {
	for _, m := range s.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AddAlias adds a type-alias member.
func (s *StructDecl) AddAlias(a *TypeAliasDecl) {
	s.Aliases = append(s.Aliases, a)
}

// AddMethod adds a method member.
func (s *StructDecl) AddMethod(m *FuncDecl) {
	s.Methods = append(s.Methods, m)
}

// SetFixedLayout permanently marks the struct's field order and count as
// frozen across separate compilation. Idempotent; the marker is never removed.
func (s *StructDecl) SetFixedLayout() {
	s.fixedLayout = true
}

// IsFixedLayout reports whether the fixed-layout marker is set.
func (s *StructDecl) IsFixedLayout() bool {
	return s.fixedLayout
}

// DeclaredType returns the type the struct declares: its constructor applied
// to its own type parameters (Pair, or Dense<Scalar> for a generic struct).
func (s *StructDecl) DeclaredType() typesystem.Type {
	con := typesystem.TCon{Name: s.Name}
	if len(s.TypeParams) == 0 {
		return con
	}
	args := make([]typesystem.Type, len(s.TypeParams))
	for i, tp := range s.TypeParams {
		args[i] = typesystem.TVar{Name: tp.Name}
	}
	return typesystem.TApp{Constructor: con, Args: args}
}

// FuncDecl represents a function or method declaration. The body may be
// attached lazily: a synthesizer thunk set via SetBodySynthesizer runs the
// first time Body is called and its result is cached.
type FuncDecl struct {
	Token       token.Token
	Name        string
	Receiver    *StructDecl // nil for free functions
	SelfDecl    *ParamDecl  // implicit self, set for methods
	Params      []*ParamDecl
	ReturnType  typesystem.Type
	TypeParams  []*TypeParamDecl
	Mutating    bool
	Implicit    bool
	Synthesized bool
	Validated   bool
	Access      AccessLevel

	body            BlockID
	bodySet         bool
	bodySynthesizer func(*FuncDecl) BlockID
}

func (f *FuncDecl) DeclName() string { return f.Name }
func (f *FuncDecl) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Token
}

// SetBody attaches an already-built body.
func (f *FuncDecl) SetBody(b BlockID) {
	f.body = b
	f.bodySet = true
	f.bodySynthesizer = nil
}

// SetBodySynthesizer defers body construction to fn. fn is invoked at most
// once, on first demand.
func (f *FuncDecl) SetBodySynthesizer(fn func(*FuncDecl) BlockID) {
	f.bodySynthesizer = fn
}

// HasBodySynthesizer reports whether a deferred body is still pending.
func (f *FuncDecl) HasBodySynthesizer() bool {
	return f.bodySynthesizer != nil
}

// Body returns the function body, synthesizing it on first demand.
// Returns NoBlock for declarations without a body.
func (f *FuncDecl) Body() BlockID {
	if !f.bodySet {
		if f.bodySynthesizer == nil {
			return NoBlock
		}
		fn := f.bodySynthesizer
		f.bodySynthesizer = nil
		f.SetBody(fn(f))
	}
	return f.body
}

// Type returns the function's type, not including the receiver.
func (f *FuncDecl) Type() typesystem.TFunc {
	params := make([]typesystem.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	ret := f.ReturnType
	if ret == nil {
		ret = typesystem.Unit
	}
	return typesystem.TFunc{Params: params, ReturnType: ret}
}
