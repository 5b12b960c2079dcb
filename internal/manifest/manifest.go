// Package manifest loads the YAML description of a module's nominal types.
//
// A manifest declares the structs of a module, any pre-existing (library)
// conformances to ParameterGroup with their explicit Parameter witnesses,
// and the list of structs whose conformance should be derived:
//
//	module: optimizer
//	types:
//	  - name: Pair
//	    fields:
//	      - name: weight
//	        type: Dense
//	      - name: bias
//	        type: Dense
//	conformances:
//	  - type: Dense
//	    protocol: ParameterGroup
//	    parameter: Tensor
//	derive:
//	  - Pair
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/diagnostics"
	"github.com/tensil-lang/tensil/internal/symbols"
	"github.com/tensil-lang/tensil/internal/token"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

// Manifest represents the top-level manifest document.
type Manifest struct {
	// Module is the module's name.
	Module string `yaml:"module"`

	// Types declares the module's nominal types, in order.
	Types []TypeDef `yaml:"types"`

	// Conformances lists library conformances that exist before derivation
	// runs (e.g. a hand-written Dense: ParameterGroup).
	Conformances []ConformanceDef `yaml:"conformances,omitempty"`

	// Derive names the declared types whose ParameterGroup conformance
	// should be synthesized, in order. A type nested inside another derived
	// type must be listed first.
	Derive []string `yaml:"derive,omitempty"`

	// Path is where the manifest was loaded from. Not part of the document.
	Path string `yaml:"-"`
}

// TypeDef declares one nominal type.
type TypeDef struct {
	// Name is the type's name (e.g. "Pair").
	Name string `yaml:"name"`

	// TypeParams lists generic parameter names (e.g. [Scalar]).
	TypeParams []string `yaml:"type_params,omitempty"`

	// Access is the declaration's visibility: "private", "internal" or
	// "public". Defaults to "internal".
	Access string `yaml:"access,omitempty"`

	// Fields are the stored fields, in declaration order. Field names must
	// be unique within one type.
	Fields []FieldDef `yaml:"fields"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

func (td *TypeDef) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeDef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*td = TypeDef(p)
	td.Line = node.Line
	td.Column = node.Column
	return nil
}

// FieldDef declares one stored field.
type FieldDef struct {
	// Name is the field's name.
	Name string `yaml:"name"`

	// Type is the field's declared type expression (e.g. "Tensor",
	// "Dense<Float>"). Names in the enclosing type_params list are type
	// variables; everything else must be a built-in or declared type.
	Type string `yaml:"type"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

func (fd *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	type plain FieldDef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*fd = FieldDef(p)
	fd.Line = node.Line
	fd.Column = node.Column
	return nil
}

// ConformanceDef declares a library conformance that predates derivation.
type ConformanceDef struct {
	// Type is the conforming type expression. The constructor must be a
	// built-in or declared type; unknown argument names are read as type
	// variables, so "Dense<t>" declares a conformance for every Dense.
	Type string `yaml:"type"`

	// Protocol is the protocol's name.
	Protocol string `yaml:"protocol"`

	// Parameter is the Parameter type witness expression. It may reference
	// the type variables of Type.
	Parameter string `yaml:"parameter"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

func (cd *ConformanceDef) UnmarshalYAML(node *yaml.Node) error {
	type plain ConformanceDef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*cd = ConformanceDef(p)
	cd.Line = node.Line
	cd.Column = node.Column
	return nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse parses manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Module == "" {
		return nil, fmt.Errorf("parsing manifest: missing module name")
	}
	return &m, nil
}

func (m *Manifest) tokenAt(line, column int) token.Token {
	return token.Token{Type: token.IDENT, File: m.Path, Line: line, Column: column}
}

// Build turns the manifest into struct declarations and seeds the registry
// with the declared library conformances. Problems are reported to the sink;
// well-formed declarations are still built so later stages can proceed.
func (m *Manifest) Build(registry *symbols.Registry, sink diagnostics.Sink) []*ast.StructDecl {
	known := make(map[string]bool)
	for _, name := range config.BuiltinTypeNames {
		known[name] = true
	}
	for _, td := range m.Types {
		if known[td.Name] {
			sink.Add(diagnostics.NewError(diagnostics.ErrD002, m.tokenAt(td.Line, td.Column),
				fmt.Sprintf("duplicate type name %q", td.Name)))
			continue
		}
		known[td.Name] = true
	}

	var structs []*ast.StructDecl
	seen := make(map[string]bool)
	for _, td := range m.Types {
		if seen[td.Name] {
			continue
		}
		seen[td.Name] = true
		if s := m.buildStruct(td, known, sink); s != nil {
			structs = append(structs, s)
		}
	}

	for _, cd := range m.Conformances {
		m.registerConformance(cd, known, registry, sink)
	}

	declared := make(map[string]bool, len(structs))
	for _, s := range structs {
		declared[s.Name] = true
	}
	for _, name := range m.Derive {
		if !declared[name] {
			sink.Add(diagnostics.NewError(diagnostics.ErrD001, m.tokenAt(0, 0),
				fmt.Sprintf("cannot derive %q: type is not declared in this manifest", name)))
		}
	}

	return structs
}

func (m *Manifest) buildStruct(td TypeDef, known map[string]bool, sink diagnostics.Sink) *ast.StructDecl {
	access, err := parseAccess(td.Access)
	if err != nil {
		sink.Add(diagnostics.NewError(diagnostics.ErrD002, m.tokenAt(td.Line, td.Column),
			fmt.Sprintf("type %s: %v", td.Name, err)))
		return nil
	}

	vars := make(map[string]bool, len(td.TypeParams))
	typeParams := make([]*ast.TypeParamDecl, 0, len(td.TypeParams))
	for _, tp := range td.TypeParams {
		if vars[tp] {
			sink.Add(diagnostics.NewError(diagnostics.ErrD002, m.tokenAt(td.Line, td.Column),
				fmt.Sprintf("type %s: duplicate type parameter %q", td.Name, tp)))
			continue
		}
		vars[tp] = true
		typeParams = append(typeParams, &ast.TypeParamDecl{Name: tp})
	}

	s := &ast.StructDecl{
		Token:      m.tokenAt(td.Line, td.Column),
		Name:       td.Name,
		TypeParams: typeParams,
		Access:     access,
	}

	fieldNames := make(map[string]bool, len(td.Fields))
	for _, fd := range td.Fields {
		tok := m.tokenAt(fd.Line, fd.Column)
		if fd.Name == "" {
			sink.Add(diagnostics.NewError(diagnostics.ErrD002, tok,
				fmt.Sprintf("type %s: field without a name", td.Name)))
			continue
		}
		if fieldNames[fd.Name] {
			sink.Add(diagnostics.NewError(diagnostics.ErrD002, tok,
				fmt.Sprintf("type %s: duplicate field %q", td.Name, fd.Name)))
			continue
		}
		fieldType, err := parseTypeExpr(fd.Type, vars, known, false)
		if err != nil {
			sink.Add(diagnostics.NewError(diagnostics.ErrD001, tok,
				fmt.Sprintf("type %s, field %s: %v", td.Name, fd.Name, err)))
			continue
		}
		fieldNames[fd.Name] = true
		s.Fields = append(s.Fields, &ast.FieldDecl{Token: tok, Name: fd.Name, Type: fieldType})
	}
	return s
}

func (m *Manifest) registerConformance(cd ConformanceDef, known map[string]bool, registry *symbols.Registry, sink diagnostics.Sink) {
	tok := m.tokenAt(cd.Line, cd.Column)
	proto, ok := registry.Protocol(cd.Protocol)
	if !ok {
		sink.Add(diagnostics.NewError(diagnostics.ErrD001, tok,
			fmt.Sprintf("unknown protocol %q", cd.Protocol)))
		return
	}

	// Names unknown inside the target become the conformance's type
	// variables, shared with the witness expression.
	vars := make(map[string]bool)
	target, err := parseTypeExpr(cd.Type, vars, known, true)
	if err != nil {
		sink.Add(diagnostics.NewError(diagnostics.ErrD001, tok,
			fmt.Sprintf("conformance target %q: %v", cd.Type, err)))
		return
	}
	witnessType, err := parseTypeExpr(cd.Parameter, vars, known, false)
	if err != nil {
		sink.Add(diagnostics.NewError(diagnostics.ErrD001, tok,
			fmt.Sprintf("conformance %s: %s witness %q: %v", cd.Type, config.ParameterTypeName, cd.Parameter, err)))
		return
	}

	conf := symbols.NewConformance(proto, target)
	conf.SetTypeWitness(config.ParameterTypeName, witnessType)
	conf.SetValueWitness(config.UpdateMethodName, libraryUpdateWitness(target, witnessType))
	if err := registry.RegisterConformance(conf); err != nil {
		sink.Add(diagnostics.NewError(diagnostics.ErrD002, tok, err.Error()))
	}
}

// libraryUpdateWitness builds the declaration standing in for a library
// type's hand-written update method, so derived bodies have a witness to
// call through.
func libraryUpdateWitness(target, parameterType typesystem.Type) *ast.FuncDecl {
	return &ast.FuncDecl{
		Name: config.UpdateMethodName,
		Params: []*ast.ParamDecl{
			{Label: config.GradientsParamLabel, Name: config.GradientsParamName, Type: target},
			{Name: config.UpdaterParamName, Type: typesystem.TFunc{
				Params:     []typesystem.Type{typesystem.TInOut{Elem: parameterType}, parameterType},
				ReturnType: typesystem.Unit,
				NoEscape:   true,
			}},
		},
		ReturnType: typesystem.Unit,
		Mutating:   true,
		Validated:  true,
	}
}

func parseAccess(s string) (ast.AccessLevel, error) {
	switch s {
	case "", "internal":
		return ast.AccessInternal, nil
	case "private":
		return ast.AccessPrivate, nil
	case "public":
		return ast.AccessPublic, nil
	default:
		return ast.AccessInternal, fmt.Errorf("invalid access level %q", s)
	}
}
