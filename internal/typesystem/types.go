package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents a type variable (e.g. 'a', 'b', 'Scalar').
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		// Direct self-reference would loop forever
		if tv, ok := replacement.(TVar); ok && tv.Name == t.Name {
			return t
		}
		return replacement.Apply(s)
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// TCon represents a type constant/constructor (e.g. Float, Tensor, Dense).
type TCon struct {
	Name   string
	Module string // Optional module path for imported types
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Apply(s Subst) Type { return t }

func (t TCon) FreeTypeVariables() []TVar { return nil }

// TApp represents a type application (e.g. Dense<Float>).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	newArgs := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		newArgs[i] = arg.Apply(s)
	}
	return TApp{Constructor: t.Constructor.Apply(s), Args: newArgs}
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := t.Constructor.FreeTypeVariables()
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TTuple represents a tuple type. The empty tuple is the unit type ()
// and serves as the return type of methods returning nothing.
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	elems := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		elems[i] = el.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	newElems := make([]Type, len(t.Elements))
	for i, el := range t.Elements {
		newElems[i] = el.Apply(s)
	}
	return TTuple{Elements: newElems}
}

func (t TTuple) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, el := range t.Elements {
		vars = append(vars, el.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// Unit is the empty tuple type ().
var Unit = TTuple{}

// TInOut marks a parameter position as a mutable reference (e.g. inout Tensor).
// Only valid inside TFunc.Params.
type TInOut struct {
	Elem Type
}

func (t TInOut) String() string { return "inout " + t.Elem.String() }

func (t TInOut) Apply(s Subst) Type {
	return TInOut{Elem: t.Elem.Apply(s)}
}

func (t TInOut) FreeTypeVariables() []TVar {
	return t.Elem.FreeTypeVariables()
}

// TFunc represents a function type (e.g. (inout Tensor, Tensor) -> ()).
type TFunc struct {
	Params     []Type
	ReturnType Type
	NoEscape   bool // The callee may not retain the function past the call
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	prefix := ""
	if t.NoEscape {
		prefix = "@noescape "
	}
	return fmt.Sprintf("%s(%s) -> %s", prefix, strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Apply(s Subst) Type {
	newParams := make([]Type, len(t.Params))
	for i, p := range t.Params {
		newParams[i] = p.Apply(s)
	}
	return TFunc{
		Params:     newParams,
		ReturnType: t.ReturnType.Apply(s),
		NoEscape:   t.NoEscape,
	}
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// Subst is a mapping from Type Variables to Types.
type Subst map[string]Type

// Compose combines two substitutions.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
