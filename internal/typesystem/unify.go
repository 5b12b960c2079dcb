package typesystem

import "fmt"

// Unify attempts to find a substitution that makes t1 and t2 equal.
// It enforces strict equality (invariant): no subtyping, no widening.
//
// Conformance lookup uses this to match a possibly generic conformance
// target (e.g. Dense<t>) against a concrete field type (e.g. Dense<Float>),
// producing the substitution to instantiate the conformance's witnesses.
func Unify(t1, t2 Type) (Subst, error) {
	if Equal(t1, t2) {
		return Subst{}, nil
	}

	switch a := t1.(type) {
	case TVar:
		return bindVar(a, t2)
	case TApp:
		b, ok := t2.(TApp)
		if !ok {
			if tv, ok := t2.(TVar); ok {
				return bindVar(tv, t1)
			}
			return nil, unifyError(t1, t2)
		}
		if len(a.Args) != len(b.Args) {
			return nil, unifyError(t1, t2)
		}
		subst, err := Unify(a.Constructor, b.Constructor)
		if err != nil {
			return nil, err
		}
		for i := range a.Args {
			s, err := Unify(a.Args[i].Apply(subst), b.Args[i].Apply(subst))
			if err != nil {
				return nil, err
			}
			subst = subst.Compose(s)
		}
		return subst, nil
	case TTuple:
		b, ok := t2.(TTuple)
		if !ok {
			if tv, ok := t2.(TVar); ok {
				return bindVar(tv, t1)
			}
			return nil, unifyError(t1, t2)
		}
		if len(a.Elements) != len(b.Elements) {
			return nil, unifyError(t1, t2)
		}
		subst := Subst{}
		for i := range a.Elements {
			s, err := Unify(a.Elements[i].Apply(subst), b.Elements[i].Apply(subst))
			if err != nil {
				return nil, err
			}
			subst = subst.Compose(s)
		}
		return subst, nil
	case TInOut:
		b, ok := t2.(TInOut)
		if !ok {
			return nil, unifyError(t1, t2)
		}
		return Unify(a.Elem, b.Elem)
	case TFunc:
		b, ok := t2.(TFunc)
		if !ok {
			if tv, ok := t2.(TVar); ok {
				return bindVar(tv, t1)
			}
			return nil, unifyError(t1, t2)
		}
		if len(a.Params) != len(b.Params) {
			return nil, unifyError(t1, t2)
		}
		subst := Subst{}
		for i := range a.Params {
			s, err := Unify(a.Params[i].Apply(subst), b.Params[i].Apply(subst))
			if err != nil {
				return nil, err
			}
			subst = subst.Compose(s)
		}
		s, err := Unify(a.ReturnType.Apply(subst), b.ReturnType.Apply(subst))
		if err != nil {
			return nil, err
		}
		return subst.Compose(s), nil
	case TCon:
		if tv, ok := t2.(TVar); ok {
			return bindVar(tv, t1)
		}
		// Equal already handled the matching TCon case
		return nil, unifyError(t1, t2)
	}

	if tv, ok := t2.(TVar); ok {
		return bindVar(tv, t1)
	}
	return nil, unifyError(t1, t2)
}

// bindVar binds a type variable to a type, with occurs check.
func bindVar(v TVar, t Type) (Subst, error) {
	if tv, ok := t.(TVar); ok && tv.Name == v.Name {
		return Subst{}, nil
	}
	for _, free := range t.FreeTypeVariables() {
		if free.Name == v.Name {
			return nil, fmt.Errorf("occurs check failed: %s in %s", v.Name, t.String())
		}
	}
	return Subst{v.Name: t}, nil
}

func unifyError(t1, t2 Type) error {
	return fmt.Errorf("cannot unify %s with %s", t1.String(), t2.String())
}
