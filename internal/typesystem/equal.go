package typesystem

// Equal reports exact structural equality of two types.
//
// This is deliberately identity, not unifiability: associated-type inference
// over stored fields accepts only fields whose parameter types are the same
// type, with no most-general-unifier computation. Type variables are equal
// only to a variable of the same name.
func Equal(t1, t2 Type) bool {
	switch a := t1.(type) {
	case TVar:
		b, ok := t2.(TVar)
		return ok && a.Name == b.Name
	case TCon:
		b, ok := t2.(TCon)
		return ok && a.Name == b.Name && a.Module == b.Module
	case TApp:
		b, ok := t2.(TApp)
		if !ok || len(a.Args) != len(b.Args) {
			return false
		}
		if !Equal(a.Constructor, b.Constructor) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case TTuple:
		b, ok := t2.(TTuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case TInOut:
		b, ok := t2.(TInOut)
		return ok && Equal(a.Elem, b.Elem)
	case TFunc:
		b, ok := t2.(TFunc)
		if !ok || len(a.Params) != len(b.Params) || a.NoEscape != b.NoEscape {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.ReturnType, b.ReturnType)
	case nil:
		return t2 == nil
	}
	return false
}
