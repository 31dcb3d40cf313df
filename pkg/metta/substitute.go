package metta

// Substitute applies bindings to t, replacing each bound Variable with
// its term. A variable's substitution is resolved to a fixpoint (the
// bound term may itself contain a now-bound variable), with cycle
// detection so a self-referential binding chain fails loudly instead of
// looping forever. The wildcard is never substituted. Unbound
// variables, and all non-SExpr leaves other than bound variables, are
// returned unchanged.
func Substitute(t Term, bindings Bindings) (Term, error) {
	return substitute(t, bindings, make(map[string]bool))
}

func substitute(t Term, bindings Bindings, active map[string]bool) (Term, error) {
	switch v := t.(type) {
	case Variable:
		if IsWildcardName(v.Name) {
			return t, nil
		}
		bound, ok := bindings.Lookup(v.Name)
		if !ok {
			return t, nil
		}
		if active[v.Name] {
			return nil, ErrCyclicBinding
		}
		active[v.Name] = true
		resolved, err := substitute(bound, bindings, active)
		delete(active, v.Name)
		return resolved, err
	case SExpr:
		children := make([]Term, len(v.Children))
		for i, c := range v.Children {
			resolved, err := substitute(c, bindings, active)
			if err != nil {
				return nil, err
			}
			children[i] = resolved
		}
		return SExpr{Children: children}, nil
	default:
		return t, nil
	}
}

// FreeVariables returns the set of distinct variable names occurring in
// t, excluding the wildcard (which never binds and so is never "free"
// in the sense that matters for rule well-formedness).
func FreeVariables(t Term) map[string]bool {
	free := make(map[string]bool)
	collectFreeVariables(t, free)
	return free
}

func collectFreeVariables(t Term, free map[string]bool) {
	switch v := t.(type) {
	case Variable:
		if !IsWildcardName(v.Name) {
			free[v.Name] = true
		}
	case SExpr:
		for _, c := range v.Children {
			collectFreeVariables(c, free)
		}
	}
}
