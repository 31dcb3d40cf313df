package metta

// Match performs a one-way pattern-to-term match: pattern may contain
// variables, term is matched as-is (ground or partially ground). On
// success it returns the bindings extending inherited, with ok true. On
// a shape or value mismatch it returns (nil, false) — a soft failure,
// never an error (spec §7: NoMatch never escapes as an error).
//
// Matching follows the five ordered rules of spec.md §4.3:
//  1. The wildcard matches anything without binding.
//  2. A variable already bound in inherited must be structurally
//     equivalent to term; otherwise it extends the bindings.
//  3. A ground leaf pattern must equal term by value.
//  4. An SExpr pattern requires term to be an SExpr of equal length,
//     matched pairwise left to right, bindings threaded through.
//  5. Any other shape combination fails.
func Match(pattern, term Term, inherited Bindings) (Bindings, bool) {
	switch p := pattern.(type) {
	case Variable:
		if IsWildcardName(p.Name) {
			return inherited, true
		}
		if existing, ok := inherited.Lookup(p.Name); ok {
			if StructuralEquivalent(existing, term) {
				return inherited, true
			}
			return nil, false
		}
		return inherited.extend(p.Name, term), true

	case SExpr:
		t, ok := term.(SExpr)
		if !ok || len(p.Children) != len(t.Children) {
			return nil, false
		}
		bindings := inherited
		for i := range p.Children {
			next, ok := Match(p.Children[i], t.Children[i], bindings)
			if !ok {
				return nil, false
			}
			bindings = next
		}
		return bindings, true

	default:
		// Ground leaf: success iff equal to term by value. Any other
		// term shape (including an SExpr) is a mismatch.
		if pattern.kind() != term.kind() {
			return nil, false
		}
		if groundEqual(pattern, term) {
			return inherited, true
		}
		return nil, false
	}
}
