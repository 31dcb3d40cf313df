package metta

// Bindings maps a variable name to the term it is bound to during a
// single match or substitution call. Expected cardinality is small
// (spec: typically ≤8 entries per rule), so a plain map kept small and
// copied on write is preferable to a more elaborate persistent
// structure — the same tradeoff the teacher's Substitution type makes
// in core.go.
type Bindings map[string]Term

// EmptyBindings returns a fresh, empty binding map.
func EmptyBindings() Bindings { return Bindings{} }

// Lookup returns the term bound to name and whether it was present.
func (b Bindings) Lookup(name string) (Term, bool) {
	t, ok := b[name]
	return t, ok
}

// extend returns a new Bindings with name bound to t, leaving b
// unmodified. Matching success-with-no-new-binding branches (ground
// leaf equality, wildcard) never call this, so they stay allocation
// free per the matcher's contract.
func (b Bindings) extend(name string, t Term) Bindings {
	next := make(Bindings, len(b)+1)
	for k, v := range b {
		next[k] = v
	}
	next[name] = t
	return next
}

// Clone returns an independent copy of b.
func (b Bindings) Clone() Bindings {
	next := make(Bindings, len(b))
	for k, v := range b {
		next[k] = v
	}
	return next
}
