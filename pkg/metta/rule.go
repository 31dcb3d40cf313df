package metta

// Rule is an ordered pair (lhs, rhs) representing `(= lhs rhs)`.
// Well-formedness requires the free variables of rhs to be a subset of
// the free variables of lhs (spec.md §3); AddRule rejects any rule that
// violates this with ErrIllFormedRule.
type Rule struct {
	LHS Term
	RHS Term

	specificity specificity
	canonicalKey string
}

// specificity is the small tuple cached on a Rule at insertion time and
// used to break ties when multiple rules match the same expression
// (spec.md §4.5, §9): a fully ground LHS outranks any LHS with a
// variable; among LHSs of equal ground/non-ground status, a deeper LHS
// outranks a shallower one; among equal depth, fewer distinct variables
// outranks more; remaining ties fall back to insertion order.
type specificity struct {
	ground           bool
	depth            int
	distinctVarCount int
	insertionSeq     int
}

// moreSpecific reports whether a ranks ahead of b in specificity order
// (a should be tried, and should appear in results, before b).
func (a specificity) moreSpecific(b specificity) bool {
	if a.ground != b.ground {
		return a.ground // ground beats non-ground
	}
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	if a.distinctVarCount != b.distinctVarCount {
		return a.distinctVarCount < b.distinctVarCount
	}
	return a.insertionSeq < b.insertionSeq
}

// newRule validates and constructs a Rule, computing its specificity
// and canonical key. seq is the insertion sequence number assigned by
// the owning Space.
func newRule(lhs, rhs Term, seq int) (Rule, error) {
	lhsFree := FreeVariables(lhs)
	rhsFree := FreeVariables(rhs)
	for name := range rhsFree {
		if !lhsFree[name] {
			return Rule{}, ErrIllFormedRule
		}
	}

	return Rule{
		LHS: lhs,
		RHS: rhs,
		specificity: specificity{
			ground:           IsGround(lhs),
			depth:            Depth(lhs),
			distinctVarCount: len(lhsFree),
			insertionSeq:     seq,
		},
		canonicalKey: Canonicalize(lhs),
	}, nil
}

// sortBySpecificity orders rules most-specific first, stable on
// insertion order for genuine ties (specificity already embeds
// insertionSeq as the final tiebreaker, so any stable or unstable sort
// is equivalent; insertion sort is used here because the matching-rule
// lists this runs over are small in practice).
func sortBySpecificity(rules []Rule) {
	for i := 1; i < len(rules); i++ {
		j := i
		for j > 0 && rules[j].specificity.moreSpecific(rules[j-1].specificity) {
			rules[j], rules[j-1] = rules[j-1], rules[j]
			j--
		}
	}
}
