package metta

func init() {
	registerBuiltin("<", compareOp("<", func(c int) bool { return c < 0 }))
	registerBuiltin("lt", builtins["<"])
	registerBuiltin("<=", compareOp("<=", func(c int) bool { return c <= 0 }))
	registerBuiltin("lte", builtins["<="])
	registerBuiltin(">", compareOp(">", func(c int) bool { return c > 0 }))
	registerBuiltin("gt", builtins[">"])
	registerBuiltin(">=", compareOp(">=", func(c int) bool { return c >= 0 }))
	registerBuiltin("gte", builtins[">="])
	registerBuiltin("==", compareOp("==", func(c int) bool { return c == 0 }))
	registerBuiltin("eq", builtins["=="])
	registerBuiltin("!=", compareOp("!=", func(c int) bool { return c != 0 }))
	registerBuiltin("neq", builtins["!="])
}

// category classifies an operand for the same-category rule of
// spec.md §4.6: numbers compare against numbers, strings against
// strings, atoms against atoms; any other pairing is a TypeError.
type category int

const (
	categoryNone category = iota
	categoryNumber
	categoryString
	categoryAtom
)

func classify(t Term) category {
	switch t.(type) {
	case Int, Float:
		return categoryNumber
	case Str:
		return categoryString
	case Atom:
		return categoryAtom
	default:
		return categoryNone
	}
}

// compare3 returns a three-way comparison of a and b, assuming they share
// a category, or ok=false if the category doesn't support ordering
// (atoms only support equality, not <, <=, >, >=).
func compare3(a, b Term) (cmp int, ok bool) {
	switch av := a.(type) {
	case Int, Float:
		an, _ := asNumeric(a)
		bn, _ := asNumeric(b)
		an, bn, _ = promote(an, bn)
		switch {
		case an.isFloat && an.f < bn.f:
			return -1, true
		case an.isFloat && an.f > bn.f:
			return 1, true
		case an.isFloat:
			return 0, true
		case an.i < bn.i:
			return -1, true
		case an.i > bn.i:
			return 1, true
		default:
			return 0, true
		}
	case Str:
		bv := b.(Str)
		switch {
		case av.Value < bv.Value:
			return -1, true
		case av.Value > bv.Value:
			return 1, true
		default:
			return 0, true
		}
	case Atom:
		bv := b.(Atom)
		if av.Name == bv.Name {
			return 0, true
		}
		return -1, false // atoms: only equality is meaningful, ordering is undefined
	default:
		return 0, false
	}
}

func compareOp(op string, accept func(cmp int) bool) BuiltinFunc {
	return func(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
		if err := requireArity(op, args, 2); err != nil {
			return nil, err
		}
		ca, cb := classify(args[0]), classify(args[1])
		if ca == categoryNone || ca != cb {
			return nil, ErrTypeError
		}
		if ca == categoryAtom && op != "==" && op != "!=" {
			return nil, ErrTypeError // atoms are never ordered, even when equal
		}
		cmp, ok := compare3(args[0], args[1])
		if !ok {
			if op == "==" || op == "eq" {
				return []Term{Bool{Value: false}}, nil
			}
			if op == "!=" || op == "neq" {
				return []Term{Bool{Value: true}}, nil
			}
			return nil, ErrTypeError
		}
		return []Term{Bool{Value: accept(cmp)}}, nil
	}
}
