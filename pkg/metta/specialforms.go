package metta

// specialFormFunc handles an operator whose arguments must NOT be
// eagerly reduced by the evaluator's generic Cartesian-product step —
// control flow, quoting, memoization, and collapse all need to decide
// for themselves which of their arguments get evaluated, and how many
// times (spec.md §4.6, §4.9). Each receives the raw, unevaluated
// argument terms and the trampoline state needed to recurse back into
// evaluation.
type specialFormFunc func(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error)

var specialForms = map[string]specialFormFunc{
	"if":          evalIf,
	"let":         evalLet,
	"let*":        evalLetStar,
	"case":        evalCase,
	"quote":       evalQuote,
	"collapse":    evalCollapse,
	"memo":        evalMemo,
	"memo-first":  evalMemoFirst,
}

func evalQuote(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	if err := requireArity("quote", args, 1); err != nil {
		return nil, err
	}
	return []Term{args[0]}, nil
}

func evalCollapse(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	if err := requireArity("collapse", args, 1); err != nil {
		return nil, err
	}
	results, err := ev.evalChild(args[0], space, st)
	if err != nil {
		return nil, err
	}
	return []Term{SExpr{Children: results}}, nil
}

func evalIf(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	if err := requireArity("if", args, 3); err != nil {
		return nil, err
	}
	condResults, err := ev.evalChild(args[0], space, st)
	if err != nil {
		return nil, err
	}
	var out []Term
	for _, c := range condResults {
		b, ok := c.(Bool)
		if !ok {
			out = append(out, ErrorTerm(c, "if: condition did not reduce to Bool"))
			continue
		}
		branch := args[2]
		if b.Value {
			branch = args[1]
		}
		r, err := ev.evalChild(branch, space, st)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

// evalLet evaluates value, matches it (not just binds) against pattern
// so `(let (Pair $a $b) (get-pair) body)` destructures, and evaluates
// body with the resulting bindings substituted in (spec.md §4.6).
func evalLet(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	if err := requireArity("let", args, 3); err != nil {
		return nil, err
	}
	pattern, valueExpr, body := args[0], args[1], args[2]

	valueResults, err := ev.evalChild(valueExpr, space, st)
	if err != nil {
		return nil, err
	}
	var out []Term
	for _, v := range valueResults {
		bindings, ok := Match(pattern, v, EmptyBindings())
		if !ok {
			continue
		}
		instantiated, err := Substitute(body, bindings)
		if err != nil {
			return nil, err
		}
		r, err := ev.evalChild(instantiated, space, st)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

// evalLetStar sequences a list of (pattern value) pairs left to right,
// substituting each binding into the remaining pairs and the body
// before proceeding (spec.md §4.6).
func evalLetStar(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	if err := requireArity("let*", args, 2); err != nil {
		return nil, err
	}
	pairsExpr, ok := args[0].(SExpr)
	if !ok {
		return nil, argError("let*", "first argument must be a list of (pattern value) pairs")
	}
	return evalLetStarPairs(pairsExpr.Children, args[1], space, ev, st)
}

func evalLetStarPairs(pairs []Term, body Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	if len(pairs) == 0 {
		return ev.evalChild(body, space, st)
	}
	pair, ok := pairs[0].(SExpr)
	if !ok || len(pair.Children) != 2 {
		return nil, argError("let*", "each binding must be a (pattern value) pair")
	}
	pattern, valueExpr := pair.Children[0], pair.Children[1]

	valueResults, err := ev.evalChild(valueExpr, space, st)
	if err != nil {
		return nil, err
	}
	var out []Term
	for _, v := range valueResults {
		bindings, ok := Match(pattern, v, EmptyBindings())
		if !ok {
			continue
		}
		restPairs := make([]Term, len(pairs)-1)
		for i, p := range pairs[1:] {
			sp, err := Substitute(p, bindings)
			if err != nil {
				return nil, err
			}
			restPairs[i] = sp
		}
		restBody, err := Substitute(body, bindings)
		if err != nil {
			return nil, err
		}
		r, err := evalLetStarPairs(restPairs, restBody, space, ev, st)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

// evalCase tries each (pattern result) arm of args[1] in order against
// every result of evaluating the scrutinee, taking the first arm whose
// pattern matches (spec.md §4.6). A bare `_` pattern acts as a
// catch-all since Match treats the wildcard as always matching.
func evalCase(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	if err := requireArity("case", args, 2); err != nil {
		return nil, err
	}
	armsExpr, ok := args[1].(SExpr)
	if !ok {
		return nil, argError("case", "second argument must be a list of (pattern result) arms")
	}

	scrutineeResults, err := ev.evalChild(args[0], space, st)
	if err != nil {
		return nil, err
	}
	var out []Term
	for _, s := range scrutineeResults {
		for _, armTerm := range armsExpr.Children {
			arm, ok := armTerm.(SExpr)
			if !ok || len(arm.Children) != 2 {
				return nil, argError("case", "each arm must be a (pattern result) pair")
			}
			bindings, matched := Match(arm.Children[0], s, EmptyBindings())
			if !matched {
				continue
			}
			instantiated, err := Substitute(arm.Children[1], bindings)
			if err != nil {
				return nil, err
			}
			r, err := ev.evalChild(instantiated, space, st)
			if err != nil {
				return nil, err
			}
			out = append(out, r...)
			break
		}
	}
	return out, nil
}

func evalMemo(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	return memoImpl("memo", args, space, ev, st, false)
}

func evalMemoFirst(args []Term, space *Space, ev *Evaluator, st *evalState) ([]Term, error) {
	return memoImpl("memo-first", args, space, ev, st, true)
}
