package metta

import (
	"context"
	"errors"
)

// Evaluator drives reduction of a term against a Space (spec.md §4.7).
// It holds no mutable state of its own beyond its configured budgets and
// output sink, so a single Evaluator can be shared across concurrent
// Eval calls against different (or the same) Space values.
type Evaluator struct {
	StepBudget  int
	DepthBudget int
	Sink        OutputSink
}

// NewEvaluator builds an Evaluator from cfg's budgets. A nil sink
// discards println! output.
func NewEvaluator(cfg Config, sink OutputSink) *Evaluator {
	cfg = cfg.normalize()
	if sink == nil {
		sink = DiscardSink{}
	}
	return &Evaluator{StepBudget: cfg.StepBudget, DepthBudget: cfg.DepthBudget, Sink: sink}
}

func (ev *Evaluator) stepBudget() int {
	if ev.StepBudget <= 0 {
		return DefaultStepBudget
	}
	return ev.StepBudget
}

func (ev *Evaluator) depthBudget() int {
	if ev.DepthBudget <= 0 {
		return DefaultDepthBudget
	}
	return ev.DepthBudget
}

// evalState threads trampoline bookkeeping through one top-level Eval
// call: a shared step counter, the current nesting depth, and a shared
// slot for the non-fatal type-check-auto diagnostics of spec.md §4.8,
// which are reported alongside (not instead of) the normal reduction.
type evalState struct {
	steps      *int
	depth      int
	typeErrors *[]Term
	ctx        context.Context
}

func newEvalState() *evalState {
	return &evalState{steps: new(int), depth: 0, typeErrors: &[]Term{}}
}

func (st *evalState) child() *evalState {
	return &evalState{steps: st.steps, depth: st.depth + 1, typeErrors: st.typeErrors, ctx: st.ctx}
}

// Eval is the sequential entry point (spec.md §6): `eval(term,
// environment) -> (result_list, environment')`. The environment is
// mutated in place by space-operation built-ins, so only the result
// list is returned; callers already hold the *Space they passed in.
func (ev *Evaluator) Eval(t Term, space *Space) []Term {
	st := newEvalState()
	results, err := ev.evalTop(t, space, st)
	if err != nil {
		return []Term{errorTermFromErr(err)}
	}
	return append(results, (*st.typeErrors)...)
}

// evalChild evaluates a subexpression one level deeper, sharing the
// parent's step counter and type-error slot but starting a fresh
// cycle-detection window — reused here as evalChild rather than
// recursing into evalTop directly so specialforms.go has one narrow
// entry point into the trampoline.
func (ev *Evaluator) evalChild(t Term, space *Space, parent *evalState) ([]Term, error) {
	return ev.evalTop(t, space, parent.child())
}

// evalTop is the trampolined reduction loop (spec.md §4.7). The common
// case — every child of an s-expression reduces to exactly one result,
// and exactly one rule matches — is handled by looping with t reset to
// the rewrite instead of recursing, so a long chain of rewrites (a
// recursive function call) advances in constant native stack. Anything
// that genuinely branches (non-singleton child results, or more than
// one matching rule) recurses once per branch; those branches are
// bounded by the program's own fan-out, not by rewrite-chain length.
func (ev *Evaluator) evalTop(t Term, space *Space, st *evalState) ([]Term, error) {
	seen := map[string]bool{}

	for {
		if st.ctx != nil {
			select {
			case <-st.ctx.Done():
				return nil, ErrCancelled
			default:
			}
		}
		if st.depth > ev.depthBudget() {
			space.Logger().Debug("depth limit exceeded", "depth", st.depth, "budget", ev.depthBudget())
			return nil, ErrDepthLimitExceeded
		}
		*st.steps++
		if *st.steps > ev.stepBudget() {
			space.Logger().Debug("step limit exceeded", "steps", *st.steps, "budget", ev.stepBudget())
			return nil, ErrStepLimitExceeded
		}

		if atom, isAtom := t.(Atom); isAtom {
			// Bare atoms only ever consult zero-arity user rules, not
			// builtins: the atom itself is also evaluated generically as
			// the head-position child of its enclosing s-expression below,
			// and a builtin dispatch here would see it with no arguments
			// instead of the full call's argument list.
			results, tail, derr := ev.dispatchRules(atom, space.WildcardRules(), space, st)
			if derr != nil {
				return nil, derr
			}
			if tail == nil {
				return results, nil
			}
			key := Canonicalize(atom)
			if seen[key] {
				return nil, ErrCyclicReduction
			}
			seen[key] = true
			t = tail
			st.depth++
			continue
		}

		sexpr, ok := t.(SExpr)
		if !ok {
			return []Term{t}, nil
		}
		if len(sexpr.Children) == 0 {
			return []Term{Nil}, nil
		}

		if head, ok := Head(t); ok {
			if sf, ok := specialForms[head]; ok {
				return sf(sexpr.Children[1:], space, ev, st)
			}
		}

		childResults := make([][]Term, len(sexpr.Children))
		allSingleton := true
		for i, c := range sexpr.Children {
			rs, err := ev.evalChild(c, space, st)
			if err != nil {
				return nil, err
			}
			childResults[i] = rs
			if len(rs) != 1 {
				allSingleton = false
			}
		}

		if !allSingleton {
			var out []Term
			for _, tuple := range cartesianProduct(childResults) {
				tprime := SExpr{Children: tuple}
				ev.recordTypeErrors(tprime, space, st)
				r, err := ev.evalTupleBranch(tprime, space, st)
				if err != nil {
					return nil, err
				}
				out = append(out, r...)
			}
			return out, nil
		}

		tuple := make([]Term, len(childResults))
		for i, rs := range childResults {
			tuple[i] = rs[0]
		}
		tprime := SExpr{Children: tuple}
		ev.recordTypeErrors(tprime, space, st)

		results, tail, err := ev.evalTupleStep(tprime, space, st)
		if err != nil {
			return nil, err
		}
		if tail == nil {
			return results, nil
		}

		key := Canonicalize(tprime)
		if seen[key] {
			return nil, ErrCyclicReduction
		}
		seen[key] = true

		t = tail
		st.depth++
	}
}

// evalTupleBranch fully resolves one Cartesian-product tuple, including
// following a single matched rule's rewrite recursively (each branch
// gets its own trampoline rather than looping in the caller, since the
// caller here is itself iterating over sibling branches).
func (ev *Evaluator) evalTupleBranch(tprime SExpr, space *Space, st *evalState) ([]Term, error) {
	results, tail, err := ev.evalTupleStep(tprime, space, st)
	if err != nil {
		return nil, err
	}
	if tail == nil {
		return results, nil
	}
	return ev.evalChild(tail, space, st)
}

// evalTupleStep performs one dispatch round on an already-reduced
// s-expression: built-ins first, then specificity-ordered user rules
// (spec.md §4.6, §4.7 step 4). When exactly one rule matches, it
// returns the rewritten term as tail instead of recursing, which is
// what lets evalTop loop instead of growing the call stack on long
// deterministic rewrite chains. When zero or several rules match, it
// resolves them directly and returns final results with a nil tail.
func (ev *Evaluator) evalTupleStep(tprime SExpr, space *Space, st *evalState) (results []Term, tail Term, err error) {
	if head, hasHead := Head(tprime); hasHead {
		if fn, ok := builtins[head]; ok {
			r, ferr := fn(tprime.Children[1:], space, ev)
			if ferr == nil {
				return r, nil, nil
			}
			if !errors.Is(ferr, ErrNotApplicable) {
				return nil, nil, ferr
			}
		}
	}

	return ev.dispatchRules(tprime, space.MatchingRules(tprime), space, st)
}

// dispatchRules resolves term against the specificity-ordered candidate
// rules (spec.md §4.4, §4.7 step 4): zero matches is a normal form, one
// match is returned as tail so evalTop can loop instead of recursing, and
// several matches are each resolved and concatenated directly. Shared by
// evalTupleStep (s-expression applications) and evalTop's bare-atom case
// (nullary applications, which never go through Head/MatchingRules since
// Head is only defined for s-expressions).
func (ev *Evaluator) dispatchRules(term Term, rules []Rule, space *Space, st *evalState) (results []Term, tail Term, err error) {
	if len(rules) == 0 {
		return []Term{term}, nil, nil
	}
	sortBySpecificity(rules)

	var matching []Rule
	var bindingsByRule []Bindings
	for _, rule := range rules {
		if b, ok := Match(rule.LHS, term, EmptyBindings()); ok {
			matching = append(matching, rule)
			bindingsByRule = append(bindingsByRule, b)
		}
	}
	if len(matching) == 0 {
		return []Term{term}, nil, nil
	}

	if len(matching) == 1 {
		rewritten, serr := Substitute(matching[0].RHS, bindingsByRule[0])
		if serr != nil {
			return nil, nil, serr
		}
		space.IncrementMultiplicity(matching[0].canonicalKey)
		return nil, rewritten, nil
	}

	var out []Term
	for i, rule := range matching {
		rewritten, serr := Substitute(rule.RHS, bindingsByRule[i])
		if serr != nil {
			return nil, nil, serr
		}
		space.IncrementMultiplicity(rule.canonicalKey)
		r, cerr := ev.evalChild(rewritten, space, st)
		if cerr != nil {
			return nil, nil, cerr
		}
		out = append(out, r...)
	}
	return out, nil, nil
}

func (ev *Evaluator) recordTypeErrors(tprime SExpr, space *Space, st *evalState) {
	if errTerm, ok := ev.typeCheckSoftError(tprime, space); ok {
		*st.typeErrors = append(*st.typeErrors, errTerm)
	}
}

// typeCheckSoftError implements the `(pragma! type-check auto)` policy
// of spec.md §4.8: it never aborts reduction, only appends a diagnostic.
func (ev *Evaluator) typeCheckSoftError(tprime SExpr, space *Space) (Term, bool) {
	if !space.Config().TypeCheckAuto {
		return nil, false
	}
	head, ok := Head(tprime)
	if !ok {
		return nil, false
	}
	headType, ok := space.GetType(head)
	if !ok {
		return nil, false
	}
	domain, _, isArrow := arrowParts(headType)
	if !isArrow {
		return nil, false
	}
	args := tprime.Children[1:]
	n := len(args)
	if n > len(domain) {
		n = len(domain)
	}
	for i := 0; i < n; i++ {
		if !typeCompatible(GetType(args[i], space), domain[i]) {
			return ErrorTerm(tprime, "type mismatch in argument "+itoa(i+1)+" of "+head), true
		}
	}
	return nil, false
}

// cartesianProduct enumerates every argument tuple over lists, in the
// lexicographic order spec.md §4.7/§8 requires (leftmost list varies
// slowest). An empty input yields a single empty tuple.
func cartesianProduct(lists [][]Term) [][]Term {
	result := [][]Term{{}}
	for _, list := range lists {
		var next [][]Term
		for _, prefix := range result {
			for _, item := range list {
				tuple := make([]Term, len(prefix)+1)
				copy(tuple, prefix)
				tuple[len(prefix)] = item
				next = append(next, tuple)
			}
		}
		result = next
	}
	return result
}

// RunProgram folds Eval across a program's top-level terms, returning
// the final term's result list (spec.md §6's run_program). The Space is
// threaded by reference, so earlier terms' add_rule/add_fact/add_type
// side effects are visible to later ones.
func (ev *Evaluator) RunProgram(terms []Term, space *Space) []Term {
	var last []Term
	for _, t := range terms {
		last = ev.Eval(t, space)
	}
	return last
}
