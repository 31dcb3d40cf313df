package metta

import (
	"context"
	"sync"

	"github.com/metta-run/metta-core/internal/parallel"
)

// EvalAsync is the parallel evaluation entry point of spec.md §4.7/§6.
// It distributes independent Cartesian-product branches across a worker
// pool, each worker running its own trampoline (its own evalState), and
// reassembles results by branch index so ordering matches the
// sequential Eval path exactly (spec.md §5: "within a single
// Cartesian-product expansion, results from tuple i appear before tuple
// i+1"). Cancellation is checked between trampoline steps by embedding
// ctx in the evalState that flows through every recursive call.
func (ev *Evaluator) EvalAsync(ctx context.Context, t Term, space *Space, pool *parallel.WorkerPool) ([]Term, error) {
	if pool == nil {
		return ev.Eval(t, space), nil
	}

	sexpr, ok := t.(SExpr)
	if !ok || len(sexpr.Children) == 0 {
		return ev.Eval(t, space), nil
	}
	if _, isSpecial := specialForms[mustHeadOrEmpty(t)]; isSpecial {
		// Special forms control their own evaluation order (e.g. if's
		// short-circuit) and are not safe to fan out blindly; run them
		// on the sequential path.
		return ev.Eval(t, space), nil
	}

	n := len(sexpr.Children)
	childResults := make([][]Term, n)
	childErrs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, c := range sexpr.Children {
		i, c := i, c
		submitErr := pool.Submit(ctx, func() {
			defer wg.Done()
			st := newEvalState()
			st.ctx = ctx
			rs, err := ev.evalTop(c, space, st)
			childResults[i] = rs
			childErrs[i] = err
		})
		if submitErr != nil {
			wg.Done()
			childErrs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range childErrs {
		if err != nil {
			return []Term{errorTermFromErr(err)}, nil
		}
	}

	tuples := cartesianProduct(childResults)
	branchResults := make([][]Term, len(tuples))
	branchErrs := make([]error, len(tuples))

	var bwg sync.WaitGroup
	bwg.Add(len(tuples))
	for i, tuple := range tuples {
		i, tuple := i, tuple
		submitErr := pool.Submit(ctx, func() {
			defer bwg.Done()
			st := newEvalState()
			st.ctx = ctx
			tprime := SExpr{Children: tuple}
			r, err := ev.evalTupleBranch(tprime, space, st)
			branchResults[i] = r
			branchErrs[i] = err
		})
		if submitErr != nil {
			bwg.Done()
			branchErrs[i] = submitErr
		}
	}
	bwg.Wait()

	var out []Term
	for i, err := range branchErrs {
		if err != nil {
			return []Term{errorTermFromErr(err)}, nil
		}
		out = append(out, branchResults[i]...)
	}
	return out, nil
}

func mustHeadOrEmpty(t Term) string {
	head, ok := Head(t)
	if !ok {
		return ""
	}
	return head
}
