package metta_test

import (
	"testing"

	"github.com/metta-run/metta-core/pkg/metta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator() (*metta.Evaluator, *metta.Space) {
	space := metta.NewSpace(metta.DefaultConfig())
	return metta.NewEvaluator(space.Config(), nil), space
}

func sx(children ...metta.Term) metta.Term {
	return metta.SExpr{Children: children}
}

func TestEvalArithmeticBuiltin(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("add"), metta.Int{Value: 1}, metta.Int{Value: 2}), space)
	require.Len(t, results, 1)
	assert.Equal(t, metta.Int{Value: 3}, results[0])
}

func TestEvalRuleDispatchWithIndexing(t *testing.T) {
	ev, space := newTestEvaluator()
	for i := 0; i < 999; i++ {
		head := "unrelated" + string(rune('A'+i%26)) + string(rune('0'+i%10))
		space.AddRule(sx(metta.NewAtom(head), metta.NewVariable("$y")), metta.NewVariable("$y"))
	}
	space.AddRule(sx(metta.NewAtom("double"), metta.NewVariable("$x")), sx(metta.NewAtom("mul"), metta.NewVariable("$x"), metta.Int{Value: 2}))

	results := ev.Eval(sx(metta.NewAtom("double"), metta.Int{Value: 7}), space)
	require.Len(t, results, 1)
	assert.Equal(t, metta.Int{Value: 14}, results[0])
}

func TestEvalSpecificityOrdering(t *testing.T) {
	ev, space := newTestEvaluator()
	space.AddRule(sx(metta.NewAtom("f"), metta.Int{Value: 0}), metta.NewAtom("A"))
	space.AddRule(sx(metta.NewAtom("f"), metta.NewVariable("$x")), metta.NewAtom("B"))

	results := ev.Eval(sx(metta.NewAtom("f"), metta.Int{Value: 0}), space)
	require.Len(t, results, 2)
	assert.Equal(t, metta.NewAtom("A"), results[0])
	assert.Equal(t, metta.NewAtom("B"), results[1])
}

func TestEvalCartesianProduct(t *testing.T) {
	ev, space := newTestEvaluator()
	space.AddRule(metta.NewAtom("a"), metta.Int{Value: 1})
	space.AddRule(metta.NewAtom("a"), metta.Int{Value: 2})
	space.AddRule(metta.NewAtom("b"), metta.Int{Value: 10})
	space.AddRule(metta.NewAtom("b"), metta.Int{Value: 20})

	results := ev.Eval(sx(metta.NewAtom("add"), metta.NewAtom("a"), metta.NewAtom("b")), space)
	want := []int64{11, 21, 12, 22}
	require.Len(t, results, len(want))
	for i, w := range want {
		assert.Equal(t, metta.Int{Value: w}, results[i])
	}
}

func TestEvalFibonacciWithMemo(t *testing.T) {
	ev, space := newTestEvaluator()
	space.NewMemo("fib-cache")

	// Every matching rule fires, so the base cases live in an if guard
	// rather than in separate (fib 0)/(fib 1) rules that (fib $n) would
	// also match.
	n := metta.NewVariable("$n")
	body := sx(
		metta.NewAtom("if"),
		sx(metta.NewAtom("<"), n, metta.Int{Value: 2}),
		n,
		sx(
			metta.NewAtom("memo"),
			metta.Str{Value: "fib-cache"},
			sx(
				metta.NewAtom("add"),
				sx(metta.NewAtom("fib"), sx(metta.NewAtom("sub"), n, metta.Int{Value: 1})),
				sx(metta.NewAtom("fib"), sx(metta.NewAtom("sub"), n, metta.Int{Value: 2})),
			),
		),
	)
	space.AddRule(sx(metta.NewAtom("fib"), n), body)

	results := ev.Eval(sx(metta.NewAtom("fib"), metta.Int{Value: 20}), space)
	require.Len(t, results, 1)
	assert.Equal(t, metta.Int{Value: 6765}, results[0])

	table, ok := space.Memo("fib-cache")
	require.True(t, ok)
	assert.Greater(t, table.Stats().Hits, int64(0))
}

func TestEvalCyclicReduction(t *testing.T) {
	ev, space := newTestEvaluator()
	x := metta.NewVariable("$x")
	space.AddRule(sx(metta.NewAtom("loop"), x), sx(metta.NewAtom("loop"), x))

	results := ev.Eval(sx(metta.NewAtom("loop"), metta.Int{Value: 1}), space)
	require.Len(t, results, 1)
	errTerm, ok := results[0].(metta.SExpr)
	require.True(t, ok)
	require.Len(t, errTerm.Children, 3)
	assert.Equal(t, metta.NewAtom("Error"), errTerm.Children[0])
}

func TestEvalIfShortCircuits(t *testing.T) {
	ev, space := newTestEvaluator()
	cond := metta.Bool{Value: true}
	thenBranch := metta.Int{Value: 1}
	elseBranch := sx(metta.NewAtom("loop-forever")) // never evaluated: no rule exists for it
	results := ev.Eval(sx(metta.NewAtom("if"), cond, thenBranch, elseBranch), space)
	require.Len(t, results, 1)
	assert.Equal(t, metta.Int{Value: 1}, results[0])
}

func TestEvalLetDestructures(t *testing.T) {
	ev, space := newTestEvaluator()
	pattern := sx(metta.NewAtom("Pair"), metta.NewVariable("$a"), metta.NewVariable("$b"))
	value := sx(metta.NewAtom("Pair"), metta.Int{Value: 1}, metta.Int{Value: 2})
	body := sx(metta.NewAtom("add"), metta.NewVariable("$a"), metta.NewVariable("$b"))

	results := ev.Eval(sx(metta.NewAtom("let"), pattern, value, body), space)
	require.Len(t, results, 1)
	assert.Equal(t, metta.Int{Value: 3}, results[0])
}

func TestEvalQuoteDoesNotEvaluate(t *testing.T) {
	ev, space := newTestEvaluator()
	unevaluated := sx(metta.NewAtom("add"), metta.Int{Value: 1}, metta.Int{Value: 2})
	results := ev.Eval(sx(metta.NewAtom("quote"), unevaluated), space)
	require.Len(t, results, 1)
	assert.Equal(t, unevaluated, results[0])
}

func TestEvalCollapseAndSuperposeRoundTrip(t *testing.T) {
	ev, space := newTestEvaluator()
	space.AddRule(metta.NewAtom("a"), metta.Int{Value: 1})
	space.AddRule(metta.NewAtom("a"), metta.Int{Value: 2})

	collapsed := ev.Eval(sx(metta.NewAtom("collapse"), metta.NewAtom("a")), space)
	require.Len(t, collapsed, 1)

	spread := ev.Eval(sx(metta.NewAtom("superpose"), sx(metta.NewAtom("quote"), collapsed[0])), space)
	require.Len(t, spread, 2)
}

func TestEvalDivisionByZeroIsArithmeticError(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("div"), metta.Int{Value: 1}, metta.Int{Value: 0}), space)
	require.Len(t, results, 1)
	errTerm, ok := results[0].(metta.SExpr)
	require.True(t, ok)
	assert.Equal(t, metta.NewAtom("Error"), errTerm.Children[0])
}

func TestEvalEmptySExprIsNil(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(metta.SExpr{}, space)
	require.Len(t, results, 1)
	assert.Equal(t, metta.Nil, results[0])
}
