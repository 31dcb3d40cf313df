// Package main demonstrates the core evaluator against a few small
// programs built directly out of metta.Term values, standing in for the
// external compiler front end the package itself never implements.
package main

import (
	"fmt"
	"os"

	"github.com/metta-run/metta-core/pkg/metta"
)

func main() {
	fmt.Println("=== metta-core examples ===")
	fmt.Println()

	arithmeticExample()
	ruleDispatchExample()
	specificityExample()
	cartesianProductExample()
	fibonacciMemoExample()
	cycleDetectionExample()
}

// arithmeticExample evaluates a bare built-in call.
func arithmeticExample() {
	fmt.Println("1. Arithmetic built-in:")

	space := metta.NewSpace(metta.DefaultConfig())
	ev := metta.NewEvaluator(space.Config(), metta.WriterSink{W: os.Stdout})

	expr := sexpr(metta.NewAtom("add"), metta.Int{Value: 1}, metta.Int{Value: 2})
	results := ev.Eval(expr, space)
	fmt.Printf("   (add 1 2) => %v\n\n", results)
}

// ruleDispatchExample shows head+arity indexed rule lookup.
func ruleDispatchExample() {
	fmt.Println("2. Rule dispatch with indexing:")

	space := metta.NewSpace(metta.DefaultConfig())
	ev := metta.NewEvaluator(space.Config(), nil)

	// (= (double $x) (mul $x 2))
	lhs := sexpr(metta.NewAtom("double"), metta.NewVariable("$x"))
	rhs := sexpr(metta.NewAtom("mul"), metta.NewVariable("$x"), metta.Int{Value: 2})
	if err := space.AddRule(lhs, rhs); err != nil {
		fmt.Println("   error:", err)
		return
	}

	results := ev.Eval(sexpr(metta.NewAtom("double"), metta.Int{Value: 7}), space)
	fmt.Printf("   (double 7) => %v\n\n", results)
}

// specificityExample shows a ground rule outranking a variable rule.
func specificityExample() {
	fmt.Println("3. Specificity ordering:")

	space := metta.NewSpace(metta.DefaultConfig())
	ev := metta.NewEvaluator(space.Config(), nil)

	space.AddRule(sexpr(metta.NewAtom("f"), metta.Int{Value: 0}), metta.NewAtom("A"))
	space.AddRule(sexpr(metta.NewAtom("f"), metta.NewVariable("$x")), metta.NewAtom("B"))

	results := ev.Eval(sexpr(metta.NewAtom("f"), metta.Int{Value: 0}), space)
	fmt.Printf("   (f 0) => %v\n\n", results)
}

// cartesianProductExample shows non-deterministic rules fanning out.
func cartesianProductExample() {
	fmt.Println("4. Cartesian product over non-deterministic rules:")

	space := metta.NewSpace(metta.DefaultConfig())
	ev := metta.NewEvaluator(space.Config(), nil)

	space.AddRule(metta.NewAtom("a"), metta.Int{Value: 1})
	space.AddRule(metta.NewAtom("a"), metta.Int{Value: 2})
	space.AddRule(metta.NewAtom("b"), metta.Int{Value: 10})
	space.AddRule(metta.NewAtom("b"), metta.Int{Value: 20})

	results := ev.Eval(sexpr(metta.NewAtom("add"), metta.NewAtom("a"), metta.NewAtom("b")), space)
	fmt.Printf("   (add a b) => %v\n\n", results)
}

// fibonacciMemoExample demonstrates memoized recursion staying within a
// small number of entries for a moderately deep call.
func fibonacciMemoExample() {
	fmt.Println("5. Fibonacci with memoization:")

	space := metta.NewSpace(metta.DefaultConfig())
	ev := metta.NewEvaluator(space.Config(), nil)
	space.NewMemo("fib-cache")

	// (= (fib $n) (if (< $n 2) $n
	//                 (memo "fib-cache" (add (fib (sub $n 1)) (fib (sub $n 2))))))
	// Every matching rule fires, so the base cases are an if guard rather
	// than separate (fib 0)/(fib 1) rules that (fib $n) would also match.
	n := metta.NewVariable("$n")
	body := sexpr(
		metta.NewAtom("if"),
		sexpr(metta.NewAtom("<"), n, metta.Int{Value: 2}),
		n,
		sexpr(
			metta.NewAtom("memo"),
			metta.Str{Value: "fib-cache"},
			sexpr(
				metta.NewAtom("add"),
				sexpr(metta.NewAtom("fib"), sexpr(metta.NewAtom("sub"), n, metta.Int{Value: 1})),
				sexpr(metta.NewAtom("fib"), sexpr(metta.NewAtom("sub"), n, metta.Int{Value: 2})),
			),
		),
	)
	space.AddRule(sexpr(metta.NewAtom("fib"), n), body)

	results := ev.Eval(sexpr(metta.NewAtom("fib"), metta.Int{Value: 20}), space)
	fmt.Printf("   (fib 20) => %v\n", results)

	if table, ok := space.Memo("fib-cache"); ok {
		fmt.Printf("   memo-stats => %+v\n\n", table.Stats())
	}
}

// cycleDetectionExample shows a directly self-recursive rule aborting
// with CyclicReduction rather than looping forever.
func cycleDetectionExample() {
	fmt.Println("6. Cycle detection:")

	space := metta.NewSpace(metta.DefaultConfig())
	ev := metta.NewEvaluator(space.Config(), nil)

	x := metta.NewVariable("$x")
	space.AddRule(sexpr(metta.NewAtom("loop"), x), sexpr(metta.NewAtom("loop"), x))

	results := ev.Eval(sexpr(metta.NewAtom("loop"), metta.Int{Value: 1}), space)
	fmt.Printf("   (loop 1) => %v\n", results)
}

func sexpr(children ...metta.Term) metta.Term {
	return metta.SExpr{Children: children}
}
