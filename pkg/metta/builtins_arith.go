package metta

func init() {
	registerBuiltin("+", arith("+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }))
	registerBuiltin("add", builtins["+"])
	registerBuiltin("-", arith("-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }))
	registerBuiltin("sub", builtins["-"])
	registerBuiltin("*", arith("*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }))
	registerBuiltin("mul", builtins["*"])
	registerBuiltin("/", divBuiltin)
	registerBuiltin("div", divBuiltin)
}

// arith builds a two-operand arithmetic handler that promotes to Float on
// any mixed Int/Float pairing (spec.md §4.6).
func arith(op string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) BuiltinFunc {
	return func(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
		if err := requireArity(op, args, 2); err != nil {
			return nil, err
		}
		a, ok := asNumeric(args[0])
		if !ok {
			return nil, argError(op, "left operand is not a number")
		}
		b, ok := asNumeric(args[1])
		if !ok {
			return nil, argError(op, "right operand is not a number")
		}
		a, b, isFloat := promote(a, b)
		if isFloat {
			return []Term{Float{Value: floatOp(a.f, b.f)}}, nil
		}
		return []Term{Int{Value: intOp(a.i, b.i)}}, nil
	}
}

func divBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("/", args, 2); err != nil {
		return nil, err
	}
	a, ok := asNumeric(args[0])
	if !ok {
		return nil, argError("/", "left operand is not a number")
	}
	b, ok := asNumeric(args[1])
	if !ok {
		return nil, argError("/", "right operand is not a number")
	}
	a, b, isFloat := promote(a, b)
	if isFloat {
		if b.f == 0 {
			return nil, ErrArithmetic
		}
		return []Term{Float{Value: a.f / b.f}}, nil
	}
	if b.i == 0 {
		return nil, ErrArithmetic
	}
	// Integer division truncates toward zero, matching Go's native /.
	return []Term{Int{Value: a.i / b.i}}, nil
}
