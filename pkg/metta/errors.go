package metta

import "errors"

// Sentinel errors forming the taxonomy of §7. Hard errors short-circuit
// the call that produced them; soft failures (pattern-match misses) are
// never represented as errors, only as a negative return value.
var (
	ErrIllFormedRule        = errors.New("metta: ill-formed rule: free variables of rhs are not a subset of lhs")
	ErrCyclicBinding        = errors.New("metta: cyclic binding in substitution")
	ErrCyclicReduction      = errors.New("metta: cyclic reduction detected")
	ErrArithmetic           = errors.New("metta: arithmetic error")
	ErrTypeError            = errors.New("metta: type error")
	ErrStepLimitExceeded    = errors.New("metta: step limit exceeded")
	ErrDepthLimitExceeded   = errors.New("metta: depth limit exceeded")
	ErrCancelled            = errors.New("metta: evaluation cancelled")
	ErrInvalidBuiltinArity  = errors.New("metta: invalid built-in arity")
	ErrInvalidBuiltinArg    = errors.New("metta: invalid built-in argument")
	ErrUnknownMemoTable     = errors.New("metta: unknown memo table")
	ErrNotApplicable        = errors.New("metta: built-in does not apply, defer to user rules")
)

// ErrorTerm builds the canonical on-the-wire error representation
// `(Error <details> <message>)`. Both result-side spellings described in
// spec.md are accepted on input by builtins_error.go, but this
// constructor is the only way errors leave the evaluator, so output is
// always normalized to this spelling.
func ErrorTerm(details Term, message string) Term {
	return SExpr{Children: []Term{
		Atom{Name: "Error"},
		details,
		Str{Value: message},
	}}
}

// errorTermFromErr wraps a Go error as the evaluator's error term, using
// Nil as the details when none is more specific.
func errorTermFromErr(err error) Term {
	return ErrorTerm(Nil, err.Error())
}
