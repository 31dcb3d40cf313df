// Package metta implements the core evaluation engine of a MeTTa
// interpreter: a term-rewriting system over symbolic S-expressions with
// pattern matching, variable unification, user-defined rewrite rules, an
// indexed rule/fact database (Space), a gradual type system, and
// memoization.
//
// The package treats the source grammar, REPL, and packaging as external
// collaborators. It takes already-built Term values as input and
// exposes evaluation through Eval, EvalAsync, and RunProgram.
package metta

import (
	"fmt"
	"math"
	"strings"
)

// Term is a value in the MeTTa universe: an atom, a variable, one of the
// ground leaf kinds, or an s-expression. Implementations are immutable;
// nothing in this package mutates a Term after construction.
type Term interface {
	// String renders a human-readable form, used for diagnostics and as
	// the basis of canonical serialization.
	String() string

	// kind distinguishes the concrete variant without a type switch at
	// every call site.
	kind() termKind
}

type termKind int

const (
	kindAtom termKind = iota
	kindVariable
	kindBool
	kindInt
	kindFloat
	kindStr
	kindUri
	kindNil
	kindSExpr
)

// Atom is a bare symbol: an identifier or operator name.
type Atom struct{ Name string }

func (a Atom) String() string { return a.Name }
func (Atom) kind() termKind   { return kindAtom }

// Variable is an atom whose textual form begins with one of the
// recognized sigils ($, &, ') or is the wildcard "_". The sigil is part
// of Name and is never stripped by substitution.
type Variable struct{ Name string }

func (v Variable) String() string { return v.Name }
func (Variable) kind() termKind   { return kindVariable }

// Wildcard is the distinguished variable that matches anything without
// producing a binding.
const Wildcard = "_"

// IsWildcardName reports whether a variable's name is the wildcard.
func IsWildcardName(name string) bool { return name == Wildcard }

// variableSigils lists the prefixes that mark an atom as a variable.
var variableSigils = [...]byte{'$', '&', '\''}

// IsVariableName reports whether name would be classified as a variable
// (by sigil) or is the wildcard.
func IsVariableName(name string) bool {
	if name == "" {
		return false
	}
	if IsWildcardName(name) {
		return true
	}
	for _, s := range variableSigils {
		if name[0] == s {
			return true
		}
	}
	return false
}

// Bool is a boolean leaf.
type Bool struct{ Value bool }

func (b Bool) String() string { return fmt.Sprintf("%t", b.Value) }
func (Bool) kind() termKind   { return kindBool }

// Int is a 64-bit signed integer leaf.
type Int struct{ Value int64 }

func (i Int) String() string { return fmt.Sprintf("%d", i.Value) }
func (Int) kind() termKind   { return kindInt }

// Float is a 64-bit floating point leaf. Equality and hashing use the
// IEEE 754 bit pattern, so NaN and -0.0 behave deterministically as map
// keys and in pattern matching.
type Float struct{ Value float64 }

func (f Float) String() string { return fmt.Sprintf("%g", f.Value) }
func (Float) kind() termKind   { return kindFloat }

// Bits returns the IEEE 754 bit pattern used for equality and hashing.
func (f Float) Bits() uint64 { return math.Float64bits(f.Value) }

// Str is a string leaf.
type Str struct{ Value string }

func (s Str) String() string { return fmt.Sprintf("%q", s.Value) }
func (Str) kind() termKind   { return kindStr }

// Uri is a URI leaf, kept distinct from Str so built-ins can treat the
// two categories differently if needed.
type Uri struct{ Value string }

func (u Uri) String() string { return u.Value }
func (Uri) kind() termKind   { return kindUri }

// NilTerm is the empty/unit leaf.
type NilTerm struct{}

func (NilTerm) String() string { return "()" }
func (NilTerm) kind() termKind { return kindNil }

// Nil is the canonical NilTerm value.
var Nil Term = NilTerm{}

// SExpr is an ordered sequence of terms: the only recursive form. An
// empty SExpr is distinct from Nil (the evaluator normalizes an empty
// application, but the term model keeps them as separate constructors).
type SExpr struct{ Children []Term }

func (s SExpr) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range s.Children {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(')')
	return b.String()
}
func (SExpr) kind() termKind { return kindSExpr }

// NewAtom is a convenience constructor for an Atom term. Boolean results
// are Bool terms, not atoms.
func NewAtom(name string) Term { return Atom{Name: name} }

// NewVariable constructs a Variable term. Callers are responsible for
// the name carrying a valid sigil or being the wildcard; the matcher
// does not validate this on every call (see IsVariableName for a
// validating check at construction boundaries, e.g. the compiler front
// end).
func NewVariable(name string) Term { return Variable{Name: name} }

// Head returns the head symbol of an s-expression: the name of its
// first child if that child is an Atom. For any other shape, ok is
// false.
func Head(t Term) (name string, ok bool) {
	s, isExpr := t.(SExpr)
	if !isExpr || len(s.Children) == 0 {
		return "", false
	}
	a, isAtom := s.Children[0].(Atom)
	if !isAtom {
		return "", false
	}
	return a.Name, true
}

// Arity returns the number of arguments of an s-expression (children
// minus the head). For any other term shape, arity is 0.
func Arity(t Term) int {
	s, ok := t.(SExpr)
	if !ok || len(s.Children) == 0 {
		return 0
	}
	return len(s.Children) - 1
}

// Args returns the argument terms of an s-expression (children after
// the head), or nil if t has no head.
func Args(t Term) []Term {
	s, ok := t.(SExpr)
	if !ok || len(s.Children) == 0 {
		return nil
	}
	return s.Children[1:]
}

// IsVariable reports whether t is a Variable (including the wildcard).
func IsVariable(t Term) bool {
	_, ok := t.(Variable)
	return ok
}

// IsWildcard reports whether t is the wildcard variable.
func IsWildcard(t Term) bool {
	v, ok := t.(Variable)
	return ok && IsWildcardName(v.Name)
}

// IsGround reports whether t contains no Variable, transitively.
func IsGround(t Term) bool { return !ContainsVariable(t) }

// ContainsVariable recursively scans t for any Variable occurrence.
func ContainsVariable(t Term) bool {
	switch v := t.(type) {
	case Variable:
		return true
	case SExpr:
		for _, c := range v.Children {
			if ContainsVariable(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Depth returns the nesting depth of a term: 0 for leaves, 1 +
// max(child depths) for an s-expression.
func Depth(t Term) int {
	s, ok := t.(SExpr)
	if !ok {
		return 0
	}
	max := 0
	for _, c := range s.Children {
		if d := Depth(c); d > max {
			max = d
		}
	}
	return max + 1
}

// groundEqual compares two ground leaf terms by value. Float comparison
// uses the bit pattern so NaN and -0.0 are deterministic.
func groundEqual(a, b Term) bool {
	switch av := a.(type) {
	case Atom:
		bv, ok := b.(Atom)
		return ok && av.Name == bv.Name
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Int:
		bv, ok := b.(Int)
		return ok && av.Value == bv.Value
	case Float:
		bv, ok := b.(Float)
		return ok && av.Bits() == bv.Bits()
	case Str:
		bv, ok := b.(Str)
		return ok && av.Value == bv.Value
	case Uri:
		bv, ok := b.(Uri)
		return ok && av.Value == bv.Value
	case NilTerm:
		_, ok := b.(NilTerm)
		return ok
	default:
		return false
	}
}

// StructuralEquivalent reports whether a and b are α-equivalent:
// structurally equal up to a consistent bijection of variable names. It
// is reflexive, symmetric, and transitive (P4).
func StructuralEquivalent(a, b Term) bool {
	fwd := make(map[string]string)
	bwd := make(map[string]string)
	return alphaEqual(a, b, fwd, bwd)
}

func alphaEqual(a, b Term, fwd, bwd map[string]string) bool {
	av, aIsVar := a.(Variable)
	bv, bIsVar := b.(Variable)
	if aIsVar != bIsVar {
		return false
	}
	if aIsVar {
		// The wildcard never binds, so two wildcards are equivalent to
		// each other but not to any other variable, by name.
		if IsWildcardName(av.Name) || IsWildcardName(bv.Name) {
			return av.Name == bv.Name
		}
		if mapped, ok := fwd[av.Name]; ok {
			return mapped == bv.Name
		}
		if mapped, ok := bwd[bv.Name]; ok {
			return mapped == av.Name
		}
		fwd[av.Name] = bv.Name
		bwd[bv.Name] = av.Name
		return true
	}

	aExpr, aIsExpr := a.(SExpr)
	bExpr, bIsExpr := b.(SExpr)
	if aIsExpr != bIsExpr {
		return false
	}
	if aIsExpr {
		if len(aExpr.Children) != len(bExpr.Children) {
			return false
		}
		for i := range aExpr.Children {
			if !alphaEqual(aExpr.Children[i], bExpr.Children[i], fwd, bwd) {
				return false
			}
		}
		return true
	}

	if a.kind() != b.kind() {
		return false
	}
	return groundEqual(a, b)
}

// Exact reports whether a and b are identical terms: the same shape,
// same leaf values, and (unlike StructuralEquivalent) the same variable
// names rather than merely a consistent renaming.
func Exact(a, b Term) bool {
	av, aIsVar := a.(Variable)
	bv, bIsVar := b.(Variable)
	if aIsVar || bIsVar {
		return aIsVar && bIsVar && av.Name == bv.Name
	}
	aExpr, aIsExpr := a.(SExpr)
	bExpr, bIsExpr := b.(SExpr)
	if aIsExpr != bIsExpr {
		return false
	}
	if aIsExpr {
		if len(aExpr.Children) != len(bExpr.Children) {
			return false
		}
		for i := range aExpr.Children {
			if !Exact(aExpr.Children[i], bExpr.Children[i]) {
				return false
			}
		}
		return true
	}
	if a.kind() != b.kind() {
		return false
	}
	return groundEqual(a, b)
}
