package metta_test

import (
	"testing"

	"github.com/metta-run/metta-core/pkg/metta"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeIsStableForEqualTerms(t *testing.T) {
	a := sx(metta.NewAtom("f"), metta.Int{Value: 1}, metta.Str{Value: "x"})
	b := sx(metta.NewAtom("f"), metta.Int{Value: 1}, metta.Str{Value: "x"})
	assert.Equal(t, metta.Canonicalize(a), metta.Canonicalize(b))
}

func TestCanonicalizeAlphaNormalizesVariables(t *testing.T) {
	a := sx(metta.NewAtom("f"), metta.NewVariable("$x"), metta.NewVariable("$x"))
	b := sx(metta.NewAtom("f"), metta.NewVariable("$y"), metta.NewVariable("$y"))
	assert.Equal(t, metta.Canonicalize(a), metta.Canonicalize(b))
}

func TestCanonicalizeDistinguishesDifferentVariableIdentity(t *testing.T) {
	same := sx(metta.NewAtom("f"), metta.NewVariable("$x"), metta.NewVariable("$x"))
	different := sx(metta.NewAtom("f"), metta.NewVariable("$x"), metta.NewVariable("$y"))
	assert.NotEqual(t, metta.Canonicalize(same), metta.Canonicalize(different))
}

func TestCanonicalizeWildcardsIgnoreName(t *testing.T) {
	a := sx(metta.NewAtom("f"), metta.NewVariable("_"))
	b := sx(metta.NewAtom("f"), metta.NewVariable("_"))
	assert.Equal(t, metta.Canonicalize(a), metta.Canonicalize(b))
}

func TestCanonicalizeDistinguishesAcrossNodeBoundaries(t *testing.T) {
	// Atom("ab") followed by Atom("c") must not collide with
	// Atom("a") followed by Atom("bc").
	left := sx(metta.NewAtom("ab"), metta.NewAtom("c"))
	right := sx(metta.NewAtom("a"), metta.NewAtom("bc"))
	assert.NotEqual(t, metta.Canonicalize(left), metta.Canonicalize(right))
}

func TestCanonicalizeDistinguishesTermKinds(t *testing.T) {
	assert.NotEqual(t, metta.Canonicalize(metta.Int{Value: 1}), metta.Canonicalize(metta.Str{Value: "1"}))
	assert.NotEqual(t, metta.Canonicalize(metta.Bool{Value: true}), metta.Canonicalize(metta.Int{Value: 1}))
}
