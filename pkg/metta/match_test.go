package metta_test

import (
	"testing"

	"github.com/metta-run/metta-core/pkg/metta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchWildcardAlwaysSucceeds(t *testing.T) {
	bindings, ok := metta.Match(metta.NewVariable("_"), metta.Int{Value: 42}, metta.EmptyBindings())
	require.True(t, ok)
	assert.Empty(t, bindings)
}

func TestMatchUnboundVariableExtends(t *testing.T) {
	bindings, ok := metta.Match(metta.NewVariable("$x"), metta.Int{Value: 42}, metta.EmptyBindings())
	require.True(t, ok)
	v, ok := bindings.Lookup("$x")
	require.True(t, ok)
	assert.Equal(t, metta.Int{Value: 42}, v)
}

func TestMatchRepeatedVariableRequiresConsistency(t *testing.T) {
	pattern := metta.SExpr{Children: []metta.Term{
		metta.NewAtom("pair"), metta.NewVariable("$x"), metta.NewVariable("$x"),
	}}
	consistent := metta.SExpr{Children: []metta.Term{
		metta.NewAtom("pair"), metta.Int{Value: 1}, metta.Int{Value: 1},
	}}
	inconsistent := metta.SExpr{Children: []metta.Term{
		metta.NewAtom("pair"), metta.Int{Value: 1}, metta.Int{Value: 2},
	}}

	_, ok := metta.Match(pattern, consistent, metta.EmptyBindings())
	assert.True(t, ok)

	_, ok = metta.Match(pattern, inconsistent, metta.EmptyBindings())
	assert.False(t, ok)
}

func TestMatchGroundLeafRequiresEquality(t *testing.T) {
	_, ok := metta.Match(metta.Int{Value: 1}, metta.Int{Value: 1}, metta.EmptyBindings())
	assert.True(t, ok)

	_, ok = metta.Match(metta.Int{Value: 1}, metta.Int{Value: 2}, metta.EmptyBindings())
	assert.False(t, ok)

	_, ok = metta.Match(metta.Int{Value: 1}, metta.Str{Value: "1"}, metta.EmptyBindings())
	assert.False(t, ok)
}

func TestMatchArityMismatchFails(t *testing.T) {
	pattern := metta.SExpr{Children: []metta.Term{metta.NewAtom("f"), metta.NewVariable("$x")}}
	term := metta.SExpr{Children: []metta.Term{metta.NewAtom("f"), metta.Int{Value: 1}, metta.Int{Value: 2}}}
	_, ok := metta.Match(pattern, term, metta.EmptyBindings())
	assert.False(t, ok)
}

func TestMatchRoundTripsThroughSubstitute(t *testing.T) {
	pattern := metta.SExpr{Children: []metta.Term{
		metta.NewAtom("f"), metta.NewVariable("$x"), metta.NewVariable("$y"),
	}}
	term := metta.SExpr{Children: []metta.Term{
		metta.NewAtom("f"), metta.Int{Value: 1}, metta.NewAtom("hello"),
	}}

	bindings, ok := metta.Match(pattern, term, metta.EmptyBindings())
	require.True(t, ok)

	back, err := metta.Substitute(pattern, bindings)
	require.NoError(t, err)
	assert.True(t, metta.StructuralEquivalent(back, term))
}

func TestSubstituteLeavesWildcardUntouched(t *testing.T) {
	bindings := metta.EmptyBindings()
	out, err := metta.Substitute(metta.NewVariable("_"), bindings)
	require.NoError(t, err)
	assert.Equal(t, metta.NewVariable("_"), out)
}

func TestSubstituteDetectsCycles(t *testing.T) {
	bindings := metta.Bindings{
		"$x": metta.NewVariable("$y"),
		"$y": metta.NewVariable("$x"),
	}
	_, err := metta.Substitute(metta.NewVariable("$x"), bindings)
	assert.ErrorIs(t, err, metta.ErrCyclicBinding)
}
