package metta_test

import (
	"testing"

	"github.com/metta-run/metta-core/pkg/metta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecificityGroundBeatsNonGround(t *testing.T) {
	ev, space := newTestEvaluator()
	space.AddRule(sx(metta.NewAtom("f"), metta.NewVariable("$x")), metta.NewAtom("B"))
	space.AddRule(sx(metta.NewAtom("f"), metta.Int{Value: 0}), metta.NewAtom("A"))

	results := ev.Eval(sx(metta.NewAtom("f"), metta.Int{Value: 0}), space)
	require.Len(t, results, 2)
	assert.Equal(t, metta.NewAtom("A"), results[0])
	assert.Equal(t, metta.NewAtom("B"), results[1])
}

func TestSpecificityDeeperBeatsShallower(t *testing.T) {
	ev, space := newTestEvaluator()
	shallow := sx(metta.NewAtom("g"), metta.NewVariable("$x"))
	deep := sx(metta.NewAtom("g"), sx(metta.NewAtom("wrap"), metta.NewVariable("$y")))
	space.AddRule(shallow, metta.NewAtom("shallow"))
	space.AddRule(deep, metta.NewAtom("deep"))

	results := ev.Eval(sx(metta.NewAtom("g"), sx(metta.NewAtom("wrap"), metta.Int{Value: 1})), space)
	require.Len(t, results, 2)
	assert.Equal(t, metta.NewAtom("deep"), results[0])
	assert.Equal(t, metta.NewAtom("shallow"), results[1])
}

func TestSpecificityFewerDistinctVariablesBeatsMore(t *testing.T) {
	ev, space := newTestEvaluator()
	manyVars := sx(metta.NewAtom("h"), metta.NewVariable("$x"), metta.NewVariable("$y"))
	sameVar := sx(metta.NewAtom("h"), metta.NewVariable("$z"), metta.NewVariable("$z"))
	space.AddRule(manyVars, metta.NewAtom("many"))
	space.AddRule(sameVar, metta.NewAtom("same"))

	results := ev.Eval(sx(metta.NewAtom("h"), metta.Int{Value: 1}, metta.Int{Value: 1}), space)
	require.Len(t, results, 2)
	assert.Equal(t, metta.NewAtom("same"), results[0])
	assert.Equal(t, metta.NewAtom("many"), results[1])
}

func TestIllFormedRuleFreeVariableInRHS(t *testing.T) {
	space := metta.NewSpace(metta.DefaultConfig())
	err := space.AddRule(metta.NewAtom("k"), metta.NewVariable("$unbound"))
	assert.ErrorIs(t, err, metta.ErrIllFormedRule)
}

func TestWellFormedRuleBoundVariablePasses(t *testing.T) {
	space := metta.NewSpace(metta.DefaultConfig())
	err := space.AddRule(sx(metta.NewAtom("k"), metta.NewVariable("$x")), metta.NewVariable("$x"))
	assert.NoError(t, err)
}
