package metta_test

import (
	"testing"

	"github.com/metta-run/metta-core/pkg/metta"
	"github.com/stretchr/testify/assert"
)

func TestArithIntResultStaysInt(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("-"), metta.Int{Value: 5}, metta.Int{Value: 2}), space)
	assert.Equal(t, []metta.Term{metta.Int{Value: 3}}, results)
}

func TestArithMixedOperandsPromotesToFloat(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("*"), metta.Int{Value: 2}, metta.Float{Value: 1.5}), space)
	assert.Equal(t, []metta.Term{metta.Float{Value: 3.0}}, results)
}

func TestArithAliasesMatchSymbolicForms(t *testing.T) {
	ev, space := newTestEvaluator()
	symbolic := ev.Eval(sx(metta.NewAtom("+"), metta.Int{Value: 4}, metta.Int{Value: 5}), space)
	named := ev.Eval(sx(metta.NewAtom("add"), metta.Int{Value: 4}, metta.Int{Value: 5}), space)
	assert.Equal(t, symbolic, named)
}

func TestArithWrongArityIsArgumentError(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("+"), metta.Int{Value: 1}), space)
	errTerm, ok := results[0].(metta.SExpr)
	assert.True(t, ok)
	assert.Equal(t, metta.NewAtom("Error"), errTerm.Children[0])
}

func TestArithNonNumberOperandIsArgumentError(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("+"), metta.Str{Value: "x"}, metta.Int{Value: 1}), space)
	errTerm, ok := results[0].(metta.SExpr)
	assert.True(t, ok)
	assert.Equal(t, metta.NewAtom("Error"), errTerm.Children[0])
}

func TestDivIntegerTruncatesTowardZero(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("div"), metta.Int{Value: -7}, metta.Int{Value: 2}), space)
	assert.Equal(t, []metta.Term{metta.Int{Value: -3}}, results)
}

func TestDivFloatByZeroIsArithmeticError(t *testing.T) {
	ev, space := newTestEvaluator()
	results := ev.Eval(sx(metta.NewAtom("/"), metta.Float{Value: 1}, metta.Float{Value: 0}), space)
	errTerm, ok := results[0].(metta.SExpr)
	assert.True(t, ok)
	assert.Equal(t, metta.NewAtom("Error"), errTerm.Children[0])
}
