package metta

// numeric unifies Int and Float operands under the mixed-operand
// promotion rule of spec.md §4.6: any pairing involving a Float
// promotes both operands to Float.
type numeric struct {
	isFloat bool
	i       int64
	f       float64
}

func asNumeric(t Term) (numeric, bool) {
	switch v := t.(type) {
	case Int:
		return numeric{i: v.Value}, true
	case Float:
		return numeric{isFloat: true, f: v.Value}, true
	default:
		return numeric{}, false
	}
}

func (n numeric) asFloat() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// promote returns a and b as same-kind operands: both Int if neither was
// a Float, otherwise both Float.
func promote(a, b numeric) (numeric, numeric, bool) {
	if !a.isFloat && !b.isFloat {
		return a, b, false
	}
	a.isFloat, a.f = true, a.asFloat()
	b.isFloat, b.f = true, b.asFloat()
	return a, b, true
}

func numericTerm(n numeric) Term {
	if n.isFloat {
		return Float{Value: n.f}
	}
	return Int{Value: n.i}
}
