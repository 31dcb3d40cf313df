package metta

// Built-in type atoms returned by get-type for literal categories
// (spec.md §4.8).
var (
	typeBool   Term = Atom{Name: "Bool"}
	typeNumber Term = Atom{Name: "Number"}
	typeString Term = Atom{Name: "String"}
	typeAtom   Term = Atom{Name: "Atom"}
	typeUndefined Term = Atom{Name: "Undefined"}
)

const arrowHead = "->"

// arrowParts splits `(-> A1 ... An R)` into its domain types and result
// type. ok is false for anything else, including a bare (->) with no
// result type; (-> R) yields an empty domain and result R.
func arrowParts(t Term) (domain []Term, result Term, ok bool) {
	s, isExpr := t.(SExpr)
	if !isExpr || len(s.Children) < 2 {
		return nil, nil, false
	}
	head, isAtom := s.Children[0].(Atom)
	if !isAtom || head.Name != arrowHead {
		return nil, nil, false
	}
	rest := s.Children[1:]
	return rest[:len(rest)-1], rest[len(rest)-1], true
}

// GetType synthesizes the type of t against space's type index
// (spec.md §4.8). Atoms consult the index; literals map to their
// built-in category type; s-expressions attempt arrow-type application,
// returning the curried remaining-prefix arrow when fewer arguments are
// supplied than the head's arrow declares (the conservative policy
// spec.md §9 calls for when the source is ambiguous on partial
// application); anything that doesn't resolve is Undefined.
func GetType(t Term, space *Space) Term {
	switch v := t.(type) {
	case Atom:
		if ty, ok := space.GetType(v.Name); ok {
			return ty
		}
		return typeUndefined
	case Bool:
		return typeBool
	case Int, Float:
		return typeNumber
	case Str:
		return typeString
	case Variable:
		return typeUndefined
	case SExpr:
		return getTypeSExpr(v, space)
	default:
		return typeUndefined
	}
}

func getTypeSExpr(s SExpr, space *Space) Term {
	if len(s.Children) == 0 {
		return typeUndefined
	}
	head, ok := Head(s)
	if !ok {
		return typeUndefined
	}
	headType, ok := space.GetType(head)
	if !ok {
		return typeUndefined
	}
	domain, result, isArrow := arrowParts(headType)
	if !isArrow {
		return typeUndefined
	}

	args := s.Children[1:]
	if len(args) > len(domain) {
		return typeUndefined
	}
	for i, arg := range args {
		argType := GetType(arg, space)
		if !typeCompatible(argType, domain[i]) {
			return typeUndefined
		}
	}
	if len(args) < len(domain) {
		// Curried partial application: the type of the partially
		// applied head is the arrow over the unconsumed domain prefix.
		remaining := append([]Term{Atom{Name: arrowHead}}, domain[len(args):]...)
		remaining = append(remaining, result)
		return SExpr{Children: remaining}
	}
	return result
}

// typeCompatible reports whether value's type unifies with expected;
// variables in expected unify with anything (spec.md §4.8).
func typeCompatible(value, expected Term) bool {
	if IsVariable(expected) {
		return true
	}
	return StructuralEquivalent(value, expected)
}

// CheckType reports whether t's synthesized type is compatible with ty.
func CheckType(t Term, ty Term, space *Space) bool {
	return typeCompatible(GetType(t, space), ty)
}

func init() {
	registerBuiltin("get-type", getTypeBuiltin)
	registerBuiltin("check-type", checkTypeBuiltin)
	registerBuiltin(":", typeAssertionBuiltin)
	registerBuiltin("pragma!", pragmaBuiltin)
}

func getTypeBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("get-type", args, 1); err != nil {
		return nil, err
	}
	return []Term{GetType(args[0], space)}, nil
}

func checkTypeBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("check-type", args, 2); err != nil {
		return nil, err
	}
	return []Term{Bool{Value: CheckType(args[0], args[1], space)}}, nil
}

// typeAssertionBuiltin implements `(: name type)` as a built-in so it
// also works mid-expression, not only as a top-level program clause;
// AddFact already threads the same side effect into the type index when
// `(: name type)` is registered as a plain fact.
func typeAssertionBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity(":", args, 2); err != nil {
		return nil, err
	}
	name, ok := args[0].(Atom)
	if !ok {
		return nil, argError(":", "first argument must be an atom")
	}
	space.AddType(name.Name, args[1])
	return []Term{Nil}, nil
}

// pragmaBuiltin implements `(pragma! type-check auto)`, the only pragma
// spec.md §4.8/§6 names.
func pragmaBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("pragma!", args, 2); err != nil {
		return nil, err
	}
	key, ok := args[0].(Atom)
	if !ok {
		return nil, argError("pragma!", "first argument must be an atom")
	}
	switch key.Name {
	case "type-check":
		mode, ok := args[1].(Atom)
		if !ok {
			return nil, argError("pragma!", "type-check expects an atom mode")
		}
		space.WithPragma(func(c *Config) { c.TypeCheckAuto = mode.Name == "auto" })
		return []Term{Nil}, nil
	default:
		return nil, ErrNotApplicable
	}
}
