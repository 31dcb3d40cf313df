package metta

func init() {
	registerBuiltin("Error", errorConstructor)
	registerBuiltin("error", errorSynonym)
}

// errorConstructor builds the canonical `(Error details message)` form.
func errorConstructor(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("Error", args, 2); err != nil {
		return nil, err
	}
	message, ok := args[1].(Str)
	if !ok {
		return nil, argError("Error", "message must be a string")
	}
	return []Term{ErrorTerm(args[0], message.Value)}, nil
}

// errorSynonym accepts the source's alternate argument order,
// `(error message details)`, and normalizes to the canonical spelling
// on output (spec.md §9's open-question resolution).
func errorSynonym(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("error", args, 2); err != nil {
		return nil, err
	}
	message, ok := args[0].(Str)
	if !ok {
		return nil, argError("error", "message must be a string")
	}
	return []Term{ErrorTerm(args[1], message.Value)}, nil
}
