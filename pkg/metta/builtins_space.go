package metta

import "sync"

// selfRef is the atom name by which a rule body refers to the space it
// is currently being evaluated against, mirroring MeTTa's `&self`
// convention.
const selfRef = "&self"

// spaceRegistry lets a handle atom returned by new-space be resolved
// from any Space descended from the same root (spec.md §4.6's
// `new-space`). It is shared by pointer across a Space and every child
// it creates, the same way the teacher's pldb.go Database shares one
// factIndex across readers without copying it per query.
type spaceRegistry struct {
	mu      sync.Mutex
	named   map[string]*Space
	counter int
}

func newSpaceRegistry() *spaceRegistry {
	return &spaceRegistry{named: make(map[string]*Space)}
}

func (r *spaceRegistry) create(cfg Config) (string, *Space) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	name := "&space-" + itoa(r.counter)
	child := NewSpace(cfg)
	child.registry = r
	r.named[name] = child
	return name, child
}

func (r *spaceRegistry) lookup(name string) (*Space, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.named[name]
	return s, ok
}

// itoa formats n in decimal without importing strconv; it builds space
// handle names here and argument positions in eval.go's type-check
// diagnostics.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func resolveSpace(current *Space, ref Term) (*Space, error) {
	atom, ok := ref.(Atom)
	if !ok {
		return nil, argError("space ref", "expected an atom naming a space")
	}
	if atom.Name == selfRef {
		return current, nil
	}
	if current.registry != nil {
		if s, ok := current.registry.lookup(atom.Name); ok {
			return s, nil
		}
	}
	return nil, argError("space ref", "unknown space handle "+atom.Name)
}

func init() {
	registerBuiltin("new-space", newSpaceBuiltin)
	registerBuiltin("add-atom", addAtomBuiltin)
	registerBuiltin("remove-atom", removeAtomBuiltin)
	registerBuiltin("get-atoms", getAtomsBuiltin)
	registerBuiltin("match", matchBuiltin)
}

func newSpaceBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("new-space", args, 0); err != nil {
		return nil, err
	}
	reg := space.registry
	if reg == nil {
		reg = newSpaceRegistry()
		space.registry = reg
	}
	name, _ := reg.create(space.Config())
	return []Term{Atom{Name: name}}, nil
}

func addAtomBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("add-atom", args, 2); err != nil {
		return nil, err
	}
	target, err := resolveSpace(space, args[0])
	if err != nil {
		return nil, err
	}
	target.AddFact(args[1])
	return []Term{Nil}, nil
}

func removeAtomBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("remove-atom", args, 2); err != nil {
		return nil, err
	}
	target, err := resolveSpace(space, args[0])
	if err != nil {
		return nil, err
	}
	return []Term{Bool{Value: target.RemoveFact(args[1])}}, nil
}

func getAtomsBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("get-atoms", args, 1); err != nil {
		return nil, err
	}
	target, err := resolveSpace(space, args[0])
	if err != nil {
		return nil, err
	}
	return []Term{SExpr{Children: target.GetFacts()}}, nil
}

// matchBuiltin implements MeTTa's `match`: every fact in the referenced
// space that unifies with the pattern contributes one result, the
// template instantiated with that fact's bindings (spec.md §4.6).
func matchBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("match", args, 3); err != nil {
		return nil, err
	}
	target, err := resolveSpace(space, args[0])
	if err != nil {
		return nil, err
	}
	pattern, template := args[1], args[2]

	var out []Term
	for _, fact := range target.GetFacts() {
		bindings, ok := Match(pattern, fact, EmptyBindings())
		if !ok {
			continue
		}
		instantiated, err := Substitute(template, bindings)
		if err != nil {
			return nil, err
		}
		out = append(out, instantiated)
	}
	return out, nil
}
