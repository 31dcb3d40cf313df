package metta

func init() {
	registerBuiltin("new-memo", newMemoBuiltin)
	registerBuiltin("clear-memo!", clearMemoBuiltin)
	registerBuiltin("memo-stats", memoStatsBuiltin)
	// memo and memo-first are special forms (specialforms.go): they must
	// see their expression argument unevaluated, since the whole point
	// of a cache hit is to avoid evaluating it at all.
}

func tableName(op string, args []Term, i int) (string, error) {
	name, ok := args[i].(Str)
	if !ok {
		if a, isAtom := args[i].(Atom); isAtom {
			return a.Name, nil
		}
		return "", argError(op, "table name must be a string or atom")
	}
	return name.Value, nil
}

func newMemoBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("new-memo", args, 1); err != nil {
		return nil, err
	}
	name, err := tableName("new-memo", args, 0)
	if err != nil {
		return nil, err
	}
	space.NewMemo(name)
	return []Term{Atom{Name: name}}, nil
}

// memoImpl canonicalizes expr, consults the named table, and on a miss
// evaluates expr under the current space and caches the full result
// list (spec.md §4.9). Called from specialforms.go with expr still
// unevaluated — a cache hit must avoid evaluating it entirely, which is
// the whole point of memoizing a recursive definition like fib. The
// miss path shares the caller's evalState via evalChild rather than
// starting a fresh Eval, so a recursive definition routed through a
// memo boundary still counts against the same step/depth budget as
// every other nested reduction, instead of resetting it at every miss.
func memoImpl(op string, args []Term, space *Space, ev *Evaluator, st *evalState, firstOnly bool) ([]Term, error) {
	if err := requireArity(op, args, 2); err != nil {
		return nil, err
	}
	name, err := tableName(op, args, 0)
	if err != nil {
		return nil, err
	}
	table, ok := space.Memo(name)
	if !ok {
		return nil, ErrUnknownMemoTable
	}
	expr := args[1]
	key := Canonicalize(expr)
	if cached, hit := table.Get(key); hit {
		return cached, nil
	}
	results, err := ev.evalChild(expr, space, st)
	if err != nil {
		return nil, err
	}
	if firstOnly && len(results) > 0 {
		results = results[:1]
	}
	table.Put(key, results)
	return results, nil
}

func clearMemoBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("clear-memo!", args, 1); err != nil {
		return nil, err
	}
	name, err := tableName("clear-memo!", args, 0)
	if err != nil {
		return nil, err
	}
	if err := space.ClearMemo(name); err != nil {
		return nil, err
	}
	return []Term{Nil}, nil
}

func memoStatsBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("memo-stats", args, 1); err != nil {
		return nil, err
	}
	name, err := tableName("memo-stats", args, 0)
	if err != nil {
		return nil, err
	}
	table, ok := space.Memo(name)
	if !ok {
		return nil, ErrUnknownMemoTable
	}
	stats := table.Stats()
	return []Term{SExpr{Children: []Term{
		Int{Value: int64(stats.Entries)},
		Int{Value: stats.Hits},
		Int{Value: stats.Misses},
		Int{Value: stats.Evictions},
		Float{Value: stats.HitRatePercent},
	}}}, nil
}
