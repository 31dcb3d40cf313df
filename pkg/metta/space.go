package metta

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// ruleKey is the (head, arity) signature the rule index is bucketed by
// (spec.md §4.4). The head+arity index is what collapses rule lookup
// from O(N) to O(k), k being the number of rules sharing a signature —
// the single largest evaluator speedup named in spec.md §4.4.
type ruleKey struct {
	head  string
	arity int
}

// Space is the indexed rule/fact/type database threaded through
// evaluation (spec.md §3's "Environment"). All access goes through a
// single reader-writer lock guarding the composite index, matching the
// teacher's per-struct sync.RWMutex convention (core.go's Var/Pair/
// Substitution, pldb.go's Database) and the concurrency policy of
// spec.md §5: reads take the shared lock, writes take it exclusively,
// and no lock is held across a rewrite's recursive evaluation.
type Space struct {
	mu sync.RWMutex

	config Config
	logger hclog.Logger

	ruleIndex     map[ruleKey][]Rule
	wildcardRules []Rule
	insertionSeq  int

	// facts holds every fact in insertion order (ground or not) for
	// GetFacts and for the linear-scan path used when a query pattern
	// itself contains variables.
	facts []Term
	// groundIndex gives O(k) membership for ground facts via the
	// canonical serialization trie described in spec.md §9 — here
	// realized as a map keyed by the canonical string rather than a
	// literal trie, which gives the same amortized lookup cost without
	// hand-rolling node traversal.
	groundIndex map[string]bool

	typeIndex map[string]Term

	multiplicities map[string]*int64

	memoTables map[string]*MemoTable

	// registry lets new-space handles be resolved from any Space
	// descended from the same root; nil until the first new-space call
	// creates one (builtins_space.go).
	registry *spaceRegistry
}

// NewSpace creates an empty Space using cfg (zero fields filled with
// their documented defaults).
func NewSpace(cfg Config) *Space {
	return &Space{
		config:         cfg.normalize(),
		logger:         newLogger(),
		ruleIndex:      make(map[ruleKey][]Rule),
		groundIndex:    make(map[string]bool),
		typeIndex:      make(map[string]Term),
		multiplicities: make(map[string]*int64),
		memoTables:     make(map[string]*MemoTable),
	}
}

// Config returns the Space's current configuration.
func (s *Space) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// WithPragma applies update to the Space's configuration in place,
// under an exclusive lock, and returns s for chaining. This is the
// `(pragma! ...)` entry point of spec.md §4.8/§6: it flips
// type-check-auto (or budgets) without rebuilding the rule/fact/type
// store.
func (s *Space) WithPragma(update func(*Config)) *Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.config)
	s.config = s.config.normalize()
	return s
}

// AddRule validates and inserts a rewrite rule, returning
// ErrIllFormedRule if rhs has free variables not present in lhs.
func (s *Space) AddRule(lhs, rhs Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, err := newRule(lhs, rhs, s.insertionSeq)
	if err != nil {
		return err
	}
	s.insertionSeq++

	if head, ok := Head(lhs); ok {
		key := ruleKey{head: head, arity: Arity(lhs)}
		s.ruleIndex[key] = append(s.ruleIndex[key], rule)
	} else {
		s.wildcardRules = append(s.wildcardRules, rule)
	}

	if _, ok := s.multiplicities[rule.canonicalKey]; !ok {
		var zero int64
		s.multiplicities[rule.canonicalKey] = &zero
	}

	s.logger.Debug("rule added", "lhs", lhs.String(), "ground", rule.specificity.ground)
	return nil
}

// AddRules inserts a batch, aggregating every failure with
// go-multierror instead of stopping at the first bad rule — useful when
// a compiled program registers many `(= lhs rhs)` clauses at once and
// the caller wants to see every ill-formed one, not just the first.
func (s *Space) AddRules(rules [][2]Term) error {
	var result *multierror.Error
	for _, r := range rules {
		if err := s.AddRule(r[0], r[1]); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// MatchingRules returns the rules whose signature could apply to expr:
// the (head, arity) bucket concatenated with the wildcard rules, in
// insertion order within each bucket (spec.md §4.4). If expr has no
// determinable head, every bucket is concatenated with the wildcard
// rules. This runs in O(k) in the number of matching rules, not the
// total rule count (P7), because the bucket is selected by a single map
// lookup rather than a scan.
func (s *Space) MatchingRules(expr Term) []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	head, ok := Head(expr)
	if !ok {
		total := len(s.wildcardRules)
		for _, bucket := range s.ruleIndex {
			total += len(bucket)
		}
		all := make([]Rule, 0, total)
		for _, bucket := range s.ruleIndex {
			all = append(all, bucket...)
		}
		all = append(all, s.wildcardRules...)
		return all
	}

	key := ruleKey{head: head, arity: Arity(expr)}
	bucket := s.ruleIndex[key]
	result := make([]Rule, 0, len(bucket)+len(s.wildcardRules))
	result = append(result, bucket...)
	result = append(result, s.wildcardRules...)
	return result
}

// Logger returns the Space's logger, so the evaluator can log budget
// exhaustion and other cross-package events through the same sink a
// Space logs rule registration to.
func (s *Space) Logger() hclog.Logger {
	return s.logger
}

// WildcardRules returns the rules with no determinable head: both
// genuine bare-variable LHS rules and rules whose LHS is a bare atom
// (spec.md §4.4 files these under the same bucket, since Head is only
// defined for s-expressions). The evaluator consults this directly when
// reducing a bare atom, to avoid the full-index scan MatchingRules must
// fall back to when it cannot compute a head itself.
func (s *Space) WildcardRules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Rule(nil), s.wildcardRules...)
}

// AddFact inserts t into the fact set. If t has the shape `(: name
// type)`, the type assertion side effect of spec.md §4.8 also updates
// the type index.
func (s *Space) AddFact(t Term) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addFactLocked(t)
}

func (s *Space) addFactLocked(t Term) {
	if IsGround(t) {
		key := Canonicalize(t)
		if s.groundIndex[key] {
			return // already present
		}
		s.groundIndex[key] = true
	}
	s.facts = append(s.facts, t)

	if name, ty, ok := typeAssertionShape(t); ok {
		s.typeIndex[name] = ty
	}
}

// typeAssertionShape reports whether t is `(: name type)` and, if so,
// returns the atom name and the type term.
func typeAssertionShape(t Term) (string, Term, bool) {
	s, ok := t.(SExpr)
	if !ok || len(s.Children) != 3 {
		return "", nil, false
	}
	head, ok := s.Children[0].(Atom)
	if !ok || head.Name != ":" {
		return "", nil, false
	}
	name, ok := s.Children[1].(Atom)
	if !ok {
		return "", nil, false
	}
	return name.Name, s.Children[2], true
}

// HasFact reports fact membership. Ground terms get an O(1) canonical-
// key lookup; terms still carrying variables fall back to a linear scan
// using Match, per spec.md §4.4.
func (s *Space) HasFact(t Term) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if IsGround(t) {
		return s.groundIndex[Canonicalize(t)]
	}
	for _, f := range s.facts {
		if _, ok := Match(t, f, EmptyBindings()); ok {
			return true
		}
	}
	return false
}

// RemoveFact removes t by exact structural equality — variables in t
// are treated literally, not as wildcards (spec.md §4.4) — returning
// whether a fact was actually removed.
func (s *Space) RemoveFact(t Term) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.facts {
		if Exact(f, t) {
			s.facts = append(s.facts[:i], s.facts[i+1:]...)
			if IsGround(t) {
				delete(s.groundIndex, Canonicalize(t))
			}
			return true
		}
	}
	return false
}

// GetFacts returns every stored fact. Order is unspecified (spec.md
// §4.4 describes the fact set as unordered); callers needing a stable
// order sort externally.
func (s *Space) GetFacts() []Term {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Term, len(s.facts))
	copy(out, s.facts)
	return out
}

// AddType overwrites any prior type assertion for name.
func (s *Space) AddType(name string, ty Term) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typeIndex[name] = ty
}

// GetType performs an O(1) lookup of a prior type assertion.
func (s *Space) GetType(name string) (Term, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ty, ok := s.typeIndex[name]
	return ty, ok
}

// IncrementMultiplicity bumps the usage counter for a rule's canonical
// key and returns the new value. The evaluator calls this each time a
// rule fires; the counter never gates dispatch (spec.md §4.5).
func (s *Space) IncrementMultiplicity(canonicalKey string) int64 {
	s.mu.Lock()
	counter, ok := s.multiplicities[canonicalKey]
	if !ok {
		var zero int64
		counter = &zero
		s.multiplicities[canonicalKey] = counter
	}
	s.mu.Unlock()
	return atomic.AddInt64(counter, 1)
}

// Multiplicity reads a rule's current usage counter without
// incrementing it.
func (s *Space) Multiplicity(canonicalKey string) int64 {
	s.mu.RLock()
	counter, ok := s.multiplicities[canonicalKey]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(counter)
}

// NewMemo creates (or replaces) a named memo table with the Space's
// default capacity.
func (s *Space) NewMemo(name string) *MemoTable {
	return s.NewMemoWithCapacity(name, s.Config().MemoCapacity)
}

// NewMemoWithCapacity creates (or replaces) a named memo table with an
// explicit capacity.
func (s *Space) NewMemoWithCapacity(name string, capacity int) *MemoTable {
	table := NewMemoTable(name, capacity)
	s.mu.Lock()
	s.memoTables[name] = table
	s.mu.Unlock()
	return table
}

// Memo returns a previously created memo table.
func (s *Space) Memo(name string) (*MemoTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.memoTables[name]
	return table, ok
}

// ClearMemo empties a named memo table, returning ErrUnknownMemoTable if
// it doesn't exist.
func (s *Space) ClearMemo(name string) error {
	table, ok := s.Memo(name)
	if !ok {
		return ErrUnknownMemoTable
	}
	table.Clear()
	return nil
}

// Union composes two Spaces: every rule, fact, and type assertion of b
// is inserted into a copy of a, with b winning on type-assertion
// conflicts (spec.md §3). Facts keep b's insertion order, and rules keep
// it within each (head, arity) bucket; b's buckets are appended in map
// iteration order and b's wildcard rules after all of b's indexed rules,
// so b's relative order across different buckets is not preserved. The
// result shares a's space-handle registry.
func Union(a, b *Space) *Space {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := NewSpace(a.config)
	result.registry = a.registry
	for key, bucket := range a.ruleIndex {
		result.ruleIndex[key] = append([]Rule(nil), bucket...)
	}
	result.wildcardRules = append([]Rule(nil), a.wildcardRules...)
	result.insertionSeq = a.insertionSeq
	result.facts = append([]Term(nil), a.facts...)
	for k, v := range a.groundIndex {
		result.groundIndex[k] = v
	}
	for k, v := range a.typeIndex {
		result.typeIndex[k] = v
	}
	for k, v := range a.multiplicities {
		counter := atomic.LoadInt64(v)
		result.multiplicities[k] = &counter
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for key, bucket := range b.ruleIndex {
		for _, r := range bucket {
			r.specificity.insertionSeq = result.insertionSeq
			result.insertionSeq++
			result.ruleIndex[key] = append(result.ruleIndex[key], r)
		}
	}
	for _, r := range b.wildcardRules {
		r.specificity.insertionSeq = result.insertionSeq
		result.insertionSeq++
		result.wildcardRules = append(result.wildcardRules, r)
	}
	for _, f := range b.facts {
		result.addFactLocked(f)
	}
	for k, v := range b.typeIndex {
		result.typeIndex[k] = v // b wins on conflicts
	}

	return result
}
