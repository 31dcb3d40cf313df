package metta

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// Canonicalize produces a depth-first, length-prefixed byte-level
// serialization of t, suitable as a trie path for fact membership and
// as a cache key for memoization. Variables are α-normalized to
// canonical positions (X0, X1, ...) based on first occurrence, so two
// terms that differ only by variable naming produce the same key —
// this is the same normalization CallPattern uses for SLG tabling in
// the teacher, generalized here to serve both fact lookup and the memo
// cache (spec.md §4.4, §4.9, §9).
func Canonicalize(t Term) string {
	varMap := make(map[string]int)
	var b strings.Builder
	canonicalizeInto(&b, t, varMap)
	return b.String()
}

func canonicalizeInto(b *strings.Builder, t Term, varMap map[string]int) {
	switch v := t.(type) {
	case Variable:
		if IsWildcardName(v.Name) {
			writeNode(b, "_", "_")
			return
		}
		pos, ok := varMap[v.Name]
		if !ok {
			pos = len(varMap)
			varMap[v.Name] = pos
		}
		writeNode(b, "v", strconv.Itoa(pos))
	case Atom:
		writeNode(b, "a", v.Name)
	case Bool:
		writeNode(b, "b", strconv.FormatBool(v.Value))
	case Int:
		writeNode(b, "i", strconv.FormatInt(v.Value, 10))
	case Float:
		writeNode(b, "f", strconv.FormatUint(v.Bits(), 16))
	case Str:
		writeNode(b, "s", v.Value)
	case Uri:
		writeNode(b, "u", v.Value)
	case NilTerm:
		writeNode(b, "n", "")
	case SExpr:
		b.WriteString("e")
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(v.Children)))
		b.Write(lenBuf[:])
		for _, c := range v.Children {
			canonicalizeInto(b, c, varMap)
		}
	}
}

// writeNode emits a length-prefixed (tag, payload) pair so that
// concatenated serializations can never collide across a node boundary
// (e.g. Atom("ab") followed by Atom("c") vs. Atom("a") followed by
// Atom("bc")).
func writeNode(b *strings.Builder, tag, payload string) {
	b.WriteString(tag)
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	b.Write(lenBuf[:])
	b.WriteString(payload)
}
