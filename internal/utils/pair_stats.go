package utils

import (
	"cmp"

	"github.com/emirpasic/gods/v2/trees/redblacktree"
)

// Pair is an ordered pair of adjacent symbols.
type Pair struct {
	Left  string
	Right string
}

// statKey orders entries inside the tree: higher count first, then the entry touched least recently.
type statKey struct {
	count int
	seq   uint64
}

func compareStatKeys(a, b statKey) int {
	if c := cmp.Compare(b.count, a.count); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// PairStats is the incrementally maintained frequency index over adjacent symbol pairs.
// Invariants we maintain:
//   - every pair in keys has a strictly positive count and exactly one node in tree.
//   - seq grows on every insert or update, so ties on count go to the entry whose count was set first.
type PairStats struct {
	keys map[Pair]statKey
	tree *redblacktree.Tree[statKey, Pair]
	seq  uint64
}

// NewPairStats returns an empty index.
func NewPairStats() *PairStats {
	return &PairStats{
		keys: make(map[Pair]statKey),
		tree: redblacktree.NewWith[statKey, Pair](compareStatKeys),
	}
}

// BuildPairStats seeds an index from aggregated counts. order lists every pair of counts in the
// order it was first seen; that order becomes the initial tie-break.
func BuildPairStats(order []Pair, counts map[Pair]int) *PairStats {
	ps := NewPairStats()
	for _, p := range order {
		if c := counts[p]; c > 0 {
			ps.put(p, c)
		}
	}
	return ps
}

func (ps *PairStats) put(p Pair, count int) {
	k := statKey{count: count, seq: ps.seq}
	ps.seq++
	ps.keys[p] = k
	ps.tree.Put(k, p)
}

// Add applies delta to the count of p. Entries are created on demand and dropped once their
// count is zero or below.
func (ps *PairStats) Add(p Pair, delta int) {
	count := delta
	if old, ok := ps.keys[p]; ok {
		ps.tree.Remove(old)
		delete(ps.keys, p)
		count += old.count
	}
	if count > 0 {
		ps.put(p, count)
	}
}

// count returns the current count of p, zero when absent.
func (ps *PairStats) count(p Pair) int {
	return ps.keys[p].count
}

// Len is the number of pairs with a positive count.
func (ps *PairStats) Len() int {
	return len(ps.keys)
}

// peek returns the pair that Pop would return without removing it.
func (ps *PairStats) peek() (Pair, int, bool) {
	node := ps.tree.Left()
	if node == nil {
		return Pair{}, 0, false
	}
	return node.Value, node.Key.count, true
}

// Pop removes and returns the pair with the highest count.
func (ps *PairStats) Pop() (Pair, int, bool) {
	p, count, ok := ps.peek()
	if !ok {
		return Pair{}, 0, false
	}
	ps.tree.Remove(ps.keys[p])
	delete(ps.keys, p)
	return p, count, true
}
