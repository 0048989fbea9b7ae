package tokenizer

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/subtok/internal/utils"
)

// Pair is an ordered pair of adjacent symbols.
type Pair = utils.Pair

var (
	// ErrMergeOrder is returned when a merge is appended with a priority other than the list length.
	ErrMergeOrder = errors.New("merges must be added in priority order")
	// ErrDuplicateMerge is returned when a pair is appended twice to the same list.
	ErrDuplicateMerge = errors.New("duplicate merge pair")
)

// Merge is a learned pair together with its frequency when it was learned and its priority.
// Lower priority merges are applied first.
type Merge struct {
	Pair
	Freq     int
	Priority int
}

// Merged returns the symbol produced by the merge.
func (m Merge) Merged() string {
	return m.Left + m.Right
}

func (m Merge) String() string {
	return fmt.Sprintf("('%s', '%s'): (%d, %d)", m.Left, m.Right, m.Freq, m.Priority)
}

// MergeList is an append-only, priority ordered list of merges with O(1) lookup by pair.
// Invariants we maintain:
//   - merges[i].Priority == i for every i.
//   - index[p] == i iff merges[i].Pair == p, so every pair occurs at most once.
//
// A MergeList is safe for concurrent reads once fully built.
type MergeList struct {
	merges []Merge
	index  map[Pair]int
}

// NewMergeList returns an empty list with room for n merges.
func NewMergeList(n int) *MergeList {
	return &MergeList{
		merges: make([]Merge, 0, n),
		index:  make(map[Pair]int, n),
	}
}

// Append adds m at the end of the list. m.Priority has to equal the current length.
func (ml *MergeList) Append(m Merge) error {
	if m.Priority != len(ml.merges) {
		return errors.Wrapf(ErrMergeOrder, "the priority of the next merge should be %d but is %d", len(ml.merges), m.Priority)
	}
	if prev, ok := ml.index[m.Pair]; ok {
		return errors.Wrapf(ErrDuplicateMerge, "%s already has priority %d", m, prev)
	}

	ml.index[m.Pair] = len(ml.merges)
	ml.merges = append(ml.merges, m)
	return nil
}

// Push appends p with the next free priority.
func (ml *MergeList) Push(p Pair, freq int) (Merge, error) {
	m := Merge{Pair: p, Freq: freq, Priority: ml.Len()}
	return m, ml.Append(m)
}

// Len returns the number of merges; a nil list is empty.
func (ml *MergeList) Len() int {
	if ml == nil {
		return 0
	}
	return len(ml.merges)
}

// At returns the merge with priority i.
func (ml *MergeList) At(i int) Merge {
	return ml.merges[i]
}

// Merges returns a copy of the merges in priority order.
func (ml *MergeList) Merges() []Merge {
	if ml == nil {
		return nil
	}
	return append([]Merge(nil), ml.merges...)
}

// Get looks up the merge for p.
func (ml *MergeList) Get(p Pair) (Merge, bool) {
	if ml == nil {
		return Merge{}, false
	}
	i, ok := ml.index[p]
	if !ok {
		return Merge{}, false
	}
	return ml.merges[i], true
}

// Priority returns the priority of p, if p was learned.
func (ml *MergeList) Priority(p Pair) (int, bool) {
	if ml == nil {
		return 0, false
	}
	i, ok := ml.index[p]
	return i, ok
}

// Contains reports whether p was learned.
func (ml *MergeList) Contains(p Pair) bool {
	_, ok := ml.Priority(p)
	return ok
}

// Truncate returns a list holding the first n merges. n <= 0 or n >= Len returns ml itself.
func (ml *MergeList) Truncate(n int) *MergeList {
	if n <= 0 || n >= ml.Len() {
		return ml
	}
	out := NewMergeList(n)
	for _, m := range ml.merges[:n] {
		out.index[m.Pair] = m.Priority
		out.merges = append(out.merges, m)
	}
	return out
}

// Concat returns a new list with the merges of other appended after those of ml,
// their priorities shifted by ml.Len(). Neither input is modified.
func (ml *MergeList) Concat(other *MergeList) (*MergeList, error) {
	out := NewMergeList(ml.Len() + other.Len())
	for _, m := range ml.Merges() {
		if err := out.Append(m); err != nil {
			return nil, err
		}
	}
	offset := ml.Len()
	for _, m := range other.Merges() {
		m.Priority += offset
		if err := out.Append(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Equal reports whether both lists hold the same merges in the same order.
func (ml *MergeList) Equal(other *MergeList) bool {
	if ml.Len() != other.Len() {
		return false
	}
	for i := 0; i < ml.Len(); i++ {
		if ml.merges[i] != other.merges[i] {
			return false
		}
	}
	return true
}

func (ml *MergeList) String() string {
	return fmt.Sprint(ml.Merges())
}
