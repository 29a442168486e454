package basis

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/latticekit/totalspin/internal/conv"
)

var (
	// ErrEmptyBasis is returned when a table is built from no patterns.
	ErrEmptyBasis = errors.New("basis has no patterns")

	// ErrUnsortedPatterns is returned when patterns are not strictly ascending.
	ErrUnsortedPatterns = errors.New("basis patterns must be strictly ascending")

	// ErrNotDecomposable is returned when a low half would need two different
	// ranks, so the index cannot be written as rank(low) + offset(high).
	ErrNotDecomposable = errors.New("basis is not decomposable by the split point")

	// ErrInvalidSplit is returned for a zero split point.
	ErrInvalidSplit = errors.New("split point must be positive")
)

const unset = -1

// Table is the canonical-ensemble basis: an ascending list of patterns plus the
// split lookup tables that invert it.
//
// The three arrays correspond to the classic list_1 (index -> pattern),
// list_2_1 (low half -> rank) and list_2_2 (high half -> block offset).
type Table struct {
	patterns []uint64
	lowRank  []int
	highOff  []int
	split    uint64
	members  *roaring64.Bitmap
}

// SplitPoint returns the low/high split used for a binary pattern of the given
// width: the low half keeps the lower ceil(width/2) bits.
//
// For fermionic models width is 2*Nsite, for spin-1/2 models it is Nsite.
func SplitPoint(width int) uint64 {
	return uint64(1) << uint((width+1)/2)
}

// NewTable builds the lookup for an ascending list of patterns.
//
// The patterns slice is retained; callers must not modify it afterwards.
func NewTable(patterns []uint64, split uint64) (*Table, error) {
	if split == 0 {
		return nil, ErrInvalidSplit
	}
	if len(patterns) == 0 {
		return nil, ErrEmptyBasis
	}

	for j := 1; j < len(patterns); j++ {
		if patterns[j] <= patterns[j-1] {
			return nil, fmt.Errorf("%w: pattern %d at index %d follows %d",
				ErrUnsortedPatterns, patterns[j], j, patterns[j-1])
		}
	}

	lowLen, err := conv.Uint64ToInt(split)
	if err != nil {
		return nil, err
	}
	highLen, err := conv.Uint64ToInt(patterns[len(patterns)-1]/split + 1)
	if err != nil {
		return nil, err
	}

	t := &Table{
		patterns: patterns,
		lowRank:  make([]int, lowLen),
		highOff:  make([]int, highLen),
		split:    split,
		members:  roaring64.New(),
	}
	for i := range t.lowRank {
		t.lowRank[i] = unset
	}
	for i := range t.highOff {
		t.highOff[i] = unset
	}

	var (
		block = uint64(0)
		rank  = 0
	)
	for j, p := range patterns {
		lo, hi := p%split, p/split
		if j == 0 || hi != block {
			block = hi
			rank = 0
			t.highOff[hi] = j
		}

		switch t.lowRank[lo] {
		case unset:
			t.lowRank[lo] = rank
		case rank:
		default:
			return nil, fmt.Errorf("%w: low half %d ranked %d and %d",
				ErrNotDecomposable, lo, t.lowRank[lo], rank)
		}

		t.members.Add(p)
		rank++
	}

	return t, nil
}

// Len implements Index.
func (t *Table) Len() int { return len(t.patterns) }

// Pattern implements Index.
func (t *Table) Pattern(j int) uint64 { return t.patterns[j] }

// Index implements Index.
//
// Membership is checked first; only then is rank(low) + offset(high) trusted.
func (t *Table) Index(pattern uint64) (int, bool) {
	if !t.members.Contains(pattern) {
		return 0, false
	}
	return t.highOff[pattern/t.split] + t.lowRank[pattern%t.split], true
}

// Split returns the split point the table was built with.
func (t *Table) Split() uint64 { return t.split }
