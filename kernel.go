package totalspin

import "github.com/latticekit/totalspin/basis"

// partial is a pair of running sums for <S^2> and <Sz>.
type partial struct {
	s2 complex128
	sz complex128
}

func (p partial) add(q partial) partial {
	return partial{s2: p.s2 + q.s2, sz: p.sz + q.sz}
}

// kernel is the per-model inner loop over basis rows [lo, hi).
type kernel struct {
	sites int

	// local runs once per site i before its pairs; nil when the model has no
	// single-site pass.
	local func(vec []complex128, i, lo, hi int) partial

	// pair accumulates the ordered site pair (i, j), i == j included.
	pair func(vec []complex128, i, j, lo, hi int) (partial, error)
}

// norm2 returns |w|^2.
func norm2(w complex128) float64 {
	return real(w)*real(w) + imag(w)*imag(w)
}

// occ returns 1 when the single-bit weight t is set in p.
func occ(p, t uint64) int {
	if p&t != 0 {
		return 1
	}
	return 0
}

// partner resolves an exchanged pattern to its row.
func partner(b basis.Index, pattern uint64, row, i, j int) (int, error) {
	off, ok := b.Index(pattern)
	if !ok {
		return 0, &ErrPartnerNotFound{Row: row, Pattern: pattern, Site1: i, Site2: j}
	}
	return off, nil
}
