package basis

import (
	"errors"
	"fmt"

	"github.com/latticekit/totalspin/internal/conv"
)

// ErrInvalidLocalDim is returned when a site's local dimension is below 2.
var ErrInvalidLocalDim = errors.New("local dimension must be at least 2")

// GeneralSpin decodes mixed-radix spin patterns. Site k holds sigma_k in
// [0, dims[k]) and contributes sigma_k*weights[k] to the pattern; the local
// magnetization is 2*Sz_k = 2*sigma_k - (dims[k]-1).
//
// GeneralSpin is immutable and safe for concurrent use.
type GeneralSpin struct {
	dims    []uint64
	weights []uint64
	size    uint64
}

// NewGeneralSpin builds the codec for the given local dimensions (2S_k+1 per
// site) with the conventional weights Tpow[k] = dims[0]*...*dims[k-1].
func NewGeneralSpin(siteToBit []int) (*GeneralSpin, error) {
	if len(siteToBit) == 0 {
		return nil, fmt.Errorf("%w: no sites", ErrInvalidLocalDim)
	}

	g := &GeneralSpin{
		dims:    make([]uint64, len(siteToBit)),
		weights: make([]uint64, len(siteToBit)),
	}

	w := uint64(1)
	for k, d := range siteToBit {
		if d < 2 {
			return nil, fmt.Errorf("%w: site %d has %d", ErrInvalidLocalDim, k, d)
		}
		du, err := conv.IntToUint64(d)
		if err != nil {
			return nil, err
		}
		g.dims[k] = du
		g.weights[k] = w
		if w, err = conv.MulUint64(w, du); err != nil {
			return nil, err
		}
	}
	g.size = w

	return g, nil
}

// Sites returns the number of sites.
func (g *GeneralSpin) Sites() int { return len(g.dims) }

// LocalDim returns 2S+1 for site k.
func (g *GeneralSpin) LocalDim(k int) int { return int(g.dims[k]) }

// Weights returns a copy of the per-site weights (Tpow).
func (g *GeneralSpin) Weights() []uint64 {
	out := make([]uint64, len(g.weights))
	copy(out, g.weights)
	return out
}

// Size returns the number of distinct patterns, the grand-canonical dimension.
func (g *GeneralSpin) Size() uint64 { return g.size }

// SplitPoint returns the mixed-radix split between the first half of the
// sites and the rest, for use with NewTable.
func (g *GeneralSpin) SplitPoint() uint64 {
	return g.weights[len(g.weights)/2]
}

// Sigma returns the raw local state index of site k.
func (g *GeneralSpin) Sigma(k int, pattern uint64) int {
	return int((pattern / g.weights[k]) % g.dims[k])
}

// Local2Sz returns twice the local Sz of site k.
func (g *GeneralSpin) Local2Sz(k int, pattern uint64) int {
	return 2*g.Sigma(k, pattern) - int(g.dims[k]) + 1
}

// Move changes site k from sigma from to sigma to. It reports false when either
// value is outside [0, 2S_k] or site k is not currently in state from.
func (g *GeneralSpin) Move(pattern uint64, k, from, to int) (uint64, bool) {
	d := int(g.dims[k])
	if from < 0 || from >= d || to < 0 || to >= d {
		return 0, false
	}
	if g.Sigma(k, pattern) != from {
		return 0, false
	}
	if to >= from {
		return pattern + uint64(to-from)*g.weights[k], true
	}
	return pattern - uint64(from-to)*g.weights[k], true
}

// Total2Sz returns twice the total Sz of pattern.
func (g *GeneralSpin) Total2Sz(pattern uint64) int {
	total := 0
	for k := range g.dims {
		total += g.Local2Sz(k, pattern)
	}
	return total
}
