package basis

import (
	"errors"
	"fmt"

	"github.com/latticekit/totalspin/internal/conv"
)

// ErrInvalidDimension is returned when a basis dimension is not positive.
var ErrInvalidDimension = errors.New("basis dimension must be positive")

// Index maps between dense wavefunction indices in [0, Len()) and occupation
// patterns.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Index interface {
	// Len returns the basis dimension.
	Len() int

	// Pattern returns the occupation pattern of basis state j.
	Pattern(j int) uint64

	// Index returns the dense index of pattern, or false when the pattern is
	// not part of the basis.
	Index(pattern uint64) (int, bool)
}

// Identity is the grand-canonical basis: every pattern below Len() is a
// basis state and its index equals the pattern.
type Identity struct {
	dim uint64
}

// NewIdentity returns the identity basis of the given dimension.
func NewIdentity(dim int) (Identity, error) {
	if dim <= 0 {
		return Identity{}, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	d, err := conv.IntToUint64(dim)
	if err != nil {
		return Identity{}, err
	}
	return Identity{dim: d}, nil
}

// Len implements Index.
func (id Identity) Len() int { return int(id.dim) }

// Pattern implements Index.
func (id Identity) Pattern(j int) uint64 { return uint64(j) }

// Index implements Index.
func (id Identity) Index(pattern uint64) (int, bool) {
	if pattern >= id.dim {
		return 0, false
	}
	return int(pattern), true
}
