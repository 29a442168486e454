package totalspin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned when the physics parameter block is unusable
	// for the requested model.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrMissingBasis is returned when a canonical model is built without a
	// basis index.
	ErrMissingBasis = errors.New("canonical model requires a basis index")

	// ErrNilResult is returned when Estimate is given no result to fill.
	ErrNilResult = errors.New("result must not be nil")
)

// ErrDimensionMismatch indicates that the wavefunction length does not match
// the basis dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrPartnerNotFound reports an exchange move whose target pattern is not in
// the basis. The local occupation pre-check guarantees the partner exists for
// consistent tables, so this always means the bit weights and the basis index
// disagree.
type ErrPartnerNotFound struct {
	Row     int
	Pattern uint64
	Site1   int
	Site2   int
}

func (e *ErrPartnerNotFound) Error() string {
	return fmt.Sprintf("exchange partner %#x of basis row %d (sites %d,%d) is not in the basis",
		e.Pattern, e.Row, e.Site1, e.Site2)
}

// ErrSzMismatch reports that the Sz reduction disagrees with the conserved
// total Sz of a canonical sector by more than the configured tolerance.
type ErrSzMismatch struct {
	Reduced   float64
	Expected  float64
	Tolerance float64
}

func (e *ErrSzMismatch) Error() string {
	return fmt.Sprintf("sz mismatch: reduced %g, conserved %g (tolerance %g)",
		e.Reduced, e.Expected, e.Tolerance)
}
