// Package basis provides the basis-index services consumed by the total-spin
// estimators.
//
// A many-body basis state is an occupation pattern packed into a uint64. The
// estimators never enumerate a basis themselves; they only ask an [Index] to
// translate between a dense wavefunction index and its pattern:
//
//	tbl, err := basis.NewTable(patterns, basis.SplitPoint(2*nsite))
//	j, ok := tbl.Index(pattern)   // canonical sector: split-table lookup
//	id := basis.NewIdentity(dim) // grand-canonical: index == pattern
//
// # Split Tables
//
// [Table] resolves a pattern the way exact-diagonalization codes usually do:
// the pattern is cut into a low and a high half, and the index is the sum of a
// per-low-half rank and a per-high-half block offset. Both arrays are immutable
// after construction and are shared read-only by all workers.
//
// A 64-bit roaring bitmap holds the sector membership so that a pattern
// outside the conserved-quantum-number sector reports "not found" instead of
// producing a bogus sum.
//
// # General Spin
//
// [GeneralSpin] decodes mixed-radix patterns where site k stores an integer
// sigma in [0, 2S_k] with weight Tpow[k], and applies single-site ladder moves.
package basis
