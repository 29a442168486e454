// Package parallel implements the data-parallel reduction used by the
// estimators: a range [0, n) is cut into contiguous chunks, each chunk is
// reduced by its own goroutine, and the chunk partials are folded in chunk
// order.
//
// The fold order is fixed by the chunk layout, so a reduction is deterministic
// for a given worker count.
package parallel
