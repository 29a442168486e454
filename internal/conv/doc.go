// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between occupation bit patterns (uint64) and basis indices
// (int), and when deriving basis dimensions from per-site sizes.
//
// For conversions that are provably safe by domain constraints (e.g. a pattern
// already checked against the basis dimension), use direct type casts instead
// to avoid overhead in the inner loops.
package conv
