// Package testutil provides testing utilities for totalspin.
//
// This package is intended for use in tests and benchmarks only.
// It enumerates small conserved-number sectors by brute force and builds
// random or hand-picked wavefunctions over them.
//
// # Sectors
//
//	patterns := testutil.HubbardSector(4, 2, 2)  // 4 sites, 2 up, 2 down
//	tbl, _ := basis.NewTable(patterns, basis.SplitPoint(8))
//
// # Random States
//
//	rng := testutil.NewRNG(seed)
//	vec := rng.State(tbl.Len())  // normalized complex amplitudes
//
// # Changing Ensemble
//
//	gc := testutil.Embed(vec, patterns, 1<<8)  // same state, identity indexing
package testutil
