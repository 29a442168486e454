// Package totalspin computes the total-spin observables <S^2> and <Sz> of
// many-body lattice wavefunctions produced by an exact-diagonalization solver.
//
// A wavefunction is a dense vector of complex amplitudes, one per basis state.
// Basis states are occupation patterns packed into a uint64; the package never
// enumerates a basis, it only consumes a [basis.Index].
//
// # Quick Start
//
//	tbl, _ := basis.NewTable(patterns, basis.SplitPoint(2*nsite))
//	params := totalspin.Params{Nsite: nsite, Tpow: tpow, Total2Sz: nup - ndown}
//
//	var res totalspin.Result
//	err := totalspin.Compute(ctx, totalspin.Hubbard, params, tbl, vec, &res)
//	fmt.Println(res.S2, res.Sz)
//
// # Models
//
// Six model tags cover four estimators:
//
//	Hubbard, Kondo       canonical fermions (one up and one down bit per site)
//	HubbardGC, KondoGC   grand-canonical fermions
//	Spin                 canonical spin-1/2, or general spin with GeneralSpin
//	SpinGC               grand-canonical spin-1/2 or general spin
//
// Canonical models need an explicit basis index; grand-canonical models use
// the identity map where the index of a state is its pattern. Any other tag
// produces a zero Result and no error.
//
// For Hubbard, Kondo and spin-1/2 Spin the reported Sz is Total2Sz/2. The
// basis reduction is still available as Result.SzReduced and can be checked
// against the conserved value with [WithSzCheck].
//
// # Concurrency
//
// Ordered site pairs are visited sequentially. For every pair the basis is cut
// into contiguous ranges, one per worker, and the partial sums are folded in
// range order, so results are reproducible for a fixed [WithWorkers] value.
// Several estimators can share a worker budget through
// [WithResourceController].
//
// # Errors
//
// An exchange move whose partner pattern is missing from the basis fails the
// estimate with *ErrPartnerNotFound; it means the bit weights and the basis
// index disagree.
package totalspin
