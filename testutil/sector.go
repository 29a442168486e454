package testutil

import (
	"math/bits"

	"github.com/latticekit/totalspin/basis"
)

// FermionWeights returns Tpow for nsite sites with the up orbital of site k on
// bit 2k and the down orbital on bit 2k+1.
func FermionWeights(nsite int) []uint64 {
	return SpinWeights(2 * nsite)
}

// SpinWeights returns Tpow for nsite spin-1/2 sites, site k on bit k.
func SpinWeights(nsite int) []uint64 {
	w := make([]uint64, nsite)
	for k := range w {
		w[k] = 1 << uint(k)
	}
	return w
}

// HubbardSector returns, in ascending order, every pattern with nup up and
// ndown down electrons on nsite sites.
func HubbardSector(nsite, nup, ndown int) []uint64 {
	const (
		upMask   = 0x5555555555555555
		downMask = 0xAAAAAAAAAAAAAAAA
	)
	var out []uint64
	for p := uint64(0); p < 1<<uint(2*nsite); p++ {
		if bits.OnesCount64(p&upMask) == nup && bits.OnesCount64(p&downMask) == ndown {
			out = append(out, p)
		}
	}
	return out
}

// KondoSector is HubbardSector restricted to patterns whose localized sites
// hold exactly one electron.
func KondoSector(nsite, nup, ndown int, localized []int) []uint64 {
	var out []uint64
	for _, p := range HubbardSector(nsite, nup, ndown) {
		ok := true
		for _, k := range localized {
			if bits.OnesCount64((p>>uint(2*k))&0b11) != 1 {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// SpinSector returns, in ascending order, every nsite-bit pattern with nup
// spins up.
func SpinSector(nsite, nup int) []uint64 {
	var out []uint64
	for p := uint64(0); p < 1<<uint(nsite); p++ {
		if bits.OnesCount64(p) == nup {
			out = append(out, p)
		}
	}
	return out
}

// GeneralSpinSector returns, in ascending order, every pattern of g whose total
// 2Sz equals total2Sz.
func GeneralSpinSector(g *basis.GeneralSpin, total2Sz int) []uint64 {
	var out []uint64
	for p := uint64(0); p < g.Size(); p++ {
		if g.Total2Sz(p) == total2Sz {
			out = append(out, p)
		}
	}
	return out
}
