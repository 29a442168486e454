package totalspin

import "fmt"

// Model selects the physical model, and with it the estimator kernel.
type Model int

const (
	// ModelUnknown is the zero Model. Estimates for it report zero.
	ModelUnknown Model = iota
	// Hubbard is the itinerant-electron model with fixed Nup and Ndown.
	Hubbard
	// Kondo is the Kondo-lattice model with fixed particle numbers.
	Kondo
	// HubbardGC is the Hubbard model in the grand-canonical ensemble.
	HubbardGC
	// KondoGC is the Kondo-lattice model in the grand-canonical ensemble.
	KondoGC
	// Spin is the localized-spin model with fixed total Sz.
	Spin
	// SpinGC is the localized-spin model in the grand-canonical ensemble.
	SpinGC
)

// String returns the model name.
func (m Model) String() string {
	switch m {
	case Hubbard:
		return "Hubbard"
	case Kondo:
		return "Kondo"
	case HubbardGC:
		return "HubbardGC"
	case KondoGC:
		return "KondoGC"
	case Spin:
		return "Spin"
	case SpinGC:
		return "SpinGC"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// Known reports whether m is one of the supported models.
func (m Model) Known() bool {
	return m >= Hubbard && m <= SpinGC
}

// Fermionic reports whether sites carry an up and a down orbital.
func (m Model) Fermionic() bool {
	switch m {
	case Hubbard, Kondo, HubbardGC, KondoGC:
		return true
	default:
		return false
	}
}

// Canonical reports whether the basis is restricted to a conserved sector and
// therefore needs an explicit basis index.
func (m Model) Canonical() bool {
	switch m {
	case Hubbard, Kondo, Spin:
		return true
	default:
		return false
	}
}

// Params is the physics parameter block of a run.
type Params struct {
	// Nsite is the number of lattice sites.
	Nsite int

	// Tpow holds the bit weight of every channel. Fermionic models use
	// Tpow[2k] for the up and Tpow[2k+1] for the down orbital of site k;
	// spin-1/2 models use Tpow[k]. In the general-spin path Tpow[k] is the
	// mixed-radix weight of site k and may be left empty.
	Tpow []uint64

	// SiteToBit is the local dimension 2S_k+1 of every site. Used only when
	// GeneralSpin is set.
	SiteToBit []int

	// Total2Sz is twice the conserved total Sz of a canonical sector.
	Total2Sz int

	// GeneralSpin selects the general-spin path for Spin and SpinGC.
	GeneralSpin bool
}

// Result holds the total-spin observables of one wavefunction.
type Result struct {
	// S2 is <S^2>.
	S2 float64

	// Sz is the reported <Sz>. For Hubbard, Kondo and spin-1/2 Spin it is
	// Total2Sz/2, otherwise it equals SzReduced.
	Sz float64

	// SzReduced is <Sz> as accumulated over the basis.
	SzReduced float64
}
