package totalspin

import (
	"math/cmplx"

	"github.com/latticekit/totalspin/basis"
)

// fermionKernel handles Hubbard and Kondo lattices, canonical or not; the two
// ensembles differ only in b.
func fermionKernel(b basis.Index, tpow []uint64, nsite int) *kernel {
	return &kernel{
		sites: nsite,
		pair: func(vec []complex128, i, j, lo, hi int) (partial, error) {
			iu, id := tpow[2*i], tpow[2*i+1]
			ju, jd := tpow[2*j], tpow[2*j+1]

			var acc partial
			for r := lo; r < hi; r++ {
				p := b.Pattern(r)
				w := vec[r]
				n2 := norm2(w)

				n1u, n1d := occ(p, iu), occ(p, id)
				n2u, n2d := occ(p, ju), occ(p, jd)

				acc.s2 += complex(n2*float64((n1u-n1d)*(n2u-n2d))/4, 0)

				if i == j {
					acc.s2 += complex(n2*float64(n1u+n1d-2*n1u*n1d)/2, 0)
					acc.sz += complex(n2*float64(n1u-n1d)/2, 0)
					continue
				}

				// S+_i S-_j and S-_i S+_j need i and j singly occupied with
				// opposite spins.
				var x uint64
				switch {
				case n1u == 1 && n1d == 0 && n2u == 0 && n2d == 1:
					x = p - (iu + jd) + (ju + id)
				case n1u == 0 && n1d == 1 && n2u == 1 && n2d == 0:
					x = p - (id + ju) + (jd + iu)
				default:
					continue
				}

				off, err := partner(b, x, r, i, j)
				if err != nil {
					return acc, err
				}
				acc.s2 += cmplx.Conj(w) * vec[off] / 2
			}
			return acc, nil
		},
	}
}
