package totalspin

import (
	"math/cmplx"

	"github.com/latticekit/totalspin/basis"
)

// spinKernel handles spin-1/2 lattices with one bit per site, set for up.
func spinKernel(b basis.Index, tpow []uint64, nsite int) *kernel {
	return &kernel{
		sites: nsite,
		local: func(vec []complex128, i, lo, hi int) partial {
			t := tpow[i]

			var acc partial
			for r := lo; r < hi; r++ {
				up := occ(b.Pattern(r), t)
				acc.sz += complex(norm2(vec[r])*float64(2*up-1)/2, 0)
			}
			return acc
		},
		pair: func(vec []complex128, i, j, lo, hi int) (partial, error) {
			ti, tj := tpow[i], tpow[j]
			flip := ti | tj

			var acc partial
			for r := lo; r < hi; r++ {
				p := b.Pattern(r)
				w := vec[r]
				n2 := norm2(w)

				u1, u2 := occ(p, ti), occ(p, tj)
				d1, d2 := 1-u1, 1-u2

				acc.s2 += complex(n2*float64((u1-d1)*(u2-d2))/4, 0)

				if i == j {
					acc.s2 += complex(n2/2, 0)
					continue
				}
				if u1 == u2 {
					continue
				}

				off, err := partner(b, p^flip, r, i, j)
				if err != nil {
					return acc, err
				}
				acc.s2 += cmplx.Conj(w) * vec[off] / 2
			}
			return acc, nil
		},
	}
}
