package totalspin

import (
	"math"
	"math/cmplx"

	"github.com/latticekit/totalspin/basis"
)

// ladder returns <m+dir|S^dir|m> = sqrt(S(S+1) - m(m+dir)) for dir = +1 or -1.
func ladder(s, m float64, dir int) float64 {
	return math.Sqrt(s*(s+1) - m*(m+float64(dir)))
}

// generalSpinKernel handles lattices of arbitrary local spin S_k = (dim_k-1)/2.
func generalSpinKernel(b basis.Index, g *basis.GeneralSpin) *kernel {
	return &kernel{
		sites: g.Sites(),
		pair: func(vec []complex128, i, j, lo, hi int) (partial, error) {
			s1 := float64(g.LocalDim(i)-1) / 2
			s2 := float64(g.LocalDim(j)-1) / 2

			var acc partial
			if i == j {
				for r := lo; r < hi; r++ {
					n2 := norm2(vec[r])
					m1 := float64(g.Local2Sz(i, b.Pattern(r))) / 2
					acc.s2 += complex(n2*s1*(s1+1), 0)
					acc.sz += complex(n2*m1, 0)
				}
				return acc, nil
			}

			for r := lo; r < hi; r++ {
				p := b.Pattern(r)
				w := vec[r]

				m1 := float64(g.Local2Sz(i, p)) / 2
				m2 := float64(g.Local2Sz(j, p)) / 2
				acc.s2 += complex(norm2(w)*m1*m2, 0)

				sg1, sg2 := g.Sigma(i, p), g.Sigma(j, p)

				// S-_i S+_j
				if q, ok := g.Move(p, j, sg2, sg2+1); ok {
					if q, ok = g.Move(q, i, sg1, sg1-1); ok {
						off, err := partner(b, q, r, i, j)
						if err != nil {
							return acc, err
						}
						c := ladder(s2, m2, +1) * ladder(s1, m1, -1) / 2
						acc.s2 += cmplx.Conj(w) * vec[off] * complex(c, 0)
					}
				}

				// S+_i S-_j
				if q, ok := g.Move(p, j, sg2, sg2-1); ok {
					if q, ok = g.Move(q, i, sg1, sg1+1); ok {
						off, err := partner(b, q, r, i, j)
						if err != nil {
							return acc, err
						}
						c := ladder(s2, m2, -1) * ladder(s1, m1, +1) / 2
						acc.s2 += cmplx.Conj(w) * vec[off] * complex(c, 0)
					}
				}
			}
			return acc, nil
		},
	}
}
