package totalspin

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticekit/totalspin/basis"
	"github.com/latticekit/totalspin/resource"
	"github.com/latticekit/totalspin/testutil"
)

const tol = 1e-12

func mustTable(t *testing.T, patterns []uint64, split uint64) *basis.Table {
	t.Helper()
	tbl, err := basis.NewTable(patterns, split)
	require.NoError(t, err)
	return tbl
}

func mustGeneral(t *testing.T, dims ...int) *basis.GeneralSpin {
	t.Helper()
	g, err := basis.NewGeneralSpin(dims)
	require.NoError(t, err)
	return g
}

func estimate(t *testing.T, m Model, p Params, b basis.Index, vec []complex128, opts ...Option) Result {
	t.Helper()
	var res Result
	require.NoError(t, Compute(testContext(t), m, p, b, vec, &res, opts...))
	return res
}

func TestSingleSpinHalf(t *testing.T) {
	p := Params{Nsite: 1, Tpow: testutil.SpinWeights(1), Total2Sz: 1}
	tbl := mustTable(t, []uint64{1}, basis.SplitPoint(1))

	res := estimate(t, Spin, p, tbl, []complex128{1})
	assert.InDelta(t, 0.75, res.S2, tol)
	assert.InDelta(t, 0.5, res.Sz, tol)
	assert.InDelta(t, 0.5, res.SzReduced, tol)

	// Same site with a phase: only |amplitude|^2 matters.
	res = estimate(t, SpinGC, Params{Nsite: 1, Tpow: testutil.SpinWeights(1)}, nil, []complex128{0, 1i})
	assert.InDelta(t, 0.75, res.S2, tol)
	assert.InDelta(t, 0.5, res.Sz, tol)
}

func TestTwoSiteSinglet(t *testing.T) {
	inv := complex(1/math.Sqrt2, 0)

	tests := []struct {
		name  string
		model Model
		p     Params
		b     basis.Index
		vec   []complex128
	}{
		{
			name:  "Spin",
			model: Spin,
			p:     Params{Nsite: 2, Tpow: testutil.SpinWeights(2)},
			b:     mustTable(t, testutil.SpinSector(2, 1), basis.SplitPoint(2)),
			vec:   []complex128{inv, -inv},
		},
		{
			name:  "SpinGC",
			model: SpinGC,
			p:     Params{Nsite: 2, Tpow: testutil.SpinWeights(2)},
			vec:   []complex128{0, inv, -inv, 0},
		},
		{
			name:  "general spin-1/2",
			model: SpinGC,
			p:     Params{Nsite: 2, SiteToBit: []int{2, 2}, GeneralSpin: true},
			vec:   []complex128{0, inv, -inv, 0},
		},
		{
			name:  "Hubbard",
			model: Hubbard,
			p:     Params{Nsite: 2, Tpow: testutil.FermionWeights(2)},
			b:     mustTable(t, testutil.HubbardSector(2, 1, 1), basis.SplitPoint(4)),
			// |0 up, 1 down> = 0b1001 and |0 down, 1 up> = 0b0110
			vec: testutil.Superpose(testutil.HubbardSector(2, 1, 1), map[uint64]complex128{0b1001: 1, 0b0110: -1}),
		},
		{
			name:  "HubbardGC",
			model: HubbardGC,
			p:     Params{Nsite: 2, Tpow: testutil.FermionWeights(2)},
			vec:   testutil.Embed([]complex128{inv, -inv}, []uint64{0b0110, 0b1001}, 16),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := estimate(t, tt.model, tt.p, tt.b, tt.vec)
			assert.InDelta(t, 0, res.S2, tol)
			assert.InDelta(t, 0, res.Sz, tol)
			assert.InDelta(t, 0, res.SzReduced, tol)
		})
	}
}

func TestTwoSiteTripletAligned(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		p     Params
		b     basis.Index
		vec   []complex128
	}{
		{
			name:  "Spin",
			model: Spin,
			p:     Params{Nsite: 2, Tpow: testutil.SpinWeights(2), Total2Sz: 2},
			b:     mustTable(t, testutil.SpinSector(2, 2), basis.SplitPoint(2)),
			vec:   []complex128{1},
		},
		{
			name:  "SpinGC",
			model: SpinGC,
			p:     Params{Nsite: 2, Tpow: testutil.SpinWeights(2)},
			vec:   []complex128{0, 0, 0, 1},
		},
		{
			name:  "general spin-1/2",
			model: Spin,
			p:     Params{Nsite: 2, SiteToBit: []int{2, 2}, GeneralSpin: true, Total2Sz: 2},
			b:     mustTable(t, []uint64{0b11}, 2),
			vec:   []complex128{1},
		},
		{
			name:  "Hubbard",
			model: Hubbard,
			p:     Params{Nsite: 2, Tpow: testutil.FermionWeights(2), Total2Sz: 2},
			b:     mustTable(t, testutil.HubbardSector(2, 2, 0), basis.SplitPoint(4)),
			vec:   []complex128{1},
		},
		{
			name:  "HubbardGC",
			model: HubbardGC,
			p:     Params{Nsite: 2, Tpow: testutil.FermionWeights(2)},
			vec:   testutil.Embed([]complex128{1}, []uint64{0b0101}, 16),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := estimate(t, tt.model, tt.p, tt.b, tt.vec)
			assert.InDelta(t, 2, res.S2, tol)
			assert.InDelta(t, 1, res.Sz, tol)
			assert.InDelta(t, 1, res.SzReduced, tol)
		})
	}
}

func TestHubbard_DoubleOccupancyIsSpinless(t *testing.T) {
	p := Params{Nsite: 1, Tpow: testutil.FermionWeights(1)}
	tbl := mustTable(t, testutil.HubbardSector(1, 1, 1), basis.SplitPoint(2))

	res := estimate(t, Hubbard, p, tbl, []complex128{1})
	assert.InDelta(t, 0, res.S2, tol)

	// Empty and doubly occupied sites in the grand-canonical basis.
	res = estimate(t, HubbardGC, p, nil, []complex128{0.6, 0, 0, 0.8})
	assert.InDelta(t, 0, res.S2, tol)
	assert.InDelta(t, 0, res.Sz, tol)
}

func TestGeneralSpin_SpinOne(t *testing.T) {
	p := Params{Nsite: 2, SiteToBit: []int{3, 3}, GeneralSpin: true}

	t.Run("aligned", func(t *testing.T) {
		// sigma = (2, 2) is pattern 2 + 3*2.
		vec := make([]complex128, 9)
		vec[8] = 1
		res := estimate(t, SpinGC, p, nil, vec)
		assert.InDelta(t, 6, res.S2, tol)
		assert.InDelta(t, 2, res.Sz, tol)
	})

	t.Run("singlet", func(t *testing.T) {
		// (|1,-1> - |0,0> + |-1,1>)/sqrt(3)
		patterns := testutil.GeneralSpinSector(mustGeneral(t, 3, 3), 0)
		require.Equal(t, []uint64{2, 4, 6}, patterns)
		vec := testutil.Superpose(patterns, map[uint64]complex128{2: 1, 4: -1, 6: 1})

		res := estimate(t, Spin, p, mustTable(t, patterns, 3), vec)
		assert.InDelta(t, 0, res.S2, tol)
		assert.InDelta(t, 0, res.Sz, tol)

		res = estimate(t, SpinGC, p, nil, testutil.Embed(vec, patterns, 9))
		assert.InDelta(t, 0, res.S2, tol)
		assert.InDelta(t, 0, res.Sz, tol)
	})

	t.Run("single site", func(t *testing.T) {
		res := estimate(t, SpinGC, Params{Nsite: 1, SiteToBit: []int{3}, GeneralSpin: true}, nil,
			[]complex128{0, 0, 1})
		assert.InDelta(t, 2, res.S2, tol)
		assert.InDelta(t, 1, res.Sz, tol)
	})
}

func TestLadder(t *testing.T) {
	// Spin-1/2: the only allowed moves have unit matrix elements.
	assert.InDelta(t, 1, ladder(0.5, -0.5, +1), tol)
	assert.InDelta(t, 1, ladder(0.5, 0.5, -1), tol)
	assert.InDelta(t, 0, ladder(0.5, 0.5, +1), tol)
	assert.InDelta(t, 0, ladder(0.5, -0.5, -1), tol)

	// Spin-1: sqrt(2) for every allowed move.
	assert.InDelta(t, math.Sqrt2, ladder(1, 0, +1), tol)
	assert.InDelta(t, math.Sqrt2, ladder(1, -1, +1), tol)
	assert.InDelta(t, math.Sqrt2, ladder(1, 1, -1), tol)
}

func TestGeneralSpinHalfMatchesBinary(t *testing.T) {
	const nsite = 6
	rng := testutil.NewRNG(7)

	gcVec := rng.State(1 << nsite)
	binary := estimate(t, SpinGC, Params{Nsite: nsite, Tpow: testutil.SpinWeights(nsite)}, nil, gcVec)
	general := estimate(t, SpinGC, Params{
		Nsite:       nsite,
		Tpow:        testutil.SpinWeights(nsite),
		SiteToBit:   []int{2, 2, 2, 2, 2, 2},
		GeneralSpin: true,
	}, nil, gcVec)
	assert.InDelta(t, binary.S2, general.S2, 1e-10)
	assert.InDelta(t, binary.Sz, general.Sz, 1e-10)

	patterns := testutil.SpinSector(nsite, 2)
	vec := rng.State(len(patterns))
	binary = estimate(t, Spin, Params{Nsite: nsite, Tpow: testutil.SpinWeights(nsite), Total2Sz: -2},
		mustTable(t, patterns, basis.SplitPoint(nsite)), vec)
	general = estimate(t, Spin, Params{Nsite: nsite, SiteToBit: []int{2, 2, 2, 2, 2, 2}, GeneralSpin: true, Total2Sz: -2},
		mustTable(t, patterns, mustGeneral(t, 2, 2, 2, 2, 2, 2).SplitPoint()), vec)
	assert.InDelta(t, binary.S2, general.S2, 1e-10)
	assert.InDelta(t, binary.Sz, general.Sz, 1e-10)
	assert.InDelta(t, -1, general.Sz, 1e-10)
}

func TestCanonicalMatchesGrandCanonical(t *testing.T) {
	rng := testutil.NewRNG(4711)
	g := mustGeneral(t, 3, 2, 4)

	tests := []struct {
		name        string
		canonical   Model
		grand       Model
		p           Params
		patterns    []uint64
		split       uint64
		dim         int
		overridesSz bool
	}{
		{
			name:        "Hubbard",
			canonical:   Hubbard,
			grand:       HubbardGC,
			p:           Params{Nsite: 4, Tpow: testutil.FermionWeights(4), Total2Sz: 1},
			patterns:    testutil.HubbardSector(4, 2, 1),
			split:       basis.SplitPoint(8),
			dim:         1 << 8,
			overridesSz: true,
		},
		{
			name:        "Kondo",
			canonical:   Kondo,
			grand:       KondoGC,
			p:           Params{Nsite: 3, Tpow: testutil.FermionWeights(3), Total2Sz: 0},
			patterns:    testutil.KondoSector(3, 2, 2, []int{0}),
			split:       basis.SplitPoint(6),
			dim:         1 << 6,
			overridesSz: true,
		},
		{
			name:        "Spin",
			canonical:   Spin,
			grand:       SpinGC,
			p:           Params{Nsite: 6, Tpow: testutil.SpinWeights(6), Total2Sz: 0},
			patterns:    testutil.SpinSector(6, 3),
			split:       basis.SplitPoint(6),
			dim:         1 << 6,
			overridesSz: true,
		},
		{
			name:      "general spin",
			canonical: Spin,
			grand:     SpinGC,
			p:         Params{Nsite: 3, SiteToBit: []int{3, 2, 4}, GeneralSpin: true, Total2Sz: 0},
			patterns:  testutil.GeneralSpinSector(g, 0),
			split:     g.SplitPoint(),
			dim:       int(g.Size()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := rng.State(len(tt.patterns))
			can := estimate(t, tt.canonical, tt.p, mustTable(t, tt.patterns, tt.split), vec)
			gc := estimate(t, tt.grand, tt.p, nil, testutil.Embed(vec, tt.patterns, tt.dim))

			assert.InDelta(t, gc.S2, can.S2, 1e-10)
			assert.InDelta(t, gc.SzReduced, can.SzReduced, 1e-10)
			assert.InDelta(t, gc.Sz, can.SzReduced, 1e-10)

			expected := float64(tt.p.Total2Sz) / 2
			assert.InDelta(t, expected, can.SzReduced, 1e-10)
			if tt.overridesSz {
				assert.Equal(t, expected, can.Sz)
			}
		})
	}
}

func TestSzCheck(t *testing.T) {
	patterns := testutil.HubbardSector(3, 2, 1)
	tbl := mustTable(t, patterns, basis.SplitPoint(6))
	vec := testutil.NewRNG(1).State(len(patterns))

	p := Params{Nsite: 3, Tpow: testutil.FermionWeights(3), Total2Sz: 1}
	res := estimate(t, Hubbard, p, tbl, vec, WithSzCheck(1e-10))
	assert.Equal(t, 0.5, res.Sz)

	p.Total2Sz = 3
	res = Result{S2: 42}
	err := Compute(testContext(t), Hubbard, p, tbl, vec, &res, WithSzCheck(1e-10))
	var mismatch *ErrSzMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1.5, mismatch.Expected)
	assert.InDelta(t, 0.5, mismatch.Reduced, 1e-10)
	assert.Equal(t, Result{}, res)

	// Without the check the conserved value is reported as given.
	res = estimate(t, Hubbard, p, tbl, vec)
	assert.Equal(t, 1.5, res.Sz)
	assert.InDelta(t, 0.5, res.SzReduced, 1e-10)
}

func TestWorkerCounts(t *testing.T) {
	patterns := testutil.HubbardSector(4, 2, 2)
	tbl := mustTable(t, patterns, basis.SplitPoint(8))
	vec := testutil.NewRNG(99).State(len(patterns))
	p := Params{Nsite: 4, Tpow: testutil.FermionWeights(4)}

	ref := estimate(t, Hubbard, p, tbl, vec, WithWorkers(1))
	for _, workers := range []int{2, 3, 8, 1000} {
		res := estimate(t, Hubbard, p, tbl, vec, WithWorkers(workers))
		assert.InDelta(t, ref.S2, res.S2, 1e-12, "workers=%d", workers)
		assert.InDelta(t, ref.SzReduced, res.SzReduced, 1e-12, "workers=%d", workers)
	}

	// Fixed worker count, fixed result.
	again := estimate(t, Hubbard, p, tbl, vec, WithWorkers(1))
	assert.Equal(t, ref, again)
}

func TestUnknownModel(t *testing.T) {
	res := Result{S2: 1, Sz: 2, SzReduced: 3}
	err := Compute(testContext(t), Model(99), Params{}, nil, []complex128{1}, &res)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	res = Result{S2: 1}
	require.NoError(t, Compute(testContext(t), ModelUnknown, Params{}, nil, nil, &res))
	assert.Equal(t, Result{}, res)

	e, err := New(Model(-1), Params{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Dim())
}

func TestOverwritesResult(t *testing.T) {
	res := Result{S2: 100, Sz: 100, SzReduced: 100}
	err := Compute(testContext(t), SpinGC, Params{Nsite: 1, Tpow: []uint64{1}}, nil, []complex128{1, 0}, &res)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, res.S2, tol)
	assert.InDelta(t, -0.5, res.Sz, tol)
}

func TestPartnerNotFound(t *testing.T) {
	// The table lacks |down, up>, the exchange partner of |up, down>.
	tbl := mustTable(t, []uint64{0b01}, basis.SplitPoint(2))
	p := Params{Nsite: 2, Tpow: testutil.SpinWeights(2), Total2Sz: 0}

	res := Result{S2: 7}
	err := Compute(testContext(t), Spin, p, tbl, []complex128{1}, &res)

	var nf *ErrPartnerNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint64(0b10), nf.Pattern)
	assert.Equal(t, 0, nf.Row)
	assert.Equal(t, Result{}, res)
}

func TestNewErrors(t *testing.T) {
	tbl := mustTable(t, testutil.SpinSector(2, 1), basis.SplitPoint(2))

	tests := []struct {
		name  string
		model Model
		p     Params
		b     basis.Index
		want  error
	}{
		{"no sites", Spin, Params{}, tbl, ErrInvalidParams},
		{"missing basis", Spin, Params{Nsite: 2, Tpow: []uint64{1, 2}}, nil, ErrMissingBasis},
		{"short tpow", HubbardGC, Params{Nsite: 2, Tpow: []uint64{1, 2, 4}}, nil, ErrInvalidParams},
		{"multi-bit weight", SpinGC, Params{Nsite: 2, Tpow: []uint64{1, 3}}, nil, ErrInvalidParams},
		{"zero weight", Spin, Params{Nsite: 2, Tpow: []uint64{0, 2}}, tbl, ErrInvalidParams},
		{"short site dims", SpinGC, Params{Nsite: 2, SiteToBit: []int{3}, GeneralSpin: true}, nil, ErrInvalidParams},
		{"bad site dim", SpinGC, Params{Nsite: 2, SiteToBit: []int{3, 1}, GeneralSpin: true}, nil, ErrInvalidParams},
		{"weights disagree", SpinGC, Params{Nsite: 2, SiteToBit: []int{3, 3}, Tpow: []uint64{1, 2}, GeneralSpin: true}, nil, ErrInvalidParams},
		{"too wide", SpinGC, Params{Nsite: 64, Tpow: testutil.SpinWeights(64)}, nil, ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.model, tt.p, tt.b)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEstimateErrors(t *testing.T) {
	e, err := New(SpinGC, Params{Nsite: 2, Tpow: testutil.SpinWeights(2)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, e.Dim())
	assert.Equal(t, SpinGC, e.Model())

	assert.ErrorIs(t, e.Estimate(testContext(t), make([]complex128, 4), nil), ErrNilResult)

	var res Result
	err = e.Estimate(testContext(t), make([]complex128, 3), &res)
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 4, dm.Expected)
	assert.Equal(t, 3, dm.Actual)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()
	err = e.Estimate(ctx, make([]complex128, 4), &res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetricsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &BasicMetricsCollector{}

	e, err := New(SpinGC, Params{Nsite: 3, Tpow: testutil.SpinWeights(3)}, nil,
		WithLogger(logger), WithMetricsCollector(metrics))
	require.NoError(t, err)

	var res Result
	require.NoError(t, e.Estimate(testContext(t), testutil.NewRNG(3).State(8), &res))
	assert.Error(t, e.Estimate(testContext(t), make([]complex128, 2), &res))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.EstimateCount)
	assert.Equal(t, int64(1), stats.EstimateErrors)
	assert.Equal(t, int64(16), stats.BasisRows)
	assert.Equal(t, int64(18), stats.SitePairs)

	out := buf.String()
	assert.Contains(t, out, "total spin estimate completed")
	assert.Contains(t, out, "total spin estimate failed")
	assert.Contains(t, out, `"model":"SpinGC"`)
}

func TestSharedResourceController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 2})
	patterns := testutil.SpinSector(8, 4)
	tbl := mustTable(t, patterns, basis.SplitPoint(8))
	p := Params{Nsite: 8, Tpow: testutil.SpinWeights(8), Total2Sz: 0}

	e, err := New(Spin, p, tbl, WithWorkers(4), WithResourceController(rc))
	require.NoError(t, err)

	rng := testutil.NewRNG(5)
	vecs := make([][]complex128, 4)
	for i := range vecs {
		vecs[i] = rng.State(len(patterns))
	}

	results := make([]Result, len(vecs))
	var wg sync.WaitGroup
	for i := range vecs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, e.Estimate(context.Background(), vecs[i], &results[i]))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), rc.ActiveWorkers())
	for i := range vecs {
		// S^2 of any state lies in [0, S_max(S_max+1)] with S_max = 4.
		assert.GreaterOrEqual(t, results[i].S2, -tol)
		assert.LessOrEqual(t, results[i].S2, 20+tol)
		assert.InDelta(t, 0, results[i].SzReduced, 1e-10)
	}
}

func TestModelString(t *testing.T) {
	assert.Equal(t, "Hubbard", Hubbard.String())
	assert.Equal(t, "KondoGC", KondoGC.String())
	assert.Equal(t, "Model(42)", Model(42).String())
	assert.True(t, Kondo.Fermionic())
	assert.False(t, SpinGC.Fermionic())
	assert.True(t, Spin.Canonical())
	assert.False(t, HubbardGC.Canonical())
	assert.False(t, ModelUnknown.Known())
}
