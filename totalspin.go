package totalspin

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/latticekit/totalspin/basis"
	"github.com/latticekit/totalspin/internal/conv"
	"github.com/latticekit/totalspin/internal/parallel"
)

// Estimator computes <S^2> and <Sz> for wavefunctions of one model and basis.
//
// The kernel is chosen once in New. An Estimator is safe for concurrent use;
// each Estimate only reads the wavefunction it is given.
type Estimator struct {
	model   Model
	params  Params
	basis   basis.Index
	kernel  *kernel
	fixedSz bool
	pool    *parallel.Pool
	opts    options
	logger  *Logger
}

// New validates params and selects the kernel for model.
//
// b is the basis index of a canonical model (Hubbard, Kondo, Spin) and is
// ignored for grand-canonical models, whose basis is the identity over all
// patterns. An unrecognized model yields an Estimator that reports zeros.
func New(model Model, params Params, b basis.Index, optFns ...Option) (*Estimator, error) {
	opts := applyOptions(optFns)

	e := &Estimator{
		model:  model,
		params: params,
		pool:   parallel.NewPool(opts.workers, opts.controller),
		opts:   opts,
		logger: opts.logger.WithModel(model),
	}
	if !model.Known() {
		return e, nil
	}

	if params.Nsite <= 0 {
		return nil, fmt.Errorf("%w: nsite %d", ErrInvalidParams, params.Nsite)
	}

	if model.Canonical() {
		if b == nil {
			return nil, ErrMissingBasis
		}
		e.basis = b
	}

	var err error
	switch {
	case model.Fermionic():
		err = e.initFermion()
	case params.GeneralSpin:
		err = e.initGeneralSpin()
	default:
		err = e.initSpin()
	}
	if err != nil {
		return nil, err
	}

	e.logger = e.logger.WithDimension(e.basis.Len())
	return e, nil
}

func (e *Estimator) initFermion() error {
	p := e.params
	if err := checkBitWeights(p.Tpow, 2*p.Nsite); err != nil {
		return err
	}
	if e.basis == nil {
		id, err := identityOfWidth(2 * p.Nsite)
		if err != nil {
			return err
		}
		e.basis = id
	}
	e.kernel = fermionKernel(e.basis, p.Tpow, p.Nsite)
	e.fixedSz = e.model.Canonical()
	return nil
}

func (e *Estimator) initSpin() error {
	p := e.params
	if err := checkBitWeights(p.Tpow, p.Nsite); err != nil {
		return err
	}
	if e.basis == nil {
		id, err := identityOfWidth(p.Nsite)
		if err != nil {
			return err
		}
		e.basis = id
	}
	e.kernel = spinKernel(e.basis, p.Tpow, p.Nsite)
	e.fixedSz = e.model.Canonical()
	return nil
}

func (e *Estimator) initGeneralSpin() error {
	p := e.params
	if len(p.SiteToBit) < p.Nsite {
		return fmt.Errorf("%w: %d local dimensions for %d sites",
			ErrInvalidParams, len(p.SiteToBit), p.Nsite)
	}
	g, err := basis.NewGeneralSpin(p.SiteToBit[:p.Nsite])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if len(p.Tpow) > 0 {
		if len(p.Tpow) < p.Nsite {
			return fmt.Errorf("%w: %d weights for %d sites", ErrInvalidParams, len(p.Tpow), p.Nsite)
		}
		for k, w := range g.Weights() {
			if p.Tpow[k] != w {
				return fmt.Errorf("%w: weight of site %d is %d, local dimensions imply %d",
					ErrInvalidParams, k, p.Tpow[k], w)
			}
		}
	}
	if e.basis == nil {
		dim, err := conv.Uint64ToInt(g.Size())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		id, err := basis.NewIdentity(dim)
		if err != nil {
			return err
		}
		e.basis = id
	}
	e.kernel = generalSpinKernel(e.basis, g)
	return nil
}

// checkBitWeights requires n single-bit weights.
func checkBitWeights(tpow []uint64, n int) error {
	if len(tpow) < n {
		return fmt.Errorf("%w: %d bit weights, need %d", ErrInvalidParams, len(tpow), n)
	}
	for k, w := range tpow[:n] {
		if bits.OnesCount64(w) != 1 {
			return fmt.Errorf("%w: bit weight %d is %#x, not a single bit", ErrInvalidParams, k, w)
		}
	}
	return nil
}

func identityOfWidth(width int) (basis.Identity, error) {
	size, err := conv.Pow2(width)
	if err != nil {
		return basis.Identity{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	dim, err := conv.Uint64ToInt(size)
	if err != nil {
		return basis.Identity{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return basis.NewIdentity(dim)
}

// Model returns the model the estimator was built for.
func (e *Estimator) Model() Model { return e.model }

// Dim returns the basis dimension, or 0 for an unrecognized model.
func (e *Estimator) Dim() int {
	if e.basis == nil {
		return 0
	}
	return e.basis.Len()
}

// Estimate overwrites res with <S^2> and <Sz> of vec.
//
// vec must have one amplitude per basis state. It is read concurrently and
// never modified. On error res is left zeroed.
func (e *Estimator) Estimate(ctx context.Context, vec []complex128, res *Result) error {
	if res == nil {
		return ErrNilResult
	}
	*res = Result{}

	if e.kernel == nil {
		e.logger.LogUnknownModel(ctx, e.model)
		return nil
	}

	start := time.Now()
	pairs := e.kernel.sites * e.kernel.sites
	out, err := e.estimate(ctx, vec)
	if err == nil {
		*res = out
	}

	e.opts.metricsCollector.RecordEstimate(e.model, e.basis.Len(), pairs, time.Since(start), err)
	e.logger.LogEstimate(ctx, pairs, out, err)
	return err
}

func (e *Estimator) estimate(ctx context.Context, vec []complex128) (Result, error) {
	if len(vec) != e.basis.Len() {
		return Result{}, &ErrDimensionMismatch{Expected: e.basis.Len(), Actual: len(vec)}
	}

	total, err := e.sweep(ctx, vec)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		S2:        real(total.s2),
		SzReduced: real(total.sz),
	}
	res.Sz = res.SzReduced
	if e.fixedSz {
		res.Sz = float64(e.params.Total2Sz) / 2
		if e.opts.szCheck && math.Abs(res.SzReduced-res.Sz) > e.opts.szTolerance {
			return Result{}, &ErrSzMismatch{
				Reduced:   res.SzReduced,
				Expected:  res.Sz,
				Tolerance: e.opts.szTolerance,
			}
		}
	}
	return res, nil
}

// sweep runs the site loops on the calling goroutine and reduces each basis
// pass across the pool, folding every pass into the running total.
func (e *Estimator) sweep(ctx context.Context, vec []complex128) (partial, error) {
	var total partial
	n := len(vec)
	k := e.kernel

	for i := 0; i < k.sites; i++ {
		if k.local != nil {
			part, err := parallel.Reduce(ctx, e.pool, n, func(lo, hi int) (partial, error) {
				return k.local(vec, i, lo, hi), nil
			}, partial.add)
			if err != nil {
				return partial{}, err
			}
			total = total.add(part)
		}

		for j := 0; j < k.sites; j++ {
			if err := ctx.Err(); err != nil {
				return partial{}, err
			}
			part, err := parallel.Reduce(ctx, e.pool, n, func(lo, hi int) (partial, error) {
				return k.pair(vec, i, j, lo, hi)
			}, partial.add)
			if err != nil {
				return partial{}, err
			}
			total = total.add(part)
		}
	}
	return total, nil
}

// Compute is the one-shot dispatcher: it builds the estimator for model and
// overwrites res. Unrecognized models leave res zeroed and return nil.
func Compute(ctx context.Context, model Model, params Params, b basis.Index, vec []complex128, res *Result, optFns ...Option) error {
	if res == nil {
		return ErrNilResult
	}
	*res = Result{}

	e, err := New(model, params, b, optFns...)
	if err != nil {
		return err
	}
	return e.Estimate(ctx, vec, res)
}
