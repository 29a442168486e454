package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/latticekit/totalspin/resource"
)

// Pool describes how many workers a reduction may use and where it obtains
// their slots.
type Pool struct {
	workers    int
	controller *resource.Controller
}

// NewPool returns a pool of the given width. If workers <= 0 it defaults to
// runtime.GOMAXPROCS(0). A nil controller grants every request.
func NewPool(workers int, controller *resource.Controller) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers, controller: controller}
}

// Workers returns the configured pool width.
func (p *Pool) Workers() int { return p.workers }

// Chunk is a half-open index range.
type Chunk struct {
	Lo, Hi int
}

// Split cuts [0, n) into at most k contiguous chunks whose sizes differ by at
// most one.
func Split(n, k int) []Chunk {
	if n <= 0 {
		return nil
	}
	if k <= 0 {
		k = 1
	}
	if k > n {
		k = n
	}

	chunks := make([]Chunk, k)
	size, rem := n/k, n%k
	lo := 0
	for w := range chunks {
		hi := lo + size
		if w < rem {
			hi++
		}
		chunks[w] = Chunk{Lo: lo, Hi: hi}
		lo = hi
	}
	return chunks
}

// Reduce evaluates fn over contiguous chunks of [0, n) concurrently and folds
// the partials with merge in chunk order, starting from the zero value of T.
//
// The first error returned by any chunk is returned; the partial sums are then
// discarded.
func Reduce[T any](ctx context.Context, p *Pool, n int, fn func(lo, hi int) (T, error), merge func(acc, part T) T) (T, error) {
	var total T
	if n <= 0 {
		return total, nil
	}

	granted, err := p.controller.AcquireWorkers(ctx, int64(min(p.workers, n)))
	if err != nil {
		return total, err
	}
	defer p.controller.ReleaseWorkers(granted)

	chunks := Split(n, int(granted))
	if len(chunks) == 1 {
		part, err := fn(0, n)
		if err != nil {
			return total, err
		}
		return merge(total, part), nil
	}

	parts := make([]T, len(chunks))
	var g errgroup.Group
	for w, c := range chunks {
		w, c := w, c
		g.Go(func() error {
			part, err := fn(c.Lo, c.Hi)
			if err != nil {
				return err
			}
			parts[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}

	for _, part := range parts {
		total = merge(total, part)
	}
	return total, nil
}
