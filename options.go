package totalspin

import (
	"log/slog"

	"github.com/latticekit/totalspin/resource"
)

type options struct {
	workers          int
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
	szCheck          bool
	szTolerance      float64
}

// Option configures an Estimator.
type Option func(*options)

// WithWorkers sets how many goroutines share the basis loop of each site pair.
// If n <= 0, runtime.GOMAXPROCS(0) is used.
//
// Results are reproducible for a fixed worker count; different counts agree
// up to floating-point rounding.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger configures structured logging for estimates.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := totalspin.NewJSONLogger(slog.LevelDebug)
//	est, _ := totalspin.New(totalspin.Spin, params, tbl, totalspin.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for estimates.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController shares a worker-slot budget between estimators.
// Without one, every estimate may use its full worker count.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithSzCheck compares the Sz reduction with Total2Sz/2 for models whose
// reported Sz comes from the conserved quantum number, and fails the estimate
// with *ErrSzMismatch when they differ by more than tolerance.
func WithSzCheck(tolerance float64) Option {
	return func(o *options) {
		o.szCheck = true
		o.szTolerance = tolerance
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
