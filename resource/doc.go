// Package resource limits how many estimator workers run at the same time.
//
// A single Controller can be shared by several estimators so that concurrent
// estimates on a large basis do not oversubscribe the machine:
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 8})
//	est, _ := totalspin.New(totalspin.Spin, params, tbl,
//	    totalspin.WithResourceController(rc))
//
// Requests larger than MaxWorkers are clamped, so an estimate never waits for
// more slots than exist.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully: every request is granted in
// full and nothing is tracked.
package resource
