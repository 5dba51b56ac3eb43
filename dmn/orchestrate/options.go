package orchestrate

import (
	"io"
	"log"
	stdruntime "runtime"
)

// Options configures an Orchestrator's concurrency and diagnostics (spec
// §5 "Concurrency & resource model").
type Options struct {
	// EnableRuleParallelism runs a decision table's rules concurrently,
	// bounded by MaxRuleParallelism, instead of left to right.
	EnableRuleParallelism bool
	// EnableOutputParallelism runs a matched rule's output-column
	// expressions concurrently instead of left to right.
	EnableOutputParallelism bool
	// MaxRuleParallelism bounds the worker pool rule/output evaluation
	// uses; defaults to runtime.GOMAXPROCS(0).
	MaxRuleParallelism int
	// Logger receives diagnostic messages; nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns sequential evaluation with MaxRuleParallelism
// set to GOMAXPROCS, for callers that later enable parallelism without
// picking a pool size themselves.
func DefaultOptions() Options {
	return Options{MaxRuleParallelism: stdruntime.GOMAXPROCS(0)}
}

func (o *Options) fillDefaults() {
	if o.MaxRuleParallelism <= 0 {
		o.MaxRuleParallelism = stdruntime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
}
