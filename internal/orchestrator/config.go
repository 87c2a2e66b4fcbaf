package orchestrator

import "runtime"

// DefaultParallelThreshold is the variation count from which a template is
// linted on the worker pool instead of in the caller's goroutine.
const DefaultParallelThreshold = 128

// Config holds runtime configuration for a Pipeline.
type Config struct {
	// ParallelThreshold is the minimum number of variations that uses the
	// worker pool.
	ParallelThreshold int

	// Workers is the worker pool size. Zero disables the pool and every
	// template is linted sequentially.
	Workers int
}

// DefaultConfig returns the threshold of 128 and DefaultWorkers.
func DefaultConfig() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		Workers:           DefaultWorkers(),
	}
}

// DefaultWorkers leaves two CPUs free, one for the controller and one for
// the rest of the host.
func DefaultWorkers() int {
	return max(runtime.NumCPU()-2, 0)
}
