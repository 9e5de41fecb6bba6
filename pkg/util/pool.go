package util

import "runtime"

// GetOptimalPoolSize returns the worker/parser pool size for CPU-bound tasks.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Parsing goes through cgo, so twice the core count keeps cores busy while
// individual goroutines are blocked in C. The parser pools and the parse
// worker pools both use this value so a worker never waits on a parser.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// WorkerCount caps the pool size at the number of jobs.
func WorkerCount(jobs int) int {
	n := GetOptimalPoolSize()
	if jobs < n {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}
