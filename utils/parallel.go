package utils

import "runtime"

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// Workers returns the number of workers to use for a job of the given size: the
// requested count when positive, otherwise ParallelFactor, never more than size
// and never less than one.
func Workers(requested, size int) int {
	n := requested
	if n <= 0 {
		n = ParallelFactor
	}
	if size > 0 && n > size {
		n = size
	}
	if n < 1 {
		n = 1
	}
	return n
}
