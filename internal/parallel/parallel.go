// Package parallel provides row-sliced parallel execution for per-pixel
// stages.
package parallel

import (
	"runtime"
	"sync"
)

// For splits [0, n) into contiguous chunks and runs fn(start, end) for each
// chunk on its own goroutine, blocking until all chunks complete.
//
// workers selects the number of goroutines; 0 or negative uses GOMAXPROCS.
// Small n runs on the calling goroutine to avoid spawn overhead.
func For(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 || n < 16 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
