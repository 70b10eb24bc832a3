package barnes

import (
	"runtime"
)

// NumCores is the default number of worker goroutines used for force
// queries.
var NumCores = runtime.NumCPU()

// forEach calls f(i) for every i in [0, n) split across workers goroutines.
// Worker id handles every index with i % workers == id and reports its id on
// out when it is done. The last worker runs on the calling goroutine.
func forEach(workers, n int, f func(i int)) {
	if workers < 1 { workers = 1 }
	if workers > n { workers = n }
	if workers <= 1 {
		for i := 0; i < n; i++ { f(i) }
		return
	}

	out := make(chan int, workers)
	for id := 0; id < workers-1; id++ {
		go chanForEach(id, workers, n, f, out)
	}
	chanForEach(workers-1, workers, n, f, out)

	for i := 0; i < workers; i++ { <-out }
}

func chanForEach(id, workers, n int, f func(i int), out chan<- int) {
	for i := id; i < n; i += workers { f(i) }
	out <- id
}
