package dynamo

import (
	"errors"
	"sync"
)

// Parallel runs fn(0..n-1) on separate goroutines and joins their errors.
// Each call must own all of its state; labs are not safe to share.
func Parallel(n int, fn func(i int) error) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = fn(idx)
		}(i)
	}

	wg.Wait()
	return errors.Join(errs...)
}
