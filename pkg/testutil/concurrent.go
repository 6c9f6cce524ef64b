package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	dErrors "mrzgate/pkg/domain-errors"
)

// ConcurrentResult tallies the outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes  int32
	Rejections int32 // errors carrying a document rejection code
	NotFounds  int32
	Errors     int32
}

// Total returns the number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Rejections + r.NotFounds + r.Errors
}

// RunConcurrent executes fn in parallel goroutines and classifies each result
// by its domain error code.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, rejections, notFounds, errs atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch code := dErrors.CodeOf(err); {
			case err == nil:
				successes.Add(1)
			case code.IsDocumentRejection():
				rejections.Add(1)
			case code == dErrors.CodeNotFound:
				notFounds.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:  successes.Load(),
		Rejections: rejections.Load(),
		NotFounds:  notFounds.Load(),
		Errors:     errs.Load(),
	}
}

// RunConcurrentCtx is RunConcurrent with a shared context.
func RunConcurrentCtx(ctx context.Context, goroutines int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(goroutines, func(idx int) error {
		return fn(ctx, idx)
	})
}
