package collab

import (
	"context"
	stderrors "errors"
	"sync"
	"time"
)

// Teardown deletes the call and the channel of handle in parallel, each under
// its own timeout. Both calls always run; their failures are joined.
func Teardown(ctx context.Context, provisioner IProvisioner, handle string, timeout time.Duration) error {
	steps := []func(context.Context, string) error{
		provisioner.DeleteCall,
		provisioner.DeleteChannel,
	}
	errs := make([]error, len(steps))
	var wg sync.WaitGroup
	for i, step := range steps {
		wg.Add(1)
		go func(i int, step func(context.Context, string) error) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			errs[i] = step(callCtx, handle)
		}(i, step)
	}
	wg.Wait()
	return stderrors.Join(errs...)
}
