// Package async runs functions in goroutines and hands back a Future for the
// result.
//
// Async starts the callback immediately and never skips it, even for an
// already cancelled context: the callback owns the decision of what to do
// with ctx. A panic inside the callback is recovered and surfaces from Await
// as a *PanicError, so a misbehaving callback cannot take the process down.
//
// Settle waits for every future and returns all outcomes in the order the
// futures were passed in. Unlike an errgroup it never stops early, which is
// what fan-out delivery needs: every started callback is awaited.
//
//	futures := make([]*async.Future[struct{}], 0, len(handlers))
//	for _, h := range handlers {
//	    futures = append(futures, async.Async(ctx, ev, h))
//	}
//	for i, res := range async.Settle(futures...) {
//	    if res.Err != nil {
//	        log.Warn("handler failed", "index", i, "error", res.Err)
//	    }
//	}
package async
