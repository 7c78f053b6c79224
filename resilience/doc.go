// Package resilience provides the retry and timeout wrappers used by the
// health probe.
//
//   - Retry: runs an operation in a bounded loop with a fixed wait between
//     attempts; the probe waits one second.
//
//   - Timeout: bounds a single operation and reports ErrTimeout when the
//     deadline fires first.
//
// # Usage
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxAttempts: 5,
//	    Delay:       time.Second,
//	    OnRetry: func(a resilience.Attempt) {
//	        log.Printf("retrying in %v (%d attempts remaining)", a.Delay, a.Remaining)
//	    },
//	})
//
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return resilience.ExecuteWithTimeout(ctx, 5*time.Second, callServer)
//	})
package resilience
