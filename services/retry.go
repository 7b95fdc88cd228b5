package services

import (
	"fmt"
	"time"
)

// withRetry runs fn up to attempts times with exponential backoff between
// tries (baseDelay, 2*baseDelay, 4*baseDelay, ...). Used around outbound
// dispatch calls; the last error is returned when every attempt fails.
func withRetry(attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("retry: attempts must be >= 1")
	}

	var err error
	delay := baseDelay
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}
