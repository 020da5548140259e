package utils

import (
	"testing"
	"time"
)

func TestSafeAsyncRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeAsync(func() {
		defer close(done)
		panic("boom")
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async job did not finish")
	}
	// a panic escaping the goroutine would have crashed the test binary
}
