package atomicfloat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadStore(t *testing.T) {
	f := New(1.5)
	assert.Equal(t, 1.5, f.Load())
	f.Store(2.5)
	assert.Equal(t, 2.5, f.Load())
}

func TestConcurrentAddLosesNoUpdates(t *testing.T) {
	f := New(0)
	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				f.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(goroutines*perGoroutine), f.Load())
}
