package utilities

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSnowflakeIDUnique(t *testing.T) {
	const n = 2000
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := NewSnowflakeID()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestNewKSUID(t *testing.T) {
	a, b := NewKSUID(), NewKSUID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 27)
}
