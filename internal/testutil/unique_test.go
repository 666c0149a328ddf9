package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialUnique_Generate(t *testing.T) {
	gen := SequentialUnique("id")

	assert.Equal(t, "id-1", gen.Generate())
	assert.Equal(t, "id-2", gen.Generate())
	assert.Equal(t, "id-3", gen.Generate())
}

func TestSequentialUnique_DefaultPrefix(t *testing.T) {
	gen := SequentialUnique("")
	assert.Equal(t, "unique-1", gen.Generate())
}

func TestSequentialUnique_Reset(t *testing.T) {
	gen := SequentialUnique("id")
	gen.Generate()
	gen.Generate()

	gen.Reset()

	assert.Equal(t, "id-1", gen.Generate())
}

func TestSequentialUnique_ThreadSafe(t *testing.T) {
	gen := SequentialUnique("id")
	const goroutines = 50
	const callsPerGoroutine = 20

	var wg sync.WaitGroup
	values := make(chan string, goroutines*callsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				values <- gen.Generate()
			}
		}()
	}

	wg.Wait()
	close(values)

	seen := make(map[string]bool)
	for v := range values {
		assert.False(t, seen[v], "%s generated twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
}
