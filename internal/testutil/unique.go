package testutil

import (
	"fmt"
	"sync"
)

// UniqueGenerator returns predictable unique strings for tests.
//
// Pass Generate to thaumaturgy.WithUniqueGenerator so manifested objects are
// byte-identical across runs, which golden comparisons rely on.
//
// Thread-safety: UniqueGenerator is safe for concurrent use via internal mutex.
type UniqueGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// SequentialUnique creates a generator yielding prefix-1, prefix-2, ...
//
// If prefix is empty, "unique" is used.
func SequentialUnique(prefix string) *UniqueGenerator {
	if prefix == "" {
		prefix = "unique"
	}
	return &UniqueGenerator{prefix: prefix}
}

// Generate returns the next value.
func (g *UniqueGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts the generator. The next call to Generate returns prefix-1.
func (g *UniqueGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
