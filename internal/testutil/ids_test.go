package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDGenerator(t *testing.T) {
	gen := NewSequentialIDGenerator("")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())

	gen.Reset()
	assert.Equal(t, "run-1", gen.Generate())
}

func TestSequentialIDGeneratorConcurrent(t *testing.T) {
	gen := NewSequentialIDGenerator("x")

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 500)
}

func TestFluxCatalogFixture(t *testing.T) {
	c := FluxCatalog()
	assert.True(t, c.Exists(ContentControllerID))
	assert.True(t, c.Exists(LegacyContentControllerID))
	assert.False(t, c.Exists(OtherControllerID))
	assert.True(t, c.ActionMetadata(ContentControllerID, "fakeWithRequiredArgument").RequiresArgument)
}
