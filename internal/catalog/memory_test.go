package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

const contentID = `FluidTYPO3\Flux\Controller\ContentController`

func contentController() ir.ControllerDef {
	return ir.ControllerDef{
		ID: contentID,
		Actions: []ir.ActionDef{
			{Name: "render"},
			{Name: "fake", Description: "Fake Action"},
			{Name: "fakeWithRequiredArgument", Params: []ir.ActionParam{{Name: "required", Type: "string"}}},
			{Name: "fakeWithDefault", Params: []ir.ActionParam{{Name: "optional", Type: "string", HasDefault: true}}},
		},
	}
}

func TestMemoryExistsAndActions(t *testing.T) {
	m := NewMemory(contentController())

	assert.True(t, m.Exists(contentID))
	assert.False(t, m.Exists("Tx_Flux_Controller_ContentController"))

	assert.True(t, m.HasAction(contentID, "render"))
	assert.False(t, m.HasAction(contentID, "doesNotExist"))
	assert.False(t, m.HasAction("Missing", "render"))
}

func TestMemoryActionMetadata(t *testing.T) {
	m := NewMemory(contentController())

	assert.Equal(t, ActionMetadata{HumanName: "Fake Action"}, m.ActionMetadata(contentID, "fake"))
	assert.Equal(t, ActionMetadata{RequiresArgument: true}, m.ActionMetadata(contentID, "fakeWithRequiredArgument"))
	assert.Equal(t, ActionMetadata{}, m.ActionMetadata(contentID, "fakeWithDefault"))
	assert.Equal(t, ActionMetadata{}, m.ActionMetadata(contentID, "missing"))
}

func TestMemoryAlias(t *testing.T) {
	m := NewMemory(contentController())
	other := `FluidTYPO3\Flux\Controller\OtherController`

	require.NoError(t, m.Alias(other, contentID))
	assert.True(t, m.Exists(other))
	assert.True(t, m.HasAction(other, "fake"))
	assert.Equal(t, "Fake Action", m.ActionMetadata(other, "fake").HumanName)

	// alias of alias
	require.NoError(t, m.Alias("Third", other))
	assert.True(t, m.HasAction("Third", "render"))

	assert.Equal(t, [][2]string{{other, contentID}, {"Third", other}}, m.Aliases())
}

func TestMemoryAliasErrors(t *testing.T) {
	m := NewMemory(contentController())

	err := m.Alias("X", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")

	err = m.Alias(contentID, contentID)
	require.Error(t, err)
}

func TestMemoryRevision(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, uint64(0), m.Revision())

	m.Register(contentController())
	r1 := m.Revision()
	assert.Equal(t, uint64(1), r1)

	require.NoError(t, m.Alias("Other", contentID))
	assert.Greater(t, m.Revision(), r1)
}

func TestMemoryRegisterReplacesKeepsOrder(t *testing.T) {
	m := NewMemory(ir.ControllerDef{ID: "A"}, ir.ControllerDef{ID: "B"})
	m.Register(ir.ControllerDef{ID: "A", Actions: []ir.ActionDef{{Name: "x"}}})

	ctrls := m.Controllers()
	require.Len(t, ctrls, 2)
	assert.Equal(t, "A", ctrls[0].ID)
	assert.Len(t, ctrls[0].Actions, 1)
	assert.Equal(t, []string{"A", "B"}, m.IDs())
}

func TestMemoryConcurrentReads(t *testing.T) {
	m := NewMemory(contentController())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, m.HasAction(contentID, "fake"))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Register(ir.ControllerDef{ID: "Extra"})
	}()
	wg.Wait()
}
