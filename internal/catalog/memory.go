package catalog

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// Memory is a thread-safe in-memory ControllerCatalog.
type Memory struct {
	mu          sync.RWMutex
	controllers map[string]ir.ControllerDef
	order       []string
	aliases     map[string]string // alias id -> target id
	revision    atomic.Uint64
}

// NewMemory creates a catalog holding the given controllers.
func NewMemory(controllers ...ir.ControllerDef) *Memory {
	m := &Memory{
		controllers: make(map[string]ir.ControllerDef),
		aliases:     make(map[string]string),
	}
	for _, c := range controllers {
		m.Register(c)
	}
	return m
}

// Register adds or replaces a controller definition.
func (m *Memory) Register(c ir.ControllerDef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.controllers[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.controllers[c.ID] = c
	m.revision.Add(1)
}

// Alias makes alias resolve to the controller registered as target.
// The target must already be registered; aliases of aliases are followed.
func (m *Memory) Alias(alias, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookupLocked(target); !ok {
		return fmt.Errorf("alias %q: target controller %q not registered", alias, target)
	}
	if alias == target {
		return fmt.Errorf("alias %q: cannot alias a controller to itself", alias)
	}
	m.aliases[alias] = target
	m.revision.Add(1)
	return nil
}

// Exists implements ControllerCatalog.
func (m *Memory) Exists(controllerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.lookupLocked(controllerID)
	return ok
}

// HasAction implements ControllerCatalog.
func (m *Memory) HasAction(controllerID, action string) bool {
	_, ok := m.action(controllerID, action)
	return ok
}

// ActionMetadata implements ControllerCatalog.
func (m *Memory) ActionMetadata(controllerID, action string) ActionMetadata {
	def, ok := m.action(controllerID, action)
	if !ok {
		return ActionMetadata{}
	}
	return ActionMetadata{
		HumanName:        def.Description,
		RequiresArgument: def.RequiresArgument(),
	}
}

// Revision implements Revisioned.
func (m *Memory) Revision() uint64 {
	return m.revision.Load()
}

// Controller returns the definition registered for id, following aliases.
func (m *Memory) Controller(id string) (ir.ControllerDef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookupLocked(id)
}

// Controllers returns registered controllers in registration order.
func (m *Memory) Controllers() []ir.ControllerDef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ir.ControllerDef, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.controllers[id])
	}
	return out
}

// Aliases returns alias -> target pairs sorted by alias.
func (m *Memory) Aliases() [][2]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][2]string, 0, len(m.aliases))
	for a, t := range m.aliases {
		out = append(out, [2]string{a, t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// IDs returns every resolvable identifier, aliases included, sorted.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.order)+len(m.aliases))
	out = append(out, m.order...)
	for a := range m.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (m *Memory) action(controllerID, action string) (ir.ActionDef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.lookupLocked(controllerID)
	if !ok {
		return ir.ActionDef{}, false
	}
	return c.Action(action)
}

// lookupLocked resolves id through at most len(aliases) alias hops.
func (m *Memory) lookupLocked(id string) (ir.ControllerDef, bool) {
	for hops := 0; hops <= len(m.aliases); hops++ {
		if c, ok := m.controllers[id]; ok {
			return c, true
		}
		target, ok := m.aliases[id]
		if !ok {
			return ir.ControllerDef{}, false
		}
		id = target
	}
	return ir.ControllerDef{}, false
}
