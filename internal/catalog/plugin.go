package catalog

import (
	"sort"
	"sync"

	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/naming"
)

// PluginRegistry holds the action maps plugins register for their extension.
// A field with no declared actions falls back to its plugin's entry.
type PluginRegistry struct {
	mu      sync.RWMutex
	plugins map[pluginKey]ir.ActionSpec
}

type pluginKey struct {
	extension string
	plugin    string
}

// NewPluginRegistry creates an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{plugins: make(map[pluginKey]ir.ActionSpec)}
}

// Register stores actions for a plugin. The extension may be given in
// vendor, legacy or key form; "FluidTYPO3.Flux", "flux" and "Flux" all
// address the same extension.
func (r *PluginRegistry) Register(p ir.PluginDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[keyFor(p.ExtensionName, p.PluginName)] = p.Actions
}

// Actions returns the registered action map, or an empty one for unknown plugins.
func (r *PluginRegistry) Actions(extensionName, pluginName string) ir.ActionSpec {
	if r == nil {
		return ir.ActionSpec{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.plugins[keyFor(extensionName, pluginName)]
	if !ok {
		return ir.ActionSpec{}
	}
	out := make(ir.ActionSpec, len(spec))
	copy(out, spec)
	return out
}

// Plugins returns every registration sorted by extension then plugin.
func (r *PluginRegistry) Plugins() []ir.PluginDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ir.PluginDef, 0, len(r.plugins))
	for k, spec := range r.plugins {
		out = append(out, ir.PluginDef{ExtensionName: k.extension, PluginName: k.plugin, Actions: spec})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExtensionName != out[j].ExtensionName {
			return out[i].ExtensionName < out[j].ExtensionName
		}
		return out[i].PluginName < out[j].PluginName
	})
	return out
}

func keyFor(extensionName, pluginName string) pluginKey {
	return pluginKey{extension: naming.ExtensionName(extensionName), plugin: pluginName}
}
