// Package field implements the controller-actions form field: a FieldSpec
// bound to a resolver, with raw-item override, plugin fallback and
// auto-generated labels.
package field

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/naming"
	"github.com/fluidtypo3/fluxactions/internal/resolver"
)

// ControllerActions is a selectable field listing controller actions.
type ControllerActions struct {
	Spec ir.FieldSpec

	resolver *resolver.Resolver
	cache    *resolver.Cache
	plugins  *catalog.PluginRegistry
}

// Option configures a ControllerActions field.
type Option func(*ControllerActions)

// WithCache routes resolution through c. c must wrap the same resolver.
func WithCache(c *resolver.Cache) Option {
	return func(f *ControllerActions) { f.cache = c }
}

// WithPlugins sets the registry consulted when the field declares no actions.
func WithPlugins(p *catalog.PluginRegistry) Option {
	return func(f *ControllerActions) { f.plugins = p }
}

// New binds spec to r.
func New(spec ir.FieldSpec, r *resolver.Resolver, opts ...Option) *ControllerActions {
	f := &ControllerActions{Spec: spec, resolver: r}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the fixed field name.
func (f *ControllerActions) Name() string {
	return ir.FieldName
}

// Separator returns the sub-action separator.
func (f *ControllerActions) Separator() string {
	return f.Spec.Naming.EffectiveSeparator()
}

// SetSeparator sets the sub-action separator.
func (f *ControllerActions) SetSeparator(sep string) {
	f.Spec.Naming.Separator = sep
}

// SetItems sets raw items that bypass resolution entirely.
func (f *ControllerActions) SetItems(items []ir.ResolvedItem) {
	f.Spec.Items = items
}

// Label returns the configured label. An unlabeled field attached to a form
// gets a language-file reference built from the form name.
func (f *ControllerActions) Label() string {
	if f.Spec.Label != "" {
		return f.Spec.Label
	}
	if f.Spec.Form == nil {
		return ""
	}
	ext := f.Spec.ExtensionName
	if ext == "" {
		ext = f.Spec.Form.ExtensionName
	}
	if ext == "" {
		ext = f.Spec.Naming.ControllerExtensionName
	}
	return naming.LabelReference(
		naming.ExtensionKey(ext),
		naming.DefaultLanguageFile,
		naming.FieldLabelPath(f.Spec.Form.Name, f.Name()),
	)
}

// Actions returns the declared action map, or the plugin's registered map
// when none is declared.
func (f *ControllerActions) Actions() ir.ActionSpec {
	if len(f.Spec.Actions) > 0 {
		return f.Spec.Actions
	}
	return f.plugins.Actions(f.Spec.Naming.ControllerExtensionName, f.Spec.Naming.PluginName)
}

// Input returns the resolver input for this field.
func (f *ControllerActions) Input() resolver.Input {
	in := resolver.InputFor(f.Spec)
	in.Actions = f.Actions()
	return in
}

// Items returns the raw items if set, otherwise the resolved ones.
func (f *ControllerActions) Items() []ir.ResolvedItem {
	if len(f.Spec.Items) > 0 {
		return f.Spec.Items
	}
	if f.cache != nil {
		return f.cache.Resolve(f.Input())
	}
	return f.resolver.Resolve(f.Input())
}

// ControllerClassName returns the catalog identifier controller resolves to,
// or "" when it does not exist.
func (f *ControllerActions) ControllerClassName(controller string) string {
	id, _ := f.resolver.ControllerID(f.Spec.Naming, controller)
	return id
}

// LabelFor returns the unprefixed label of controller/action.
func (f *ControllerActions) LabelFor(controller, action string) string {
	return f.resolver.LabelFor(f.Spec.Naming, controller, action)
}

// PrefixLabel applies the required-argument prefix to label.
func (f *ControllerActions) PrefixLabel(controller, action, label string) string {
	return f.resolver.PrefixLabel(f.Spec.Naming, controller, action, label)
}

// ResolveAll resolves fields concurrently, at most limit at a time
// (unbounded if limit <= 0). Results are in field order.
func ResolveAll(ctx context.Context, fields []*ControllerActions, limit int) ([][]ir.ResolvedItem, error) {
	out := make([][]ir.ResolvedItem, len(fields))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, f := range fields {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("resolving field %q: %w", f.Spec.ID, err)
			}
			out[i] = f.Items()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
