package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/naming"
)

// Input bundles every resolution input except the catalog.
type Input struct {
	Actions    ir.ActionSpec
	SubActions ir.SubActionSpec
	Exclusions ir.ExclusionSpec
	Naming     ir.NamingConfig
}

// InputFor extracts the resolution input of a field.
func InputFor(f ir.FieldSpec) Input {
	return Input{
		Actions:    f.Actions,
		SubActions: f.SubActions,
		Exclusions: f.Exclusions,
		Naming:     f.Naming,
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for skip diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver resolves action maps against a catalog.
type Resolver struct {
	catalog catalog.ControllerCatalog
	logger  *zap.Logger
}

// New creates a Resolver reading from c.
func New(c catalog.ControllerCatalog, opts ...Option) *Resolver {
	r := &Resolver{catalog: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve is the one-shot form of Resolver.Resolve.
func Resolve(actions ir.ActionSpec, subActions ir.SubActionSpec, exclusions ir.ExclusionSpec,
	cfg ir.NamingConfig, c catalog.ControllerCatalog) []ir.ResolvedItem {
	return New(c).Resolve(Input{
		Actions:    actions,
		SubActions: subActions,
		Exclusions: exclusions,
		Naming:     cfg,
	})
}

// Catalog returns the catalog r reads from.
func (r *Resolver) Catalog() catalog.ControllerCatalog {
	return r.catalog
}

// Resolve returns the selectable items for in, in declaration order.
// The result is never nil.
func (r *Resolver) Resolve(in Input) []ir.ResolvedItem {
	items := make([]ir.ResolvedItem, 0, in.Actions.Count())
	scope := in.Naming.ControllerName

	for _, entry := range in.Actions {
		controller := entry.Controller
		if controller == "" {
			controller = in.Naming.DefaultControllerName
		}
		if controller == "" {
			r.logger.Debug("skipping action list without controller", zap.Strings("actions", entry.Actions))
			continue
		}
		if scope != "" && controller != scope {
			r.logger.Debug("skipping controller outside scope",
				zap.String("controller", controller), zap.String("scope", scope))
			continue
		}
		id, ok := r.ControllerID(in.Naming, controller)
		if !ok {
			r.logger.Debug("skipping unresolvable controller",
				zap.String("controller", controller),
				zap.String("extension", in.Naming.ControllerExtensionName))
			continue
		}

		for _, action := range entry.Actions {
			if !r.catalog.HasAction(id, action) {
				r.logger.Debug("skipping unknown action",
					zap.String("controller_id", id), zap.String("action", action))
				continue
			}
			if in.Exclusions.Excludes(controller, action) {
				r.logger.Debug("skipping excluded action",
					zap.String("controller", controller), zap.String("action", action))
				continue
			}
			items = append(items, ir.ResolvedItem{
				Label:     r.label(in.Naming, id, controller, action),
				Reference: Reference(controller, action, in.SubActions.For(controller, action), in.Naming.EffectiveSeparator()),
			})
		}
	}

	return items
}

// ControllerID maps a controller key to an identifier that exists in the
// catalog. Dotted extension names try the namespaced form first and the
// legacy form second; legacy names try only the legacy form.
func (r *Resolver) ControllerID(cfg ir.NamingConfig, controller string) (string, bool) {
	ext := cfg.ControllerExtensionName
	var candidates []string
	if naming.IsNamespaced(ext) {
		candidates = append(candidates, naming.NamespacedControllerName(ext, controller))
	}
	candidates = append(candidates, naming.LegacyControllerName(ext, controller))

	for _, id := range candidates {
		if r.catalog.Exists(id) {
			return id, true
		}
	}
	return "", false
}

// Reference builds "C->a" followed by separator + "C->sub" per sub-action.
func Reference(controller, action string, subActions []string, separator string) string {
	refs := make([]string, 0, 1+len(subActions))
	refs = append(refs, naming.ActionReference(controller, action))
	for _, sub := range subActions {
		refs = append(refs, naming.ActionReference(controller, sub))
	}
	return strings.Join(refs, separator)
}

// LabelFor computes the unprefixed label of controller/action. Controllers
// that do not resolve still get a label (the fallback form).
func (r *Resolver) LabelFor(cfg ir.NamingConfig, controller, action string) string {
	id, _ := r.ControllerID(cfg, controller)
	return r.baseLabel(cfg, id, controller, action)
}

// PrefixLabel prepends the required-argument prefix to label when language
// labels are not in use and the action needs an argument without default.
func (r *Resolver) PrefixLabel(cfg ir.NamingConfig, controller, action, label string) string {
	id, _ := r.ControllerID(cfg, controller)
	return r.prefix(cfg, id, action, label)
}

func (r *Resolver) label(cfg ir.NamingConfig, id, controller, action string) string {
	return r.prefix(cfg, id, action, r.baseLabel(cfg, id, controller, action))
}

func (r *Resolver) baseLabel(cfg ir.NamingConfig, id, controller, action string) string {
	if cfg.LanguageLabelsEnabled() {
		return naming.LabelReference(
			naming.ExtensionKey(cfg.ControllerExtensionName),
			cfg.LocalLanguageFileRelativePath,
			naming.ActionLabelPath(cfg.PluginName, controller, action),
		)
	}
	if id != "" {
		if human := r.catalog.ActionMetadata(id, action).HumanName; human != "" {
			return human
		}
	}
	return action + "->" + controller
}

func (r *Resolver) prefix(cfg ir.NamingConfig, id, action, label string) string {
	if cfg.LanguageLabelsEnabled() || cfg.PrefixOnRequiredArguments == "" || id == "" {
		return label
	}
	if r.catalog.ActionMetadata(id, action).RequiresArgument {
		return cfg.PrefixOnRequiredArguments + label
	}
	return label
}
