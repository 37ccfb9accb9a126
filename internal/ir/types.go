package ir

// FieldName is the fixed name of every controller-actions field.
const FieldName = "switchableControllerActions"

// DefaultSeparator joins a primary action reference and its sub-action references.
const DefaultSeparator = ";"

// ControllerActions is one ActionSpec entry: a controller key and its actions.
type ControllerActions struct {
	Controller string   `json:"controller"`
	Actions    []string `json:"actions"`
}

// ActionSpec maps controller names to action lists, in declaration order.
type ActionSpec []ControllerActions

// SubActionSpec maps controller -> primary action -> chained sub-actions.
type SubActionSpec map[string]map[string][]string

// ExclusionSpec maps controller -> actions to suppress.
type ExclusionSpec map[string][]string

// NamingConfig holds the naming inputs for controller identity and labels.
type NamingConfig struct {
	ControllerExtensionName       string `json:"controller_extension_name"`
	PluginName                    string `json:"plugin_name"`
	ControllerName                string `json:"controller_name,omitempty"` // scope filter
	DefaultControllerName         string `json:"default_controller_name,omitempty"`
	LocalLanguageFileRelativePath string `json:"local_language_file_relative_path,omitempty"`
	DisableLocalLanguageLabels    bool   `json:"disable_local_language_labels"`
	PrefixOnRequiredArguments     string `json:"prefix_on_required_arguments,omitempty"`
	Separator                     string `json:"separator,omitempty"` // empty means DefaultSeparator
}

// LanguageLabelsEnabled reports whether labels are emitted as language-file references.
func (n NamingConfig) LanguageLabelsEnabled() bool {
	return !n.DisableLocalLanguageLabels && n.LocalLanguageFileRelativePath != ""
}

// EffectiveSeparator returns the configured separator or DefaultSeparator.
func (n NamingConfig) EffectiveSeparator() string {
	if n.Separator == "" {
		return DefaultSeparator
	}
	return n.Separator
}

// ResolvedItem is one selectable entry.
type ResolvedItem struct {
	Label     string `json:"label"`
	Reference string `json:"reference"`
}

// FormRef names the form a field is attached to.
type FormRef struct {
	Name          string `json:"name"`
	ExtensionName string `json:"extension_name"`
}

// FieldSpec is the complete configuration surface of a controller-actions field.
type FieldSpec struct {
	ID            string         `json:"id"` // spec label the field was declared under
	Label         string         `json:"label,omitempty"`
	Enabled       bool           `json:"enabled"`
	ExtensionName string         `json:"extension_name,omitempty"`
	Form          *FormRef       `json:"form,omitempty"`
	Naming        NamingConfig   `json:"naming"`
	Actions       ActionSpec     `json:"actions"`
	SubActions    SubActionSpec  `json:"sub_actions,omitempty"`
	Exclusions    ExclusionSpec  `json:"exclude_actions,omitempty"`
	Items         []ResolvedItem `json:"items,omitempty"` // raw items bypass resolution
}

// ActionParam describes one argument of a controller action.
type ActionParam struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	HasDefault bool   `json:"has_default"`
	Nullable   bool   `json:"nullable"`
}

// ActionDef describes one callable controller action.
type ActionDef struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Params      []ActionParam `json:"params"`
}

// RequiresArgument reports whether any parameter lacks a default value.
// Nullable parameters without a default still count as required.
func (a ActionDef) RequiresArgument() bool {
	for _, p := range a.Params {
		if !p.HasDefault {
			return true
		}
	}
	return false
}

// ControllerDef describes one controller implementation.
type ControllerDef struct {
	ID      string      `json:"id"` // e.g. FluidTYPO3\Flux\Controller\ContentController
	Actions []ActionDef `json:"actions"`
}

// Action returns the named action definition.
func (c ControllerDef) Action(name string) (ActionDef, bool) {
	for _, a := range c.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionDef{}, false
}

// PluginDef registers the actions a plugin exposes when a field declares none.
type PluginDef struct {
	ExtensionName string     `json:"extension_name"`
	PluginName    string     `json:"plugin_name"`
	Actions       ActionSpec `json:"actions"`
}
