package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/naming"
	"github.com/fluidtypo3/fluxactions/internal/resolver"
)

// Validation error codes (E200-E299)
const (
	// Field errors (E201-E209)
	ErrMissingExtensionName = "E201" // controllerExtensionName is empty
	ErrUnknownController    = "E202" // controller key resolves to no catalog entry
	ErrUnknownAction        = "E203" // action not defined on the controller
	ErrUndeclaredExclusion  = "E204" // exclusion names an action that is not declared
	ErrUnknownSubAction     = "E205" // sub-action not defined on the controller
	ErrScopeNotDeclared     = "E206" // controllerName matches no actions key
	ErrInvalidItem          = "E207" // raw item without label or reference

	// Controller errors (E211-E219)
	ErrControllerNoActions = "E211" // controller defines no actions
	ErrEmptyActionName     = "E212" // action name is empty
	ErrParamNoName         = "E213" // parameter without a name
	ErrDuplicateParam      = "E214" // duplicate parameter name
)

// ValidationError represents a semantic validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateField checks a field against the catalog it will resolve with.
// Returns all errors found (does not fail-fast). Anything reported here is
// skipped silently at resolution time.
func ValidateField(spec ir.FieldSpec, cat *catalog.Memory) []ValidationError {
	var errs []ValidationError
	prefix := "field." + spec.ID

	if strings.TrimSpace(spec.Naming.ControllerExtensionName) == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + ".controllerExtensionName",
			Message: "controllerExtensionName must be non-empty",
			Code:    ErrMissingExtensionName,
		})
	}

	for i, item := range spec.Items {
		if item.Label == "" || item.Reference == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.items[%d]", prefix, i),
				Message: "raw items need both label and reference",
				Code:    ErrInvalidItem,
			})
		}
	}

	if scope := spec.Naming.ControllerName; scope != "" && len(spec.Actions) > 0 {
		if _, ok := spec.Actions.Lookup(scope); !ok {
			errs = append(errs, ValidationError{
				Field: prefix + ".controllerName",
				Message: fmt.Sprintf("controllerName %q matches no actions key%s",
					scope, didYouMean(scope, spec.Actions.Controllers())),
				Code: ErrScopeNotDeclared,
			})
		}
	}

	r := resolver.New(cat)
	for _, entry := range spec.Actions {
		key := entry.Controller
		if key == "" {
			key = spec.Naming.DefaultControllerName
		}
		field := prefix + ".actions." + key

		id, ok := r.ControllerID(spec.Naming, key)
		if !ok {
			expected := naming.ControllerName(spec.Naming.ControllerExtensionName, key)
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("no controller %q in catalog%s", expected, didYouMean(expected, cat.IDs())),
				Code:    ErrUnknownController,
			})
			continue
		}
		def, _ := cat.Controller(id)
		names := actionNames(def)

		for _, action := range entry.Actions {
			if !cat.HasAction(id, action) {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("%s has no action %q%s", id, action, didYouMean(action, names)),
					Code:    ErrUnknownAction,
				})
			}
			for _, sub := range spec.SubActions.For(key, action) {
				if !cat.HasAction(id, sub) {
					errs = append(errs, ValidationError{
						Field:   prefix + ".subActions." + key + "." + action,
						Message: fmt.Sprintf("%s has no sub-action %q%s", id, sub, didYouMean(sub, names)),
						Code:    ErrUnknownSubAction,
					})
				}
			}
		}
	}

	for _, controller := range sortedKeys(spec.Exclusions) {
		declared, _ := spec.Actions.Lookup(controller)
		for _, action := range spec.Exclusions[controller] {
			if !contains(declared, action) {
				errs = append(errs, ValidationError{
					Field: prefix + ".excludeActions." + controller,
					Message: fmt.Sprintf("excluded action %q is not declared for %q%s",
						action, controller, didYouMean(action, declared)),
					Code: ErrUndeclaredExclusion,
				})
			}
		}
	}

	return errs
}

// ValidateController checks a controller definition.
func ValidateController(def ir.ControllerDef) []ValidationError {
	var errs []ValidationError
	prefix := "controller." + def.ID

	if len(def.Actions) == 0 {
		errs = append(errs, ValidationError{
			Field:   prefix,
			Message: "controller must define at least one action",
			Code:    ErrControllerNoActions,
		})
	}

	for i, action := range def.Actions {
		if strings.TrimSpace(action.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.action[%d]", prefix, i),
				Message: "action name must be non-empty",
				Code:    ErrEmptyActionName,
			})
		}
		seen := make(map[string]bool)
		for j, p := range action.Params {
			field := fmt.Sprintf("%s.action.%s.params[%d]", prefix, action.Name, j)
			if p.Name == "" {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: "parameter name must be non-empty",
					Code:    ErrParamNoName,
				})
				continue
			}
			if seen[p.Name] {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("duplicate parameter name: %q", p.Name),
					Code:    ErrDuplicateParam,
				})
			}
			seen[p.Name] = true
		}
	}

	return errs
}

// Validate checks every controller and field in the bundle.
func (b *Bundle) Validate() ([]ValidationError, error) {
	var errs []ValidationError
	for _, def := range b.Controllers {
		errs = append(errs, ValidateController(def)...)
	}
	cat, err := b.Catalog()
	if err != nil {
		return errs, err
	}
	for _, f := range b.Fields {
		errs = append(errs, ValidateField(f, cat)...)
	}
	return errs, nil
}

// didYouMean returns a suggestion suffix for the closest candidate, or "".
func didYouMean(target string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.Distance(strings.ToLower(target), strings.ToLower(c), nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len(target) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

func actionNames(def ir.ControllerDef) []string {
	out := make([]string, len(def.Actions))
	for i, a := range def.Actions {
		out[i] = a.Name
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(m ir.ExclusionSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
