package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// CompileField parses a field struct into a FieldSpec.
//
//	field: main: {
//		controllerExtensionName: "FluidTYPO3.Flux"
//		pluginName:              "API"
//		actions: Content:        "render,fake"
//		excludeActions: Content: "fake"
//		subActions: Content: fake: "render"
//	}
//
// Action, exclusion and sub-action lists may be comma-separated strings or
// lists of strings.
func CompileField(id string, v cue.Value) (*ir.FieldSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	prefix := "field." + id

	spec := &ir.FieldSpec{
		ID:         id,
		Actions:    ir.ActionSpec{},
		SubActions: ir.SubActionSpec{},
		Exclusions: ir.ExclusionSpec{},
	}

	ext := v.LookupPath(cue.ParsePath("controllerExtensionName"))
	if !ext.Exists() {
		return nil, &CompileError{
			Field:   prefix + ".controllerExtensionName",
			Message: "controllerExtensionName is required",
			Pos:     v.Pos(),
		}
	}

	var err error
	scalars := []struct {
		path string
		dst  *string
	}{
		{"label", &spec.Label},
		{"extensionName", &spec.ExtensionName},
		{"controllerExtensionName", &spec.Naming.ControllerExtensionName},
		{"pluginName", &spec.Naming.PluginName},
		{"controllerName", &spec.Naming.ControllerName},
		{"defaultControllerName", &spec.Naming.DefaultControllerName},
		{"localLanguageFileRelativePath", &spec.Naming.LocalLanguageFileRelativePath},
		{"prefixOnRequiredArguments", &spec.Naming.PrefixOnRequiredArguments},
		{"separator", &spec.Naming.Separator},
	}
	for _, s := range scalars {
		if *s.dst, err = optionalString(v, s.path, prefix+"."+s.path); err != nil {
			return nil, err
		}
	}

	if spec.Enabled, err = optionalBool(v, "enabled", prefix+".enabled", true); err != nil {
		return nil, err
	}
	if spec.Naming.DisableLocalLanguageLabels, err = optionalBool(v, "disableLocalLanguageLabels",
		prefix+".disableLocalLanguageLabels", false); err != nil {
		return nil, err
	}

	if spec.Form, err = parseForm(v, prefix); err != nil {
		return nil, err
	}

	err = fieldsOf(v, "actions", prefix+".actions", func(controller string, val cue.Value) error {
		list, err := stringList(val, prefix+".actions."+controller)
		if err != nil {
			return err
		}
		spec.Actions = append(spec.Actions, ir.ControllerActions{Controller: controller, Actions: list})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = fieldsOf(v, "excludeActions", prefix+".excludeActions", func(controller string, val cue.Value) error {
		list, err := stringList(val, prefix+".excludeActions."+controller)
		if err != nil {
			return err
		}
		spec.Exclusions[controller] = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = fieldsOf(v, "subActions", prefix+".subActions", func(controller string, val cue.Value) error {
		chains := make(map[string][]string)
		field := prefix + ".subActions." + controller
		err := fieldsOf(val, "", field, func(action string, sub cue.Value) error {
			list, err := stringList(sub, field+"."+action)
			if err != nil {
				return err
			}
			chains[action] = list
			return nil
		})
		if err != nil {
			return err
		}
		spec.SubActions[controller] = chains
		return nil
	})
	if err != nil {
		return nil, err
	}

	if spec.Items, err = parseItems(v, prefix); err != nil {
		return nil, err
	}

	return spec, nil
}

func parseForm(v cue.Value, prefix string) (*ir.FormRef, error) {
	f := v.LookupPath(cue.ParsePath("form"))
	if !f.Exists() {
		return nil, nil
	}
	name, err := optionalString(f, "name", prefix+".form.name")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &CompileError{Field: prefix + ".form.name", Message: "form name is required", Pos: f.Pos()}
	}
	ext, err := optionalString(f, "extensionName", prefix+".form.extensionName")
	if err != nil {
		return nil, err
	}
	return &ir.FormRef{Name: name, ExtensionName: ext}, nil
}

func parseItems(v cue.Value, prefix string) ([]ir.ResolvedItem, error) {
	f := v.LookupPath(cue.ParsePath("items"))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, &CompileError{Field: prefix + ".items", Message: "must be a list", Pos: f.Pos()}
	}
	var items []ir.ResolvedItem
	for i := 0; iter.Next(); i++ {
		field := fmt.Sprintf("%s.items[%d]", prefix, i)
		label, err := optionalString(iter.Value(), "label", field+".label")
		if err != nil {
			return nil, err
		}
		ref, err := optionalString(iter.Value(), "reference", field+".reference")
		if err != nil {
			return nil, err
		}
		items = append(items, ir.ResolvedItem{Label: label, Reference: ref})
	}
	return items, nil
}
