package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// CompileController parses a controller struct into a ControllerDef.
//
//	controller: "FluidTYPO3\\Flux\\Controller\\ContentController": {
//		action: render: {}
//		action: fake: description: "Fake Action"
//		action: show: params: [{name: "record", type: "int"}]
//	}
//
// A parameter is required unless it sets hasDefault: true.
func CompileController(id string, v cue.Value) (*ir.ControllerDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	prefix := "controller." + id

	def := &ir.ControllerDef{ID: id, Actions: []ir.ActionDef{}}
	err := fieldsOf(v, "action", prefix+".action", func(name string, val cue.Value) error {
		action, err := parseAction(prefix+".action."+name, name, val)
		if err != nil {
			return err
		}
		def.Actions = append(def.Actions, action)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

func parseAction(field, name string, v cue.Value) (ir.ActionDef, error) {
	action := ir.ActionDef{Name: name, Params: []ir.ActionParam{}}

	var err error
	if action.Description, err = optionalString(v, "description", field+".description"); err != nil {
		return action, err
	}

	params := v.LookupPath(cue.ParsePath("params"))
	if !params.Exists() {
		return action, nil
	}
	iter, err := params.List()
	if err != nil {
		return action, &CompileError{Field: field + ".params", Message: "must be a list", Pos: params.Pos()}
	}
	for i := 0; iter.Next(); i++ {
		pf := fmt.Sprintf("%s.params[%d]", field, i)
		p := ir.ActionParam{}
		if p.Name, err = optionalString(iter.Value(), "name", pf+".name"); err != nil {
			return action, err
		}
		if p.Type, err = optionalString(iter.Value(), "type", pf+".type"); err != nil {
			return action, err
		}
		if p.HasDefault, err = optionalBool(iter.Value(), "hasDefault", pf+".hasDefault", false); err != nil {
			return action, err
		}
		if p.Nullable, err = optionalBool(iter.Value(), "nullable", pf+".nullable", false); err != nil {
			return action, err
		}
		action.Params = append(action.Params, p)
	}
	return action, nil
}

// CompilePlugins parses plugin registrations.
//
//	plugin: Flux: API: {Content: "render,fake"}
func CompilePlugins(v cue.Value) ([]ir.PluginDef, error) {
	var plugins []ir.PluginDef
	err := fieldsOf(v, "", "plugin", func(ext string, extVal cue.Value) error {
		return fieldsOf(extVal, "", "plugin."+ext, func(plugin string, pv cue.Value) error {
			def := ir.PluginDef{ExtensionName: ext, PluginName: plugin, Actions: ir.ActionSpec{}}
			field := "plugin." + ext + "." + plugin
			err := fieldsOf(pv, "", field, func(controller string, av cue.Value) error {
				list, err := stringList(av, field+"."+controller)
				if err != nil {
					return err
				}
				def.Actions = append(def.Actions, ir.ControllerActions{Controller: controller, Actions: list})
				return nil
			})
			if err != nil {
				return err
			}
			plugins = append(plugins, def)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return plugins, nil
}

// CompileAliases parses alias -> target controller pairs in declaration order.
//
//	alias: "FluidTYPO3\\Flux\\Controller\\OtherController": "FluidTYPO3\\Flux\\Controller\\ContentController"
func CompileAliases(v cue.Value) ([][2]string, error) {
	var aliases [][2]string
	err := fieldsOf(v, "", "alias", func(alias string, tv cue.Value) error {
		target, err := tv.String()
		if err != nil {
			return &CompileError{Field: "alias." + alias, Message: "target must be a string", Pos: tv.Pos()}
		}
		aliases = append(aliases, [2]string{alias, target})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aliases, nil
}
