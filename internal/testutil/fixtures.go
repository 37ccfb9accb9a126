package testutil

import (
	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// Controller identifiers used by the fixture catalog.
const (
	ContentControllerID       = `FluidTYPO3\Flux\Controller\ContentController`
	OtherControllerID         = `FluidTYPO3\Flux\Controller\OtherController`
	LegacyContentControllerID = "Tx_Flux_Controller_ContentController"
)

// LanguageFile is the relative language file path used throughout fixtures.
const LanguageFile = "/Resources/Private/Language/locallang.xlf"

// ContentController returns the fixture content controller:
//
//	render                    no annotation, no arguments
//	fake                      annotated "Fake Action"
//	fakeWithoutDescription    no annotation
//	fakeWithRequiredArgument  one argument without default
func ContentController(id string) ir.ControllerDef {
	return ir.ControllerDef{
		ID: id,
		Actions: []ir.ActionDef{
			{Name: "render"},
			{Name: "fake", Description: "Fake Action"},
			{Name: "fakeWithoutDescription"},
			{Name: "fakeWithRequiredArgument", Description: "Fake With Argument",
				Params: []ir.ActionParam{{Name: "required", Type: "string"}}},
		},
	}
}

// FluxCatalog returns a catalog with the namespaced and legacy content
// controllers registered. OtherController is not registered.
func FluxCatalog() *catalog.Memory {
	return catalog.NewMemory(
		ContentController(ContentControllerID),
		ContentController(LegacyContentControllerID),
	)
}

// FluxNaming returns the naming defaults used by most resolver tests.
func FluxNaming() ir.NamingConfig {
	return ir.NamingConfig{
		ControllerExtensionName:       "FluidTYPO3.Flux",
		PluginName:                    "API",
		LocalLanguageFileRelativePath: LanguageFile,
		PrefixOnRequiredArguments:     "*",
	}
}

// FluxField returns a field configured like a typical content-element field.
func FluxField() ir.FieldSpec {
	return ir.FieldSpec{
		ID:      "main",
		Label:   "Test field",
		Enabled: true,
		Naming:  FluxNaming(),
		Actions: ir.ActionSpec{},
	}
}
