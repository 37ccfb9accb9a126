// Package naming builds controller identifiers, extension keys and
// language-file label references from extension naming conventions.
//
// Every function here is pure string construction. Whether an identifier
// actually exists is a catalog question (see internal/catalog).
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLanguageFile is the conventional language file of an extension.
const DefaultLanguageFile = "/Resources/Private/Language/locallang.xlf"

// upperFirst upper-cases the first letter of a word and leaves the rest alone,
// so "fluidTYPO3" becomes "FluidTYPO3".
var upperFirst = cases.Title(language.Und, cases.NoLower)

var lower = cases.Lower(language.Und)

// SplitExtensionName splits a "Vendor.Extension" name. Legacy names without
// a dot return an empty vendor. Multi-dot names keep the last segment as the
// extension and join the rest as a namespace.
func SplitExtensionName(name string) (vendor, extension string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

// IsNamespaced reports whether name uses the dotted vendor form.
func IsNamespaced(name string) bool {
	return strings.Contains(name, ".")
}

// ExtensionName returns the UpperCamelCase extension name without vendor.
//
//	"FluidTYPO3.Flux" -> "Flux"
//	"flux"            -> "Flux"
//	"my_ext"          -> "MyExt"
func ExtensionName(name string) string {
	_, ext := SplitExtensionName(name)
	return underscoredToUpperCamelCase(ext)
}

// ExtensionKey returns the lower-cased underscored extension key.
//
//	"FluidTYPO3.Flux" -> "flux"
//	"MyExt"           -> "my_ext"
//	"my_ext"          -> "my_ext"
func ExtensionKey(name string) string {
	_, ext := SplitExtensionName(name)
	return camelCaseToLowerUnderscored(ext)
}

// NamespacedControllerName builds Vendor\Extension\Controller\{Key}Controller.
func NamespacedControllerName(extensionName, controller string) string {
	vendor, ext := SplitExtensionName(extensionName)
	segments := []string{}
	for _, v := range strings.Split(vendor, ".") {
		if v != "" {
			segments = append(segments, upperFirst.String(v))
		}
	}
	segments = append(segments, upperFirst.String(ext), "Controller", controller+"Controller")
	return strings.Join(segments, `\`)
}

// LegacyControllerName builds Tx_{Extension}_Controller_{Key}Controller.
func LegacyControllerName(extensionName, controller string) string {
	return "Tx_" + ExtensionName(extensionName) + "_Controller_" + controller + "Controller"
}

// ControllerName returns the identifier convention applies to extensionName:
// namespaced for dotted names, legacy otherwise.
func ControllerName(extensionName, controller string) string {
	if IsNamespaced(extensionName) {
		return NamespacedControllerName(extensionName, controller)
	}
	return LegacyControllerName(extensionName, controller)
}

// ActionReference returns "Controller->action".
func ActionReference(controller, action string) string {
	return controller + "->" + action
}

// LabelReference builds LLL:EXT:{extensionKey}{relativePath}:{path}.
func LabelReference(extensionKey, relativePath, path string) string {
	return "LLL:EXT:" + extensionKey + relativePath + ":" + path
}

// ActionLabelPath returns "{plugin}.{controller}.{action}", lower-cased.
// An empty plugin name leaves a leading dot.
func ActionLabelPath(pluginName, controller, action string) string {
	return lower.String(pluginName + "." + controller + "." + action)
}

// FieldLabelPath returns the auto-label path of a field attached to a form.
func FieldLabelPath(formName, fieldName string) string {
	return "flux." + formName + ".fields." + fieldName
}

func underscoredToUpperCamelCase(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		b.WriteString(upperFirst.String(part))
	}
	return b.String()
}

func camelCaseToLowerUnderscored(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return lower.String(b.String())
}
