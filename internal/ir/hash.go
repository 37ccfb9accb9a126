package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainField = "fluxactions/field/v1"
	DomainItems = "fluxactions/items/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FieldHash computes a content hash over every input that influences
// resolution of f. Raw items and presentation-only settings are included so
// that two fields hash equal only if they resolve identically.
func FieldHash(f FieldSpec) (string, error) {
	canonical, err := MarshalCanonical(fieldMap(f))
	if err != nil {
		return "", fmt.Errorf("FieldHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainField, canonical), nil
}

// ItemsHash computes a content hash over an ordered item list.
func ItemsHash(items []ResolvedItem) (string, error) {
	canonical, err := MarshalCanonical(itemsList(items))
	if err != nil {
		return "", fmt.Errorf("ItemsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainItems, canonical), nil
}

// MustFieldHash is like FieldHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFieldHash(f FieldSpec) string {
	h, err := FieldHash(f)
	if err != nil {
		panic(err)
	}
	return h
}

func itemsList(items []ResolvedItem) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = map[string]any{"label": it.Label, "reference": it.Reference}
	}
	return out
}

func fieldMap(f FieldSpec) map[string]any {
	actions := make([]any, len(f.Actions))
	for i, e := range f.Actions {
		actions[i] = map[string]any{"controller": e.Controller, "actions": e.Actions}
	}
	sub := make(map[string]any, len(f.SubActions))
	for c, m := range f.SubActions {
		inner := make(map[string]any, len(m))
		for a, list := range m {
			inner[a] = list
		}
		sub[c] = inner
	}
	excl := make(map[string]any, len(f.Exclusions))
	for c, list := range f.Exclusions {
		excl[c] = list
	}
	n := f.Naming
	return map[string]any{
		"actions":         actions,
		"sub_actions":     sub,
		"exclude_actions": excl,
		"items":           itemsList(f.Items),
		"naming": map[string]any{
			"controller_extension_name":         n.ControllerExtensionName,
			"plugin_name":                       n.PluginName,
			"controller_name":                   n.ControllerName,
			"default_controller_name":           n.DefaultControllerName,
			"local_language_file_relative_path": n.LocalLanguageFileRelativePath,
			"disable_local_language_labels":     n.DisableLocalLanguageLabels,
			"prefix_on_required_arguments":      n.PrefixOnRequiredArguments,
			"separator":                         n.EffectiveSeparator(),
		},
	}
}
