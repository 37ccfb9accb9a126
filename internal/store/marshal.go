package store

import (
	"encoding/json"
	"fmt"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// marshalParams converts action params to canonical JSON TEXT for storage.
func marshalParams(params []ir.ActionParam) (string, error) {
	list := make([]any, len(params))
	for i, p := range params {
		list[i] = map[string]any{
			"name":        p.Name,
			"type":        p.Type,
			"has_default": p.HasDefault,
			"nullable":    p.Nullable,
		}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// marshalStrings converts a string list to canonical JSON TEXT.
func marshalStrings(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(data), nil
}

// marshalItems converts resolved items to canonical JSON TEXT.
func marshalItems(items []ir.ResolvedItem) (string, error) {
	list := make([]any, len(items))
	for i, it := range items {
		list[i] = map[string]any{"label": it.Label, "reference": it.Reference}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}

// unmarshalParams returns nil for an empty list.
func unmarshalParams(data string) ([]ir.ActionParam, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var params []ir.ActionParam
	if err := json.Unmarshal([]byte(data), &params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	return params, nil
}

func unmarshalStrings(data string) ([]string, error) {
	list := []string{}
	if data == "" || data == "[]" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	return list, nil
}

func unmarshalItems(data string) ([]ir.ResolvedItem, error) {
	items := []ir.ResolvedItem{}
	if data == "" || data == "[]" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}
