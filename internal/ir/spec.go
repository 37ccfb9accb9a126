package ir

import "strings"

// SplitList splits a comma-delimited list, trimming whitespace and dropping
// empty entries. Order is preserved.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeList accepts either a sequence or a scalar action list.
// A []string or []any of strings is taken as-is; a string is comma-split.
// Anything else yields an empty list.
func NormalizeList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return SplitList(val)
	default:
		return []string{}
	}
}

// Lookup returns the actions declared for controller.
func (s ActionSpec) Lookup(controller string) ([]string, bool) {
	for _, e := range s {
		if e.Controller == controller {
			return e.Actions, true
		}
	}
	return nil, false
}

// Set replaces the actions of controller, or appends a new entry.
func (s ActionSpec) Set(controller string, actions []string) ActionSpec {
	for i, e := range s {
		if e.Controller == controller {
			s[i].Actions = actions
			return s
		}
	}
	return append(s, ControllerActions{Controller: controller, Actions: actions})
}

// Controllers returns controller keys in declaration order.
func (s ActionSpec) Controllers() []string {
	out := make([]string, len(s))
	for i, e := range s {
		out[i] = e.Controller
	}
	return out
}

// Count returns the total number of declared action entries.
func (s ActionSpec) Count() int {
	n := 0
	for _, e := range s {
		n += len(e.Actions)
	}
	return n
}

// Excludes reports whether action is excluded for controller.
func (e ExclusionSpec) Excludes(controller, action string) bool {
	for _, a := range e[controller] {
		if a == action {
			return true
		}
	}
	return false
}

// For returns the sub-actions chained to controller/action.
func (s SubActionSpec) For(controller, action string) []string {
	if s == nil {
		return nil
	}
	return s[controller][action]
}
