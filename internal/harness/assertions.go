package harness

import (
	"fmt"
	"strings"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the resolved items to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Items    []ir.ResolvedItem
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nItems:\n")
	for i, item := range e.Items {
		fmt.Fprintf(&buf, "  [%d] %s => %s\n", i+1, item.Reference, item.Label)
	}

	return buf.String()
}

func findItem(items []ir.ResolvedItem, reference string) (ir.ResolvedItem, bool) {
	for _, item := range items {
		if item.Reference == reference {
			return item, true
		}
	}
	return ir.ResolvedItem{}, false
}

func assertContains(items []ir.ResolvedItem, a Assertion) error {
	for _, item := range items {
		if item.Reference == a.Reference && (a.Label == "" || item.Label == a.Label) {
			return nil
		}
	}
	expected := fmt.Sprintf("item %s", a.Reference)
	if a.Label != "" {
		expected += fmt.Sprintf(" labelled %q", a.Label)
	}
	return &AssertionError{Type: AssertContains, Expected: expected, Actual: "not found", Items: items}
}

func assertNotContains(items []ir.ResolvedItem, a Assertion) error {
	if item, ok := findItem(items, a.Reference); ok {
		return &AssertionError{
			Type:     AssertNotContains,
			Expected: fmt.Sprintf("no item %s", a.Reference),
			Actual:   fmt.Sprintf("found item labelled %q", item.Label),
			Items:    items,
		}
	}
	return nil
}

func assertCount(items []ir.ResolvedItem, a Assertion) error {
	if len(items) != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d items", a.Count),
			Actual:   fmt.Sprintf("%d items", len(items)),
			Items:    items,
		}
	}
	return nil
}

// assertOrder checks references appear in the given relative order.
// Other items may appear in between.
func assertOrder(items []ir.ResolvedItem, a Assertion) error {
	next := 0
	for _, item := range items {
		if next < len(a.References) && item.Reference == a.References[next] {
			next++
		}
	}
	if next == len(a.References) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOrder,
		Expected: strings.Join(a.References, " < "),
		Actual:   fmt.Sprintf("%s missing or out of order", a.References[next]),
		Items:    items,
	}
}

func assertLabelPrefix(items []ir.ResolvedItem, a Assertion) error {
	item, ok := findItem(items, a.Reference)
	if !ok {
		return &AssertionError{
			Type:     AssertLabelPrefix,
			Expected: fmt.Sprintf("item %s labelled %q...", a.Reference, a.Prefix),
			Actual:   "not found",
			Items:    items,
		}
	}
	if !strings.HasPrefix(item.Label, a.Prefix) {
		return &AssertionError{
			Type:     AssertLabelPrefix,
			Expected: fmt.Sprintf("label starting with %q", a.Prefix),
			Actual:   fmt.Sprintf("%q", item.Label),
			Items:    items,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the items.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(items []ir.ResolvedItem, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertContains:
			err = assertContains(items, a)
		case AssertNotContains:
			err = assertNotContains(items, a)
		case AssertCount:
			err = assertCount(items, a)
		case AssertOrder:
			err = assertOrder(items, a)
		case AssertLabelPrefix:
			err = assertLabelPrefix(items, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
