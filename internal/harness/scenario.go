package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// Scenario defines a conformance test scenario for one field.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE spec directories to compile and merge.
	// Paths are relative to the scenario file location.
	Specs []string `yaml:"specs"`

	// Field is the id of the field to resolve.
	Field string `yaml:"field"`

	// Separator overrides the field's sub-action separator.
	Separator string `yaml:"separator,omitempty"`

	// Expect is the exact item list. If nil, only assertions are checked.
	Expect []ExpectedItem `yaml:"expect,omitempty"`

	// Assertions validate the resolved items.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectedItem is one expected (label, reference) pair.
type ExpectedItem struct {
	Label     string `yaml:"label"`
	Reference string `yaml:"reference"`
}

// Assertion validates the resolved items.
type Assertion struct {
	// Type specifies the assertion type:
	// - "contains": an item with Reference exists (and Label, if given)
	// - "not_contains": no item has Reference
	// - "count": exactly Count items were resolved
	// - "order": References appear in this relative order
	// - "label_prefix": the item with Reference has a label starting with Prefix
	Type string `yaml:"type"`

	Reference  string   `yaml:"reference,omitempty"`
	Label      string   `yaml:"label,omitempty"`
	Count      int      `yaml:"count,omitempty"`
	References []string `yaml:"references,omitempty"`
	Prefix     string   `yaml:"prefix,omitempty"`
}

// Assertion type constants.
const (
	AssertContains    = "contains"
	AssertNotContains = "not_contains"
	AssertCount       = "count"
	AssertOrder       = "order"
	AssertLabelPrefix = "label_prefix"
)

// ExpectedItems converts Expect to resolved items.
func (s *Scenario) ExpectedItems() []ir.ResolvedItem {
	if s.Expect == nil {
		return nil
	}
	out := make([]ir.ResolvedItem, len(s.Expect))
	for i, e := range s.Expect {
		out[i] = ir.ResolvedItem{Label: e.Label, Reference: e.Reference}
	}
	return out
}

// LoadScenario reads and parses a scenario YAML file.
// Spec paths are resolved relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) {
			scenario.Specs[i] = filepath.Join(base, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	if s.Field == "" {
		return fmt.Errorf("field is required")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec directory not found: %s", specPath)
		}
	}

	for i, e := range s.Expect {
		if e.Reference == "" {
			return fmt.Errorf("expect[%d]: reference is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertNotContains:
		if a.Reference == "" {
			return fmt.Errorf("assertions[%d]: reference is required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertOrder:
		if len(a.References) == 0 {
			return fmt.Errorf("assertions[%d]: references list is required for order", index)
		}
	case AssertLabelPrefix:
		if a.Reference == "" || a.Prefix == "" {
			return fmt.Errorf("assertions[%d]: reference and prefix are required for label_prefix", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
