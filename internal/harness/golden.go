package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// Snapshot captures the resolved items of a scenario.
// Serialized as canonical JSON for deterministic comparison.
type Snapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Field        string            `json:"field"`
	Items        []ir.ResolvedItem `json:"items"`
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	items := make([]any, len(s.Items))
	for i, item := range s.Items {
		items[i] = map[string]any{"label": item.Label, "reference": item.Reference}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"field":         s.Field,
		"items":         items,
	}
}

// MarshalSnapshot returns the canonical JSON golden content for a result.
func MarshalSnapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenario.Name,
		Field:        scenario.Field,
		Items:        result.Items,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the items against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := MarshalSnapshot(scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
