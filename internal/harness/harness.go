package harness

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/fluidtypo3/fluxactions/internal/compiler"
	"github.com/fluidtypo3/fluxactions/internal/field"
	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/resolver"
	"github.com/fluidtypo3/fluxactions/internal/store"
	"github.com/fluidtypo3/fluxactions/internal/testutil"
)

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *zap.Logger
}

// WithLogger routes resolver skip diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Compile and merge the scenario's spec directories
// 2. Build the catalog and plugin registry
// 3. Resolve the field and record the run
// 4. Read the run back and compare against expect and assertions
//
// A non-nil error means the scenario could not be executed at all;
// mismatches are reported through Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := &runConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	bundles := make([]*compiler.Bundle, 0, len(scenario.Specs))
	for _, dir := range scenario.Specs {
		b, errs := compiler.Load(dir, compiler.LoadModeFailFast)
		if len(errs) > 0 {
			return nil, fmt.Errorf("failed to load specs %s: %w", dir, errs[0])
		}
		bundles = append(bundles, b)
	}
	bundle := compiler.Merge(bundles...)

	cat, err := bundle.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	spec, ok := bundle.Field(scenario.Field)
	if !ok {
		return nil, fmt.Errorf("field %q not declared in specs", scenario.Field)
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequentialIDGenerator("run")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	r := resolver.New(cat, resolver.WithLogger(cfg.logger.With(zap.String("scenario", scenario.Name))))
	f := field.New(spec, r, field.WithPlugins(bundle.PluginRegistry()))
	if scenario.Separator != "" {
		f.SetSeparator(scenario.Separator)
	}

	result := NewResult()
	if result.ConfigHash, err = ir.FieldHash(f.Spec); err != nil {
		return nil, fmt.Errorf("failed to hash field: %w", err)
	}

	ctx := context.Background()
	if result.RunID, err = st.RecordResolution(ctx, f.Spec.ID, result.ConfigHash, f.Items()); err != nil {
		return nil, fmt.Errorf("failed to record resolution: %w", err)
	}
	run, err := st.ReadResolution(ctx, result.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution: %w", err)
	}
	result.Items = run.Items

	if want := scenario.ExpectedItems(); want != nil {
		if diff := cmp.Diff(want, result.Items); diff != "" {
			result.AddError(fmt.Sprintf("items mismatch (-want +got):\n%s", diff))
		}
	}

	for _, msg := range EvaluateAssertions(result.Items, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}
