package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/compiler"
	"github.com/fluidtypo3/fluxactions/internal/field"
	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/resolver"
	"github.com/fluidtypo3/fluxactions/internal/store"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Fields          []string // restrict to these field ids
	IncludeDisabled bool     // resolve fields with enabled: false
	StoredCatalog   bool     // read controllers from --db instead of the specs
	Parallel        int      // max fields resolved concurrently
	CacheSize       int
}

// FieldResult is the resolved output of one field.
type FieldResult struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	ConfigHash string            `json:"config_hash"`
	RunID      string            `json:"run_id,omitempty"`
	Items      []ir.ResolvedItem `json:"items"`
}

// ResolveResult holds the output of a resolve run.
type ResolveResult struct {
	Fields []FieldResult `json:"fields"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <specs-dir>",
		Short: "Resolve fields into selectable items",
		Long: `Compile the CUE specs in a directory and resolve every enabled
controller-actions field into its (label, reference) items.

When --db is set each resolution is recorded as a run.

Examples:
  fluxactions resolve ./specs
  fluxactions resolve ./specs --field main --format json
  fluxactions resolve ./specs --db fluxactions.db --stored-catalog`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Fields, "field", nil, "resolve only these field ids")
	cmd.Flags().BoolVar(&opts.IncludeDisabled, "include-disabled", false, "also resolve disabled fields")
	cmd.Flags().BoolVar(&opts.StoredCatalog, "stored-catalog", false, "use the controller catalog stored in --db")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "maximum fields resolved concurrently (0 = unbounded)")
	cmd.Flags().IntVar(&opts.CacheSize, "cache-size", resolver.DefaultCacheSize, "resolution cache entries")

	return cmd
}

func runResolve(opts *ResolveOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := contextOf(cmd)

	if opts.StoredCatalog && opts.DB == "" {
		return commandError(formatter, compiler.ErrCodeGeneric, "--stored-catalog requires --db")
	}

	bundle, loadErrors := compiler.Load(specsDir, compiler.LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return commandError(formatter, loadErr.Code, loadErr.Message)
		}
		return commandError(formatter, compiler.ErrCodeBuildFailed, loadErrors[0].Error())
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", bundle.FileCount, specsDir)

	specs, err := selectFields(bundle, opts)
	if err != nil {
		return commandError(formatter, compiler.ErrCodeNotFound, err.Error())
	}

	var st *store.Store
	if opts.DB != "" {
		if st, err = openStore(opts.RootOptions, formatter); err != nil {
			return err
		}
		defer st.Close()
	}

	var (
		cat     *catalog.Memory
		plugins *catalog.PluginRegistry
	)
	if opts.StoredCatalog {
		cat, plugins, err = st.LoadCatalog(ctx)
		if err != nil {
			return commandError(formatter, compiler.ErrCodeGeneric, fmt.Sprintf("loading stored catalog: %v", err))
		}
		formatter.VerboseLog("Loaded %d controller(s) from %s", len(cat.Controllers()), opts.DB)
	} else {
		cat, err = bundle.Catalog()
		if err != nil {
			return commandError(formatter, compiler.ErrCodeBuildFailed, fmt.Sprintf("building catalog: %v", err))
		}
		plugins = bundle.PluginRegistry()
	}

	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	defer func() { _ = logger.Sync() }()

	r := resolver.New(cat, resolver.WithLogger(logger))
	cache, err := resolver.NewCache(r, opts.CacheSize)
	if err != nil {
		return commandError(formatter, compiler.ErrCodeGeneric, err.Error())
	}

	fields := make([]*field.ControllerActions, len(specs))
	for i, spec := range specs {
		fields[i] = field.New(spec, r, field.WithCache(cache), field.WithPlugins(plugins))
	}

	resolved, err := field.ResolveAll(ctx, fields, opts.Parallel)
	if err != nil {
		return commandError(formatter, compiler.ErrCodeGeneric, err.Error())
	}

	result := ResolveResult{Fields: make([]FieldResult, len(fields))}
	for i, f := range fields {
		hash, err := ir.FieldHash(f.Spec)
		if err != nil {
			return commandError(formatter, compiler.ErrCodeGeneric, err.Error())
		}
		fr := FieldResult{
			ID:         f.Spec.ID,
			Name:       f.Name(),
			Label:      f.Label(),
			ConfigHash: hash,
			Items:      resolved[i],
		}
		if st != nil {
			fr.RunID, err = st.RecordResolution(ctx, f.Spec.ID, hash, resolved[i])
			if err != nil {
				return commandError(formatter, compiler.ErrCodeWriteFailed, fmt.Sprintf("recording run: %v", err))
			}
			formatter.VerboseLog("Recorded run %s for field %s", fr.RunID, f.Spec.ID)
		}
		result.Fields[i] = fr
	}

	stats := cache.Stats()
	logger.Debug("resolution finished",
		zap.Int("fields", len(fields)),
		zap.Uint64("cache_hits", stats.Hits),
		zap.Uint64("cache_misses", stats.Misses))

	return formatter.Emit(result, func(w io.Writer) { writeResolveText(w, result) })
}

// selectFields picks the fields to resolve, in declaration order.
// Fields named with --field are resolved even when disabled.
func selectFields(bundle *compiler.Bundle, opts *ResolveOptions) ([]ir.FieldSpec, error) {
	if len(opts.Fields) > 0 {
		out := make([]ir.FieldSpec, 0, len(opts.Fields))
		for _, id := range opts.Fields {
			spec, ok := bundle.Field(id)
			if !ok {
				return nil, fmt.Errorf("field %q not declared in specs", id)
			}
			out = append(out, spec)
		}
		return out, nil
	}

	out := make([]ir.FieldSpec, 0, len(bundle.Fields))
	for _, spec := range bundle.Fields {
		if spec.Enabled || opts.IncludeDisabled {
			out = append(out, spec)
		}
	}
	return out, nil
}

func writeResolveText(w io.Writer, result ResolveResult) {
	fmt.Fprintf(w, "✓ Resolved %d field(s)\n", len(result.Fields))
	for _, f := range result.Fields {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s: %d item(s)\n", f.ID, len(f.Items))
		if f.Label != "" {
			fmt.Fprintf(w, "  label: %s\n", f.Label)
		}
		if f.RunID != "" {
			fmt.Fprintf(w, "  run:   %s\n", f.RunID)
		}
		for _, item := range f.Items {
			fmt.Fprintf(w, "  %s\n    %s\n", item.Reference, item.Label)
		}
	}
}
