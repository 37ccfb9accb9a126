package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fluidtypo3/fluxactions/internal/compiler"
	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/store"
)

// CatalogSummary describes a stored or imported catalog.
type CatalogSummary struct {
	Controllers []ir.ControllerDef `json:"controllers"`
	Aliases     []AliasEntry       `json:"aliases"`
	Plugins     []ir.PluginDef     `json:"plugins"`
}

// AliasEntry is one controller alias.
type AliasEntry struct {
	Alias  string `json:"alias"`
	Target string `json:"target"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the stored controller catalog",
		Long: `Import controller, alias and plugin declarations into the --db
database, or list what is stored there. A stored catalog can be used by
resolve --stored-catalog.`,
	}

	cmd.AddCommand(newCatalogImportCommand(rootOpts))
	cmd.AddCommand(newCatalogListCommand(rootOpts))
	return cmd
}

func newCatalogImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <specs-dir>",
		Short: "Replace the stored catalog with the one declared in specs",
		Example: `  fluxactions catalog import ./specs --db fluxactions.db
  FLUXACTIONS_DB=fluxactions.db fluxactions catalog import ./specs`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogImport(rootOpts, args[0], cmd)
		},
	}
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the stored catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(rootOpts, cmd)
		},
	}
}

func runCatalogImport(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	st, err := openStore(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	bundle, loadErrors := compiler.Load(specsDir, compiler.LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return commandError(formatter, loadErr.Code, loadErr.Message)
		}
		return commandError(formatter, compiler.ErrCodeBuildFailed, loadErrors[0].Error())
	}

	cat, err := bundle.Catalog()
	if err != nil {
		return commandError(formatter, compiler.ErrCodeBuildFailed, fmt.Sprintf("building catalog: %v", err))
	}
	plugins := bundle.PluginRegistry()

	if err := st.SaveCatalog(contextOf(cmd), cat, plugins); err != nil {
		return commandError(formatter, compiler.ErrCodeWriteFailed, fmt.Sprintf("saving catalog: %v", err))
	}
	formatter.VerboseLog("Imported catalog from %s into %s", specsDir, opts.DB)

	summary := summarize(cat.Controllers(), cat.Aliases(), plugins.Plugins())
	return formatter.Emit(summary, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Imported %d controller(s), %d alias(es), %d plugin(s)\n",
			len(summary.Controllers), len(summary.Aliases), len(summary.Plugins))
	})
}

func runCatalogList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	st, err := openStore(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, plugins, err := st.LoadCatalog(contextOf(cmd))
	if err != nil {
		return commandError(formatter, compiler.ErrCodeGeneric, fmt.Sprintf("loading catalog: %v", err))
	}

	summary := summarize(cat.Controllers(), cat.Aliases(), plugins.Plugins())
	return formatter.Emit(summary, func(w io.Writer) { writeCatalogText(w, summary) })
}

func summarize(controllers []ir.ControllerDef, aliases [][2]string, plugins []ir.PluginDef) CatalogSummary {
	s := CatalogSummary{
		Controllers: controllers,
		Aliases:     make([]AliasEntry, len(aliases)),
		Plugins:     plugins,
	}
	for i, a := range aliases {
		s.Aliases[i] = AliasEntry{Alias: a[0], Target: a[1]}
	}
	return s
}

func writeCatalogText(w io.Writer, s CatalogSummary) {
	if len(s.Controllers) == 0 && len(s.Plugins) == 0 {
		fmt.Fprintln(w, "Catalog is empty.")
		return
	}

	fmt.Fprintf(w, "Controllers (%d):\n", len(s.Controllers))
	for _, c := range s.Controllers {
		names := make([]string, len(c.Actions))
		for i, a := range c.Actions {
			names[i] = a.Name
			if a.RequiresArgument() {
				names[i] += "*"
			}
		}
		fmt.Fprintf(w, "  %s: %s\n", c.ID, strings.Join(names, ", "))
	}

	if len(s.Aliases) > 0 {
		fmt.Fprintf(w, "\nAliases (%d):\n", len(s.Aliases))
		for _, a := range s.Aliases {
			fmt.Fprintf(w, "  %s => %s\n", a.Alias, a.Target)
		}
	}

	if len(s.Plugins) > 0 {
		fmt.Fprintf(w, "\nPlugins (%d):\n", len(s.Plugins))
		for _, p := range s.Plugins {
			fmt.Fprintf(w, "  %s.%s: %d action(s)\n", p.ExtensionName, p.PluginName, p.Actions.Count())
		}
	}
}

// openStore opens the --db database or reports a command error.
func openStore(opts *RootOptions, formatter *OutputFormatter) (*store.Store, error) {
	if opts.DB == "" {
		return nil, commandError(formatter, compiler.ErrCodeGeneric, "no database: set --db or "+EnvDB)
	}
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, commandError(formatter, compiler.ErrCodeGeneric, fmt.Sprintf("opening database: %v", err))
	}
	return st, nil
}

// commandError reports an error and returns it with exit code 2.
func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
