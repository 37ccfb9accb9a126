package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fluidtypo3/fluxactions/internal/compiler"
	"github.com/fluidtypo3/fluxactions/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Field string
	ID    string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded resolution runs",
		Long: `List the resolution runs recorded by resolve --db, oldest first.

With --id a single run is shown including its items.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Field, "field", "", "only runs of this field id")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single run")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := contextOf(cmd)

	if opts.ID != "" {
		run, err := st.ReadResolution(ctx, opts.ID)
		if errors.Is(err, store.ErrNotFound) {
			return commandError(formatter, compiler.ErrCodeNotFound, fmt.Sprintf("run %s not found", opts.ID))
		}
		if err != nil {
			return commandError(formatter, compiler.ErrCodeGeneric, err.Error())
		}
		return formatter.Emit(run, func(w io.Writer) {
			fmt.Fprintf(w, "%s  #%d  %s  %d item(s)\n", run.ID, run.Seq, run.FieldID, len(run.Items))
			for _, item := range run.Items {
				fmt.Fprintf(w, "  %s\n    %s\n", item.Reference, item.Label)
			}
		})
	}

	runs, err := st.ListResolutions(ctx, opts.Field)
	if err != nil {
		return commandError(formatter, compiler.ErrCodeGeneric, err.Error())
	}

	if runs == nil {
		runs = []store.ResolutionRun{}
	}
	return formatter.Emit(runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return
		}
		for _, run := range runs {
			fmt.Fprintf(w, "%s  #%d  %s  %d item(s)  %s\n",
				run.ID, run.Seq, run.FieldID, len(run.Items), shortHash(run.ItemsHash))
		}
	})
}

// shortHash trims a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
