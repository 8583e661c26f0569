package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stitch-cli/stitch/internal/depgraph"
	"github.com/stitch-cli/stitch/internal/history"
	"github.com/stitch-cli/stitch/internal/order"
)

// OrderOptions holds flags for the order command.
type OrderOptions struct {
	*RootOptions
	Syntax  string // optional syntax YAML override
	History string // optional history database path
}

// OrderResult holds the computed concatenation order.
type OrderResult struct {
	Files []string `json:"files"` // input listing, caller order
	Order []string `json:"order"` // dependency-satisfying order
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "order <file>...",
		Short: "Compute the concatenation order for a set of source files",
		Long: `Compute a concatenation order in which every file appears after all
files defining the identifiers it requires.

Text output is the ordered file list joined by spaces on a single line,
ready to hand to a concatenation step. A dependency cycle aborts the run
with the cycle path and exit code 1.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Syntax, "syntax", "", "syntax YAML file overriding the declaration grammar")
	cmd.Flags().StringVar(&opts.History, "history", "", "record the run in this history database")

	return cmd
}

func runOrder(opts *OrderOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	_, graph, err := loadGraph(paths, opts.Syntax, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	seq, err := computeOrder(opts.History, graph, formatter, cmd)
	if err != nil {
		return err
	}

	if formatter.Format == "json" {
		return formatter.Success(OrderResult{Files: graph.Files(), Order: seq})
	}
	return formatter.Success(strings.Join(seq, " "))
}

// computeOrder runs the cycle check and the order builder, recording the
// run when a history database is configured. Shared by order and weave.
func computeOrder(historyPath string, graph *depgraph.Graph, formatter *OutputFormatter, cmd *cobra.Command) ([]string, error) {
	if err := depgraph.CheckAcyclic(graph); err != nil {
		var cerr *depgraph.CycleError
		if errors.As(err, &cerr) {
			run := history.Run{
				ID:        history.NewRunID(),
				CreatedAt: time.Now(),
				Status:    history.StatusCycle,
				Err:       cerr.Error(),
				Files:     graph.Files(),
			}
			if herr := recordRun(historyPath, run, formatter, cmd); herr != nil {
				return nil, herr
			}

			_ = formatter.Error(ErrCodeCycle, cerr.Error(), cerr.Path)
			return nil, WrapExitError(ExitFailure, "dependency cycle detected", err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "cycle check failed", err)
	}
	formatter.VerboseLog("No dependency cycles in %d file(s)", graph.Len())

	seq := order.Compute(graph)

	run := history.Run{
		ID:        history.NewRunID(),
		CreatedAt: time.Now(),
		Status:    history.StatusOK,
		Files:     graph.Files(),
		Order:     seq,
	}
	if err := recordRun(historyPath, run, formatter, cmd); err != nil {
		return nil, err
	}

	return seq, nil
}

// recordRun persists a run when a history database is configured.
// Recording failures are surfaced as command errors, not swallowed.
func recordRun(historyPath string, run history.Run, formatter *OutputFormatter, cmd *cobra.Command) error {
	if historyPath == "" {
		return nil
	}

	store, err := history.Open(historyPath)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening history database", err)
	}
	defer store.Close()

	if err := store.RecordRun(cmd.Context(), run); err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "recording run", err)
	}
	formatter.VerboseLog("Recorded run %s", run.ID)
	return nil
}

// outputLoadError reports a load failure and converts it to a command error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, loadErr.Message, err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), err)
}
