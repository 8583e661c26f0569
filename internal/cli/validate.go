package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitch-cli/stitch/internal/depgraph"
)

// ValidationResult holds cycle check results.
type ValidationResult struct {
	Valid bool     `json:"valid"`
	Cycle []string `json:"cycle,omitempty"` // witness path when invalid
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Syntax string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check the input set for dependency cycles without ordering",
		Long: `Build the dependency graph and check it for cycles without computing
an order. Faster feedback than order when only graph health matters.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Syntax, "syntax", "", "syntax YAML file overriding the declaration grammar")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
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

	if err := depgraph.CheckAcyclic(graph); err != nil {
		var cerr *depgraph.CycleError
		if errors.As(err, &cerr) {
			return outputValidationFailure(formatter, cerr)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cycle check failed", err)
	}

	return outputValidateSuccess(formatter, graph.Len())
}

// outputValidateSuccess outputs a successful cycle check.
func outputValidateSuccess(formatter *OutputFormatter, fileCount int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ No dependency cycles in %d file(s)\n", fileCount)
	return nil
}

// outputValidationFailure outputs the cycle witness.
func outputValidationFailure(formatter *OutputFormatter, cerr *depgraph.CycleError) error {
	if formatter.Format == "json" {
		if err := formatter.Error(ErrCodeCycle, cerr.Error(), ValidationResult{Valid: false, Cycle: cerr.Path}); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "dependency cycle detected", cerr)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeCycle, cerr.Error())
	return WrapExitError(ExitFailure, "dependency cycle detected", cerr)
}
