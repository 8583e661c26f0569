package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// GraphResult holds the dependency map in input order.
type GraphResult struct {
	Files []string            `json:"files"`
	Deps  map[string][]string `json:"deps"`
}

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Syntax string
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph <file>...",
		Short: "Dump the inferred dependency graph",
		Long: `Build and print the dependency graph without checking cycles or
ordering. Intended for debugging requirement resolution.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Syntax, "syntax", "", "syntax YAML file overriding the declaration grammar")

	return cmd
}

func runGraph(opts *GraphOptions, paths []string, cmd *cobra.Command) error {
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

	result := GraphResult{
		Files: graph.Files(),
		Deps:  make(map[string][]string, graph.Len()),
	}
	for _, name := range result.Files {
		result.Deps[name] = graph.Deps(name)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, name := range result.Files {
		deps := result.Deps[name]
		if len(deps) == 0 {
			fmt.Fprintf(formatter.Writer, "%s:\n", name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s: %s\n", name, strings.Join(deps, " "))
	}
	return nil
}
