package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitch-cli/stitch/internal/depgraph"
)

// WeaveOptions holds flags for the weave command.
type WeaveOptions struct {
	*RootOptions
	Syntax  string
	History string
	Output  string // output file path; stdout when empty
}

// NewWeaveCommand creates the weave command.
//
// Weave is the thin concatenation wrapper over the ordering core: it writes
// the input contents joined in dependency order.
func NewWeaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WeaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "weave <file>...",
		Short: "Concatenate source files in dependency order",
		Long: `Compute the concatenation order and write the file contents joined in
that order to stdout or the output file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeave(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Syntax, "syntax", "", "syntax YAML file overriding the declaration grammar")
	cmd.Flags().StringVar(&opts.History, "history", "", "record the run in this history database")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runWeave(opts *WeaveOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	files, graph, err := loadGraph(paths, opts.Syntax, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	seq, err := computeOrder(opts.History, graph, formatter, cmd)
	if err != nil {
		return err
	}

	combined := concatenate(files, seq)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(combined), 0o644); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output", err)
		}
		formatter.VerboseLog("Wrote %d file(s) to %s", len(seq), opts.Output)
		return nil
	}

	fmt.Fprint(formatter.Writer, combined)
	return nil
}

// concatenate joins the file contents in the computed order, ensuring each
// chunk ends with a newline so declarations stay line-anchored.
func concatenate(files []depgraph.SourceFile, seq []string) string {
	byName := make(map[string]string, len(files))
	for _, f := range files {
		byName[f.Name] = f.Content
	}

	var b strings.Builder
	for _, name := range seq {
		content := byName[name]
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}
