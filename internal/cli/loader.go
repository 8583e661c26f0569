package cli

import (
	"fmt"
	"os"

	"github.com/stitch-cli/stitch/internal/depgraph"
	"github.com/stitch-cli/stitch/internal/extract"
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric  = "E001" // unclassified command error
	ErrCodeNoFiles  = "E002" // no input files given
	ErrCodeReadFile = "E003" // input file missing or unreadable
	ErrCodeSyntax   = "E004" // syntax config file invalid
	ErrCodeCycle    = "E101" // dependency cycle detected
	ErrCodeHistory  = "E201" // history database failure
)

// LoadError represents an error that occurred while loading inputs.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSources reads every input file into memory, preserving caller order.
//
// Loading fails fast: a missing or unreadable file is a fatal input error
// and aborts before any graph work (no partial results).
func LoadSources(paths []string) ([]depgraph.SourceFile, error) {
	if len(paths) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: "no input files"}
	}

	files := make([]depgraph.SourceFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeReadFile,
				Message: fmt.Sprintf("reading %s: %v", path, err),
			}
		}
		files = append(files, depgraph.SourceFile{Name: path, Content: string(content)})
	}
	return files, nil
}

// loadExtractor builds the extractor for a command, honoring an optional
// syntax file override.
func loadExtractor(syntaxPath string) (extract.Extractor, error) {
	syntax := extract.DefaultSyntax()
	if syntaxPath != "" {
		loaded, err := extract.LoadSyntax(syntaxPath)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeSyntax, Message: err.Error()}
		}
		syntax = loaded
	}

	ex, err := extract.NewHeuristicExtractor(syntax)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSyntax, Message: err.Error()}
	}
	return ex, nil
}

// loadGraph runs the shared front half of every data command: read the
// inputs, build the extractor, build the dependency graph.
func loadGraph(paths []string, syntaxPath string, formatter *OutputFormatter) ([]depgraph.SourceFile, *depgraph.Graph, error) {
	ex, err := loadExtractor(syntaxPath)
	if err != nil {
		return nil, nil, err
	}

	files, err := LoadSources(paths)
	if err != nil {
		return nil, nil, err
	}
	formatter.VerboseLog("Loaded %d input file(s)", len(files))

	graph, err := depgraph.Build(files, ex)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	return files, graph, nil
}
