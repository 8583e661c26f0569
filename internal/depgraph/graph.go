// Package depgraph builds and validates the file dependency graph.
//
// The graph is derived once from a static input set and is immutable
// afterwards. File reads happen in the caller; the builder works on
// in-memory sources only.
package depgraph

import (
	"errors"
	"fmt"

	"github.com/stitch-cli/stitch/internal/extract"
)

// ErrDuplicateFile reports the same file name appearing twice in the input.
var ErrDuplicateFile = errors.New("duplicate input file")

// SourceFile is one input file with its content already read.
type SourceFile struct {
	Name    string
	Content string
}

// Graph maps each input file to the set of other input files it directly
// depends on. Every input file has an entry, possibly empty.
//
// Iteration helpers preserve first-seen input order. That makes graph
// enumeration, and everything derived from it, deterministic for a fixed
// input ordering.
type Graph struct {
	names []string
	deps  map[string][]string
}

// Build resolves each file's required identifiers against every other
// file's defined identifiers and returns the dependency graph.
//
// Resolution rules:
//   - A file with no declaration block has an empty dependency set.
//   - A file never depends on itself, even if it both requires and defines
//     the same identifier.
//   - Every other file defining at least one required identifier becomes a
//     dependency; multiple definers all become dependencies.
//   - A required identifier no input file defines contributes nothing.
func Build(files []SourceFile, ex extract.Extractor) (*Graph, error) {
	g := &Graph{
		names: make([]string, 0, len(files)),
		deps:  make(map[string][]string, len(files)),
	}

	for _, f := range files {
		if _, dup := g.deps[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFile, f.Name)
		}
		g.names = append(g.names, f.Name)
		g.deps[f.Name] = nil
	}

	for _, f := range files {
		required := ex.RequiredIdentifiers(f.Content)
		if len(required) == 0 {
			continue
		}

		var deps []string
		for _, other := range files {
			if other.Name == f.Name {
				continue // self-exclusion
			}
			if len(ex.DefinedIdentifiers(other.Content, required)) > 0 {
				deps = append(deps, other.Name)
			}
		}
		g.deps[f.Name] = deps
	}

	return g, nil
}

// Len returns the number of files in the graph.
func (g *Graph) Len() int {
	return len(g.names)
}

// Files returns the file names in first-seen input order.
func (g *Graph) Files() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Deps returns the direct dependencies of name in input order. The result
// is a copy; mutating it does not affect the graph.
func (g *Graph) Deps(name string) []string {
	deps := g.deps[name]
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}
