package depgraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle reports a circular dependency in the graph.
var ErrCycle = errors.New("cyclic dependency")

// CycleError carries the witness path for one detected cycle.
//
// The path describes a closed walk n1 -> n2 -> ... -> n1. Only the first
// cycle found is reported; the check does not enumerate all cycles.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// CheckAcyclic verifies the graph is a directed acyclic graph.
//
// It walks depth-first from every file not yet proven acyclic, maintaining
// the active path. A dependency already on the path is a back-edge; the
// witness is the sub-path from that dependency's first occurrence through
// the current file, closed with the dependency appended again.
//
// This must run before ordering: the insertion algorithm in internal/order
// is not guaranteed to terminate on cyclic input.
func CheckAcyclic(g *Graph) error {
	// Files proven to reach no cycle. Never re-walked.
	resolved := make(map[string]bool, g.Len())

	var visit func(name string, path []string) *CycleError
	visit = func(name string, path []string) *CycleError {
		for _, dep := range g.Deps(name) {
			if resolved[dep] {
				continue
			}
			if at := indexOnPath(path, dep); at >= 0 {
				witness := make([]string, 0, len(path)-at+2)
				witness = append(witness, path[at:]...)
				witness = append(witness, name, dep)
				return &CycleError{Path: witness}
			}

			next := make([]string, 0, len(path)+1)
			next = append(next, path...)
			next = append(next, name)
			if cerr := visit(dep, next); cerr != nil {
				return cerr
			}
		}
		resolved[name] = true
		return nil
	}

	for _, name := range g.Files() {
		if resolved[name] {
			continue
		}
		if cerr := visit(name, nil); cerr != nil {
			return cerr
		}
	}
	return nil
}

func indexOnPath(path []string, name string) int {
	for i, p := range path {
		if p == name {
			return i
		}
	}
	return -1
}
