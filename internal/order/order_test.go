package order

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitch-cli/stitch/internal/depgraph"
	"github.com/stitch-cli/stitch/internal/extract"
)

// graphFrom builds a dependency graph through the real extractor: each file
// defines one identifier named after itself and requires the identifiers of
// its dependencies. fileOrder is the input (and therefore iteration) order.
func graphFrom(t *testing.T, fileOrder []string, deps map[string][]string) *depgraph.Graph {
	t.Helper()

	files := make([]depgraph.SourceFile, 0, len(fileOrder))
	for _, name := range fileOrder {
		var b strings.Builder
		if len(deps[name]) > 0 {
			idents := make([]string, len(deps[name]))
			for i, dep := range deps[name] {
				idents[i] = "id_" + dep
			}
			fmt.Fprintf(&b, "/* global %s */\n", strings.Join(idents, ", "))
		}
		fmt.Fprintf(&b, "var id_%s = 1;\n", name)
		files = append(files, depgraph.SourceFile{Name: name, Content: b.String()})
	}

	ex, err := extract.NewHeuristicExtractor(extract.DefaultSyntax())
	require.NoError(t, err)

	g, err := depgraph.Build(files, ex)
	require.NoError(t, err)
	require.NoError(t, depgraph.CheckAcyclic(g))
	return g
}

// assertValidOrder checks that seq is a permutation of files in which every
// dependency occurs strictly before its dependent.
func assertValidOrder(t *testing.T, files []string, deps map[string][]string, seq []string) {
	t.Helper()

	require.Len(t, seq, len(files))
	pos := make(map[string]int, len(seq))
	for i, name := range seq {
		_, dup := pos[name]
		require.False(t, dup, "file %s appears twice in %v", name, seq)
		pos[name] = i
	}
	for _, name := range files {
		require.Contains(t, pos, name, "file %s missing from %v", name, seq)
	}

	for _, name := range files {
		for _, dep := range deps[name] {
			assert.Less(t, pos[dep], pos[name],
				"dependency %s must precede %s in %v", dep, name, seq)
		}
	}
}

// TestCompute_Chain covers the basic scenario: A defines, B requires A,
// C requires A and B.
func TestCompute_Chain(t *testing.T) {
	deps := map[string][]string{
		"b": {"a"},
		"c": {"a", "b"},
	}
	g := graphFrom(t, []string{"a", "b", "c"}, deps)

	assert.Equal(t, []string{"a", "b", "c"}, Compute(g))
}

// TestCompute_SingleFile tests the trivial one-file order.
func TestCompute_SingleFile(t *testing.T) {
	g := graphFrom(t, []string{"only"}, nil)
	assert.Equal(t, []string{"only"}, Compute(g))
}

// TestCompute_IndependentFiles tests that files with no cross-requirements
// all appear exactly once and the run terminates.
func TestCompute_IndependentFiles(t *testing.T) {
	files := []string{"x", "y", "z"}
	g := graphFrom(t, files, nil)

	seq := Compute(g)
	assertValidOrder(t, files, nil, seq)
}

// TestCompute_InvalidationReinserts exercises the repair path: g is placed
// early because its dependency f is not placed yet, then f lands after g
// and forces g's removal and reinsertion.
//
// Dependencies: d -> e, f -> d, g -> f. Insertion order e, d, g, f places
// g at the front; inserting f at position 3 invalidates g.
func TestCompute_InvalidationReinserts(t *testing.T) {
	files := []string{"e", "d", "g", "f"}
	deps := map[string][]string{
		"d": {"e"},
		"f": {"d"},
		"g": {"f"},
	}
	g := graphFrom(t, files, deps)

	seq := Compute(g)
	assert.Equal(t, []string{"e", "d", "f", "g"}, seq)
	assertValidOrder(t, files, deps, seq)
}

// TestCompute_ChainedInvalidation exercises several files invalidated by a
// single insertion.
func TestCompute_ChainedInvalidation(t *testing.T) {
	files := []string{"e", "d", "g1", "g2", "f"}
	deps := map[string][]string{
		"d":  {"e"},
		"f":  {"d"},
		"g1": {"f"},
		"g2": {"f"},
	}
	g := graphFrom(t, files, deps)

	seq := Compute(g)
	assertValidOrder(t, files, deps, seq)
}

// TestCompute_Diamond tests a shared dependency shape.
func TestCompute_Diamond(t *testing.T) {
	files := []string{"top", "left", "right", "base"}
	deps := map[string][]string{
		"top":   {"left", "right"},
		"left":  {"base"},
		"right": {"base"},
	}
	g := graphFrom(t, files, deps)

	seq := Compute(g)
	assertValidOrder(t, files, deps, seq)
}

// TestCompute_Idempotent tests that recomputing on the same graph yields
// the same, still-valid order.
func TestCompute_Idempotent(t *testing.T) {
	files := []string{"a", "b", "c", "d"}
	deps := map[string][]string{
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	}
	g := graphFrom(t, files, deps)

	first := Compute(g)
	second := Compute(g)
	assert.Equal(t, first, second)
	assertValidOrder(t, files, deps, first)
}

// TestCompute_AllInputPermutations checks the ordering invariant for every
// input permutation of a small graph; the exact sequence may differ per
// permutation but the invariant must always hold.
func TestCompute_AllInputPermutations(t *testing.T) {
	files := []string{"a", "b", "c", "d"}
	deps := map[string][]string{
		"b": {"a"},
		"c": {"b"},
		"d": {"a", "c"},
	}

	for _, perm := range permutations(files) {
		g := graphFrom(t, perm, deps)
		seq := Compute(g)
		assertValidOrder(t, files, deps, seq)
	}
}

// TestCompute_EmptyGraph tests ordering over no files.
func TestCompute_EmptyGraph(t *testing.T) {
	g := graphFrom(t, nil, nil)
	assert.Empty(t, Compute(g))
}

func permutations(items []string) [][]string {
	if len(items) <= 1 {
		return [][]string{append([]string{}, items...)}
	}

	var out [][]string
	for i := range items {
		rest := make([]string, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, tail := range permutations(rest) {
			out = append(out, append([]string{items[i]}, tail...))
		}
	}
	return out
}
