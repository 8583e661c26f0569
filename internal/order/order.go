// Package order computes a total order over graph files such that every
// file appears strictly after all of its dependencies.
//
// The algorithm is insertion-with-invalidation: each file is inserted
// immediately after its latest-placed dependency, and every insertion is
// followed by a full rescan that pulls out any already-placed file whose
// position no longer satisfies the ordering invariant. Pulled files go back
// onto an explicit worklist for reinsertion. The full rescan makes this
// quadratic-or-worse in the file count; that is an accepted tradeoff for a
// small input set.
package order

import "github.com/stitch-cli/stitch/internal/depgraph"

// Compute returns a permutation of g.Files() in which every dependency
// occurs at a strictly earlier position than its dependent.
//
// Precondition: g is acyclic (run depgraph.CheckAcyclic first). The repair
// loop is not guaranteed to terminate on cyclic input.
//
// Termination on a DAG: each repair step fixes a local inversion without
// adding files, and the well-founded dependency relation bounds the number
// of repair steps.
func Compute(g *depgraph.Graph) []string {
	deps := make(map[string][]string, g.Len())
	for _, name := range g.Files() {
		deps[name] = g.Deps(name)
	}

	seq := make([]string, 0, g.Len())

	// Explicit worklist in place of recursive reinsertion. Invalidated
	// files are pushed to the front so repairs complete before the next
	// top-level file is placed, mirroring depth-first fixups.
	work := g.Files()

	for len(work) > 0 {
		name := work[0]
		work = work[1:]

		seq = insertAt(seq, insertionIndex(deps[name], seq), name)

		if invalidated := invalidatedFiles(deps, seq); len(invalidated) > 0 {
			seq = removeAll(seq, invalidated)
			work = append(invalidated, work...)
		}
	}

	return seq
}

// insertionIndex returns the position immediately after the latest-placed
// dependency, or 0 when none of the dependencies are placed yet.
func insertionIndex(deps []string, seq []string) int {
	idx := 0
	for _, dep := range deps {
		if at := position(seq, dep); at >= 0 && at+1 > idx {
			idx = at + 1
		}
	}
	return idx
}

// invalidatedFiles returns, front to back, every placed file whose
// recomputed insertion index exceeds its current position. Such a file has
// a dependency at or after its own slot and must be reinserted.
func invalidatedFiles(deps map[string][]string, seq []string) []string {
	var out []string
	for at, name := range seq {
		if insertionIndex(deps[name], seq) > at {
			out = append(out, name)
		}
	}
	return out
}

func insertAt(seq []string, idx int, name string) []string {
	seq = append(seq, "")
	copy(seq[idx+1:], seq[idx:])
	seq[idx] = name
	return seq
}

func removeAll(seq []string, names []string) []string {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}

	kept := seq[:0]
	for _, name := range seq {
		if _, gone := drop[name]; !gone {
			kept = append(kept, name)
		}
	}
	return kept
}

func position(seq []string, name string) int {
	for i, s := range seq {
		if s == name {
			return i
		}
	}
	return -1
}
