// Package extract infers the identifiers a source file requires and defines.
//
// Extraction is a bounded heuristic: requirement declarations are read from a
// single marked block comment, and definitions are matched with
// line-anchored patterns for variable and function declarations. It is
// deliberately not a language parser.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Extractor resolves the identifiers a source file requires and defines.
//
// The graph core depends only on this interface, so the heuristic
// implementation can be swapped for a stricter parser without touching the
// graph or ordering logic.
type Extractor interface {
	// RequiredIdentifiers returns the identifier names the content declares
	// as external requirements. Empty when no declaration block exists.
	RequiredIdentifiers(content string) []string

	// DefinedIdentifiers returns every candidate name the content defines
	// via a recognized declaration, in content order. Duplicates are
	// preserved.
	DefinedIdentifiers(content string, candidates []string) []string
}

// identPattern matches a single identifier name.
const identPattern = `[A-Za-z_$][A-Za-z0-9_$]*`

var identRe = regexp.MustCompile(`^` + identPattern + `$`)

// HeuristicExtractor implements Extractor with regular expressions derived
// from a Syntax.
type HeuristicExtractor struct {
	syntax Syntax

	requireBlock *regexp.Regexp
	varDecl      *regexp.Regexp
	funcDecl     *regexp.Regexp
}

// NewHeuristicExtractor compiles the patterns for the given grammar.
func NewHeuristicExtractor(syntax Syntax) (*HeuristicExtractor, error) {
	if err := syntax.Validate(); err != nil {
		return nil, err
	}

	return &HeuristicExtractor{
		syntax: syntax,
		requireBlock: regexp.MustCompile(
			fmt.Sprintf(`/\*\s*%s\s+([^*]*)\*/`, regexp.QuoteMeta(syntax.RequireMarker)),
		),
		varDecl: regexp.MustCompile(
			fmt.Sprintf(`^(?:%s)\s+(%s)`, keywordAlternation(syntax.VariableKeywords), identPattern),
		),
		funcDecl: regexp.MustCompile(
			fmt.Sprintf(`^(?:%s)\s+(%s)\s*\(`, keywordAlternation(syntax.FunctionKeywords), identPattern),
		),
	}, nil
}

// keywordAlternation joins keywords into a regexp alternation.
func keywordAlternation(keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return strings.Join(quoted, "|")
}

// RequiredIdentifiers scans for the first declaration block and returns the
// identifier names it lists.
//
// Entries are comma-separated; an optional `:qualifier` suffix on an entry
// is discarded. Entries that do not look like identifiers are skipped, and
// repeats collapse to the first occurrence.
func (e *HeuristicExtractor) RequiredIdentifiers(content string) []string {
	match := e.requireBlock.FindStringSubmatch(content)
	if match == nil {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})
	for _, entry := range strings.Split(match[1], ",") {
		name := strings.TrimSpace(entry)
		// Only the identifier before a qualifier separator is significant.
		if colon := strings.Index(name, ":"); colon >= 0 {
			name = strings.TrimSpace(name[:colon])
		}
		name = normalizeIdentifier(name)
		if !identRe.MatchString(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// DefinedIdentifiers returns every candidate identifier the content defines
// via a variable or function declaration anchored at a line start.
func (e *HeuristicExtractor) DefinedIdentifiers(content string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(candidates))
	for _, name := range candidates {
		wanted[normalizeIdentifier(name)] = struct{}{}
	}

	var defined []string
	for _, line := range strings.Split(content, "\n") {
		for _, re := range []*regexp.Regexp{e.varDecl, e.funcDecl} {
			match := re.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			name := normalizeIdentifier(match[1])
			if _, ok := wanted[name]; ok {
				defined = append(defined, name)
			}
		}
	}
	return defined
}

// normalizeIdentifier applies NFC so byte-different but canonically equal
// names resolve to the same identifier.
func normalizeIdentifier(name string) string {
	return norm.NFC.String(name)
}
