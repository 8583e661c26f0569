package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Syntax describes the declaration grammar the extractor recognizes.
//
// The defaults target JavaScript-style sources: a `/* global a, b */` block
// comment for requirements, `var` for variable declarations and `function`
// for function declarations. Projects with different conventions override
// the grammar through a YAML syntax file (see LoadSyntax).
type Syntax struct {
	// RequireMarker is the word that opens a requirement declaration block
	// inside a block comment, e.g. "global" in `/* global a, b:writable */`.
	RequireMarker string `yaml:"require_marker"`

	// VariableKeywords are the keywords that introduce a variable
	// declaration at the start of a line, e.g. `var x`.
	VariableKeywords []string `yaml:"variable_keywords"`

	// FunctionKeywords are the keywords that introduce a function
	// declaration at the start of a line, e.g. `function f(`.
	FunctionKeywords []string `yaml:"function_keywords"`
}

// DefaultSyntax returns the JavaScript-flavored grammar.
func DefaultSyntax() Syntax {
	return Syntax{
		RequireMarker:    "global",
		VariableKeywords: []string{"var"},
		FunctionKeywords: []string{"function"},
	}
}

// Validate checks that the grammar is usable for extraction.
func (s Syntax) Validate() error {
	if s.RequireMarker == "" {
		return fmt.Errorf("syntax: require_marker is required")
	}
	if len(s.VariableKeywords) == 0 {
		return fmt.Errorf("syntax: at least one variable keyword is required")
	}
	if len(s.FunctionKeywords) == 0 {
		return fmt.Errorf("syntax: at least one function keyword is required")
	}
	for _, kw := range append(append([]string{}, s.VariableKeywords...), s.FunctionKeywords...) {
		if kw == "" {
			return fmt.Errorf("syntax: empty declaration keyword")
		}
	}
	return nil
}

// LoadSyntax reads a Syntax from a YAML file.
//
// Fields omitted in the file fall back to the defaults, so a project can
// override just the require marker without restating the keyword lists.
func LoadSyntax(path string) (Syntax, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Syntax{}, fmt.Errorf("reading syntax file: %w", err)
	}

	syntax := DefaultSyntax()
	if err := yaml.Unmarshal(data, &syntax); err != nil {
		return Syntax{}, fmt.Errorf("parsing syntax file %s: %w", path, err)
	}
	if err := syntax.Validate(); err != nil {
		return Syntax{}, fmt.Errorf("%s: %w", path, err)
	}
	return syntax, nil
}
