// Package security scans the code surrounding a matched snippet for
// Laravel validation idioms and flags SQL built from unvalidated input.
package security

import (
	"fmt"
	"strings"
	"sync"

	"github.com/querylens/sqlscope/backend/internal/extractor"
	"github.com/querylens/sqlscope/backend/pkg/treesitter"
)

// defaultValidationPatterns are the recognized validation-framework call
// shapes, matched as lowercase substrings per line.
var defaultValidationPatterns = []string{
	"validate(",
	"formrequest",
	"request->validate",
	"validator::make",
	"->rules(",
	"->messages(",
}

// sanitizerPatterns are escaping/cleaning calls. They count as evidence
// of input handling and are recorded alongside validation methods.
var sanitizerPatterns = []string{
	"escape(",
	"htmlspecialchars",
	"strip_tags",
	"filter_var",
	"preg_replace",
}

var superglobals = []string{"$_get", "$_post", "$_request"}

// Report is the checker's output for one snippet and its context.
type Report struct {
	Validated         bool     `json:"validated"`
	ValidationMethods []string `json:"validation_methods"`
	SecurityIssues    []string `json:"security_issues"`
}

type Checker struct {
	validationPatterns []string

	mu     sync.Mutex // tree-sitter parsers are not safe for concurrent use
	parser *treesitter.Parser
}

// NewChecker builds a checker. A nil patterns slice keeps the default
// Laravel validation idioms.
func NewChecker(patterns []string) *Checker {
	if len(patterns) == 0 {
		patterns = defaultValidationPatterns
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Checker{
		validationPatterns: lowered,
		parser:             treesitter.NewParser(),
	}
}

func (c *Checker) Close() {
	c.parser.Close()
}

// Check scans the context window line by line for validation and
// sanitizer calls, then looks at the snippet itself for interpolation
// evidence. A snippet with no validation in scope is only flagged when a
// variable actually flows into the SQL text; static queries stay clean.
func (c *Checker) Check(snippet string, window extractor.Window) Report {
	var r Report
	seen := make(map[string]bool)

	record := func(method string) {
		if !seen[method] {
			seen[method] = true
			r.ValidationMethods = append(r.ValidationMethods, method)
		}
	}

	for i, raw := range strings.Split(window.Text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineNo := window.StartLine + i
		lower := strings.ToLower(line)

		for _, p := range c.validationPatterns {
			if strings.Contains(lower, p) {
				r.Validated = true
				record(fmt.Sprintf("Line %d: %s", lineNo, line))
			}
		}

		for _, p := range sanitizerPatterns {
			if strings.Contains(lower, p) {
				record(fmt.Sprintf("Line %d: Security - %s", lineNo, line))
			}
		}

		for _, g := range superglobals {
			if !strings.Contains(lower, g) {
				continue
			}
			if strings.Contains(lower, "validate") || strings.Contains(lower, "escape") || strings.Contains(lower, "filter") {
				continue
			}
			r.SecurityIssues = append(r.SecurityIssues,
				fmt.Sprintf("Line %d: direct superglobal access without validation", lineNo))
			break
		}
	}

	if !r.Validated && c.hasInterpolatedVariable(snippet) {
		r.SecurityIssues = append(r.SecurityIssues,
			"Missing input validation, possible injection risk")
	}

	return r
}
