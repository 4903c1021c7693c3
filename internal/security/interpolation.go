package security

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// hasInterpolatedVariable reports whether a variable flows directly into
// SQL text in the given line: a $var inside a double-quoted literal, or
// a string concatenated with a variable. The line is parsed as PHP; when
// the fragment does not parse, a regex approximation takes over.
func (c *Checker) hasInterpolatedVariable(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Extracted snippets are bare statements, so close them off and give
	// the parser a PHP open tag.
	src := []byte("<?php " + code + "\n")
	tree, err := c.parser.Parse(context.Background(), src, "php")
	if err != nil {
		return matchesInterpolationRegex(code)
	}
	defer tree.Close()

	if interpolationInNode(tree.RootNode()) {
		return true
	}

	// A heavily truncated line can parse into pure ERROR nodes that hide
	// the string contents; fall back in that case.
	if tree.RootNode().HasError() {
		return matchesInterpolationRegex(code)
	}
	return false
}

func interpolationInNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}

	switch node.Type() {
	case "encapsed_string":
		// Double-quoted string: interpolation shows up as variable or
		// expression children among the string content nodes.
		if hasDescendantOfType(node, "variable_name") {
			return true
		}
	case "binary_expression":
		// "... " . $var style concatenation.
		if hasDescendantOfType(node, "variable_name") &&
			(hasDescendantOfType(node, "string") || hasDescendantOfType(node, "encapsed_string")) {
			return true
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if interpolationInNode(node.NamedChild(i)) {
			return true
		}
	}
	return false
}

func hasDescendantOfType(node *sitter.Node, typ string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() == typ || hasDescendantOfType(child, typ) {
			return true
		}
	}
	return false
}

var interpolationExprs = []*regexp.Regexp{
	regexp.MustCompile(`"[^"]*\$[a-zA-Z_]`),           // $var inside a double-quoted literal
	regexp.MustCompile(`['"]\s*\.\s*\$[a-zA-Z_]`),     // '...' . $var
	regexp.MustCompile(`\$\w+(->\w+)*\s*\.\s*['"]`),   // $var . '...'
}

func matchesInterpolationRegex(code string) bool {
	for _, expr := range interpolationExprs {
		if expr.MatchString(code) {
			return true
		}
	}
	return false
}
