package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// finding is the result of one rule against one query. Most rules emit a
// single fixed issue; the unindexed-field rule can emit several with a
// capped total penalty.
type finding struct {
	penalty int
	issues  []string
}

type rule struct {
	name       string
	evaluate   func(norm string, cfg Config) finding
	suggestion string
}

// rules is the ordered rule table. Penalties are additive across rules;
// the issue list preserves this declaration order.
var rules = []rule{
	{
		name:       "select-star",
		evaluate:   fixed(hasSelectStar, 20, "SELECT *, unnecessary data transfer"),
		suggestion: "Replace SELECT * with the specific columns you need",
	},
	{
		name:       "no-limit",
		evaluate:   fixed(isUnboundedSelect, 20, "No LIMIT, risk of large result sets"),
		suggestion: "Add a LIMIT clause, or paginate with paginate() / chunk()",
	},
	{
		name:       "leading-wildcard",
		evaluate:   fixed(hasLeadingWildcard, 35, "Leading wildcard, cannot use index"),
		suggestion: "Avoid LIKE with a leading wildcard, consider full-text search",
	},
	{
		name:       "join-no-condition",
		evaluate:   fixed(hasJoinWithoutCondition, 20, "Missing JOIN condition, cartesian product risk"),
		suggestion: "Add an ON (or USING) condition to every JOIN",
	},
	{
		name:       "nested-subqueries",
		evaluate:   fixed(hasNestedSubqueries, 25, "Complex subqueries"),
		suggestion: "Rewrite nested subqueries as JOINs or EXISTS",
	},
	{
		name:       "unindexed-fields",
		evaluate:   unindexedFields,
		suggestion: "Index frequently filtered columns, or extend the indexed-column convention",
	},
}

func fixed(detect func(string) bool, penalty int, issue string) func(string, Config) finding {
	return func(norm string, _ Config) finding {
		if !detect(norm) {
			return finding{}
		}
		return finding{penalty: penalty, issues: []string{issue}}
	}
}

func hasSelectStar(norm string) bool {
	return strings.Contains(norm, "select *")
}

// isUnboundedSelect flags SELECTs with neither LIMIT nor WHERE: no row
// cap and no filter means the whole table can come back. A WHERE clause
// counts as row-bounding for this rule.
func isUnboundedSelect(norm string) bool {
	if !strings.Contains(norm, "select") {
		return false
	}
	return !strings.Contains(norm, "limit") && !strings.Contains(norm, "where")
}

var leadingWildcard = regexp.MustCompile(`like\s+['"]%`)

func hasLeadingWildcard(norm string) bool {
	return leadingWildcard.MatchString(norm)
}

func hasJoinWithoutCondition(norm string) bool {
	if !strings.Contains(norm, " join ") {
		return false
	}
	return !strings.Contains(norm, " on ") && !strings.Contains(norm, "using")
}

var subquery = regexp.MustCompile(`\(\s*select\b`)

func hasNestedSubqueries(norm string) bool {
	return len(subquery.FindAllStringIndex(norm, -1)) >= 2
}

// WHERE clause field references, in the shapes Laravel queries actually
// produce: placeholders, literal comparisons, IN lists and LIKEs.
var (
	whereClause = regexp.MustCompile(`where\s+(.*?)(?:\s+group by|\s+order by|\s+limit|$)`)
	fieldExprs  = []*regexp.Regexp{
		regexp.MustCompile(`(\w+)\s*=\s*\?`),
		regexp.MustCompile(`(\w+)\s*=\s*['"]?\w+['"]?`),
		regexp.MustCompile(`(\w+)\s+in\s*\(`),
		regexp.MustCompile(`(\w+)\s+like\s+['"]`),
	}
)

// unindexedFields penalizes WHERE fields outside the configured
// indexed-column convention. With no convention configured the rule is
// skipped entirely, so static projects do not get noise findings.
func unindexedFields(norm string, cfg Config) finding {
	if len(cfg.IndexedColumns) == 0 {
		return finding{}
	}

	m := whereClause.FindStringSubmatch(norm)
	if m == nil {
		return finding{}
	}
	clause := m[1]

	indexed := make(map[string]bool, len(cfg.IndexedColumns))
	for _, col := range cfg.IndexedColumns {
		indexed[strings.ToLower(col)] = true
	}

	perField := cfg.UnindexedPenalty
	if perField <= 0 {
		perField = 10
	}
	maxTotal := cfg.UnindexedPenaltyCap
	if maxTotal <= 0 {
		maxTotal = 30
	}

	seen := make(map[string]bool)
	var f finding
	for _, expr := range fieldExprs {
		for _, match := range expr.FindAllStringSubmatch(clause, -1) {
			field := match[1]
			if seen[field] || indexed[field] {
				continue
			}
			seen[field] = true
			f.issues = append(f.issues, fmt.Sprintf("Unindexed field: %s", field))
			if f.penalty < maxTotal {
				f.penalty += perField
				if f.penalty > maxTotal {
					f.penalty = maxTotal
				}
			}
		}
	}
	return f
}
