package analyzer

import "strings"

// QueryType is a coarse display label for the input SQL, derived from
// the same pattern set the scorer uses.
func QueryType(sql string) string {
	norm := normalize(sql)
	switch {
	case norm == "":
		return "Unknown"
	case hasSelectStar(norm):
		return "SELECT *"
	case strings.Contains(norm, " join "):
		return "JOIN"
	case strings.Contains(norm, " like "):
		return "LIKE"
	case subquery.MatchString(norm):
		return "Subquery"
	default:
		return "Optimized"
	}
}

type sourceKind struct {
	marker string
	label  string
}

// Raw SQL and query-builder facades, checked before any Eloquent idiom.
var facadeKinds = []sourceKind{
	{"db::select", "Raw SQL (High Performance Risk)"},
	{"db::statement", "Raw SQL (High Performance Risk)"},
	{"db::raw", "Raw SQL with DB::raw (High Performance Risk)"},
	{"db::table", "Query Builder (Moderate Performance Risk)"},
	{"db::connection", "Query Builder with Custom Connection"},
}

var eloquentKinds = []sourceKind{
	{"->get()", "Eloquent Collection (Memory Intensive)"},
	{"->paginate", "Eloquent Pagination (Good Performance)"},
	{"->chunk", "Eloquent Chunking (Good for Large Datasets)"},
	{"->with(", "Eloquent Eager Loading (Good Performance)"},
	{"->load(", "Eloquent Lazy Loading (Potential N+1)"},
	{"->join(", "Eloquent Join (Moderate Performance Risk)"},
	{"->leftjoin(", "Eloquent Left Join (Moderate Performance Risk)"},
	{"->count(", "Eloquent Count (Good Performance)"},
	{"->sum(", "Eloquent Aggregation (Good Performance)"},
	{"->avg(", "Eloquent Aggregation (Good Performance)"},
	{"->wherehas(", "Eloquent WhereHas (Potential Performance Issue)"},
	{"->wheredoesnthave(", "Eloquent WhereDoesntHave (Potential Performance Issue)"},
}

// ClassifySource labels the Laravel API a matched snippet goes through.
// Facade calls outrank the Model::where idiom, which outranks the
// chained Eloquent methods.
func ClassifySource(code string) string {
	lower := strings.ToLower(code)

	for _, k := range facadeKinds {
		if strings.Contains(lower, k.marker) {
			return k.label
		}
	}

	if strings.Contains(lower, "->where") && strings.Contains(lower, "::") {
		return "Eloquent ORM (Lower Performance Risk)"
	}

	for _, k := range eloquentKinds {
		if strings.Contains(lower, k.marker) {
			return k.label
		}
	}

	return "Unknown Query Type"
}
