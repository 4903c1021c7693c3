package analyzer

import "testing"

func TestQueryType(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM orders", "SELECT *"},
		{"SELECT o.id FROM orders o JOIN customers c ON o.customer_id = c.id", "JOIN"},
		{"SELECT id FROM users WHERE name LIKE '%smith'", "LIKE"},
		{"SELECT id FROM orders WHERE customer_id IN (SELECT id FROM customers)", "Subquery"},
		{"SELECT id, name FROM orders WHERE company_id = 1 LIMIT 50", "Optimized"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := QueryType(tc.sql); got != tc.want {
			t.Errorf("QueryType(%q): expected %q, got %q", tc.sql, tc.want, got)
		}
	}
}

func TestClassifySource(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{`$rows = DB::select("SELECT * FROM users");`, "Raw SQL (High Performance Risk)"},
		{`DB::statement("UPDATE users SET active = 0");`, "Raw SQL (High Performance Risk)"},
		{`$total = DB::raw("COUNT(*) as total");`, "Raw SQL with DB::raw (High Performance Risk)"},
		{`DB::table('users')->where('active', 1)->get();`, "Query Builder (Moderate Performance Risk)"},
		{`DB::connection('reports')->select('...');`, "Query Builder with Custom Connection"},
		{`$users = User::where('active', 1)->get();`, "Eloquent ORM (Lower Performance Risk)"},
		{`$orders->paginate(25);`, "Eloquent Pagination (Good Performance)"},
		{`$orders->chunk(100, $callback);`, "Eloquent Chunking (Good for Large Datasets)"},
		{`$books = Book::query()->with('author');`, "Eloquent Eager Loading (Good Performance)"},
		{`$order->load('items');`, "Eloquent Lazy Loading (Potential N+1)"},
		{`$q->join('customers', 'orders.customer_id', '=', 'customers.id');`, "Eloquent Join (Moderate Performance Risk)"},
		{`$q->count();`, "Eloquent Count (Good Performance)"},
		{`echo "hello";`, "Unknown Query Type"},
	}
	for _, tc := range cases {
		if got := ClassifySource(tc.code); got != tc.want {
			t.Errorf("ClassifySource(%q): expected %q, got %q", tc.code, tc.want, got)
		}
	}
}
