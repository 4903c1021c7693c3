package matcher

import (
	"context"
	"math"
	"testing"

	"github.com/querylens/sqlscope/backend/internal/indexer"
	"github.com/querylens/sqlscope/backend/internal/models"
)

// stubEmbedder maps text deterministically onto an 8-dimensional vector,
// so identical strings always land on identical embeddings.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, 8)
		for j := 0; j < len(t); j++ {
			v[j%8] += float32(t[j])
		}
		out[i] = v
	}
	return out, nil
}

func embedOne(t *testing.T, text string) []float32 {
	t.Helper()
	vecs, err := stubEmbedder{}.Embed(context.Background(), []string{text})
	if err != nil {
		t.Fatalf("stub embed failed: %v", err)
	}
	return vecs[0]
}

func testIndex(t *testing.T, codes ...string) *models.Index {
	t.Helper()
	idx := &models.Index{
		BuildID:     "test-build",
		ProjectPath: "/tmp/project",
		Dimensions:  8,
	}
	for i, code := range codes {
		idx.Snippets = append(idx.Snippets, models.Snippet{
			ID:        i,
			FilePath:  "orders.php",
			Line:      i + 1,
			Code:      code,
			Embedding: embedOne(t, code),
		})
	}
	return idx
}

func TestMatchNoIndex(t *testing.T) {
	m := New(stubEmbedder{}, 0)
	_, err := m.Match(context.Background(), nil, "SELECT 1")
	if err != indexer.ErrNoIndex {
		t.Fatalf("expected ErrNoIndex, got %v", err)
	}
}

func TestMatchEmptyIndex(t *testing.T) {
	m := New(stubEmbedder{}, 0)
	res, err := m.Match(context.Background(), &models.Index{}, "SELECT 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Found {
		t.Error("expected Found to be false on an empty index")
	}
}

func TestMatchExactRoundTrip(t *testing.T) {
	idx := &models.Index{
		BuildID:    "test-build",
		Dimensions: 8,
		Snippets: []models.Snippet{{
			ID:        0,
			FilePath:  "orders.php",
			Line:      42,
			Code:      "SELECT * FROM orders",
			Embedding: embedOne(t, "SELECT * FROM orders"),
		}},
	}

	m := New(stubEmbedder{}, 0)
	res, err := m.Match(context.Background(), idx, "SELECT * FROM orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected Found to be true")
	}
	if res.Snippet.Line != 42 {
		t.Errorf("expected line 42, got %d", res.Snippet.Line)
	}
	if math.Abs(res.Similarity-1.0) > 1e-6 {
		t.Errorf("expected similarity 1.0 for identical text, got %f", res.Similarity)
	}
}

func TestMatchDeterministic(t *testing.T) {
	idx := testIndex(t,
		"SELECT * FROM orders",
		"SELECT id FROM customers WHERE active = 1",
		"DB::table('orders')->where('status', 'active')->get()",
	)

	m := New(stubEmbedder{}, 0)
	first, err := m.Match(context.Background(), idx, "select orders by status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Match(context.Background(), idx, "select orders by status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Snippet.ID != second.Snippet.ID {
		t.Errorf("expected identical snippet ids, got %d and %d", first.Snippet.ID, second.Snippet.ID)
	}
}

func TestMatchTieBreakPrefersLowestID(t *testing.T) {
	// Two snippets with byte-identical code embed identically; the
	// earlier one must win.
	idx := testIndex(t,
		"SELECT * FROM orders",
		"SELECT * FROM orders",
	)

	m := New(stubEmbedder{}, 0)
	res, err := m.Match(context.Background(), idx, "SELECT * FROM orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Snippet.ID != 0 {
		t.Errorf("expected lowest id 0 on a tie, got %d", res.Snippet.ID)
	}
}

func TestMatchBelowThreshold(t *testing.T) {
	idx := testIndex(t, "SELECT * FROM orders")

	m := New(stubEmbedder{}, 0.999999)
	res, err := m.Match(context.Background(), idx, "completely unrelated text about weather")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("best-effort match must still be returned")
	}
	if !res.BelowThreshold {
		t.Error("expected BelowThreshold to be set")
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 0.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.5},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tc := range cases {
		if got := CosineSimilarity(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tc.name, tc.want, got)
		}
	}
}
