package models

import "time"

// Index is the full set of snippets built from one project scan.
// An Index is never mutated after Build returns; the serving layer swaps
// the whole value when a new scan completes.
type Index struct {
	BuildID     string    `json:"build_id"`
	ProjectPath string    `json:"project_path"`
	Dimensions  int       `json:"dimensions"`
	CreatedAt   time.Time `json:"created_at"`
	Snippets    []Snippet `json:"snippets"`
}

// Empty reports whether the index holds no snippets.
func (idx *Index) Empty() bool {
	return idx == nil || len(idx.Snippets) == 0
}
