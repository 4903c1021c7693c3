package models

// Snippet is one indexed line of source code believed to contain SQL,
// together with its embedding and location. Snippets are immutable after
// an index build; ID is the ordinal assigned in extraction order.
type Snippet struct {
	ID        int       `json:"id"`
	FilePath  string    `json:"file"`
	Line      int       `json:"line"` // 1-based
	Code      string    `json:"code"`
	Embedding []float32 `json:"embedding"`
}
