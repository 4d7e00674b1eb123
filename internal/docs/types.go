package docs

// #region imports
import "time"

// #endregion

// #region document
// Document is one stored document with its search metadata.
type Document struct {
	ID           string
	Type         string // "invoice" | "report" | "note" | ...
	Title        string
	Content      string
	Amount       float64 // headline amount for amount-filtered search, 0 if n/a
	Currency     string
	MetadataJSON string
	CreatedAt    time.Time
}

// #endregion document

// #region filters

// AmountOp compares a document's headline amount against a threshold.
type AmountOp string

const (
	AmountNone AmountOp = ""
	AmountGT   AmountOp = "gt"
	AmountGTE  AmountOp = "gte"
	AmountLT   AmountOp = "lt"
	AmountLTE  AmountOp = "lte"
	AmountEQ   AmountOp = "eq"
)

// Filters narrows a search by document type and/or headline amount.
type Filters struct {
	Type            string
	AmountOp        AmountOp
	AmountThreshold float64
	Limit           int
}

// #endregion filters

// #region search-result
// SearchResult is one relevance-ranked search hit.
type SearchResult struct {
	ID    string
	Title string
	Score float64
}

// #endregion search-result
