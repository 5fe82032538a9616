package types

// KnowledgeDocument is one normalized corpus document: plain text in a
// single language, tagged with a human-readable description.
type KnowledgeDocument struct {
	Language    string
	Description string
	Text        string
}

// CatalogDoc is the source shape of the orientation-centers catalog: a flat
// list of guidance services grouped into categories at normalization time.
type CatalogDoc struct {
	Centers []CatalogEntry `json:"centers"`
}

type CatalogEntry struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Website     string   `json:"website"`
	Location    string   `json:"location"`
	Languages   []string `json:"languages"`
	Description string   `json:"description"`
}

// PaginatedDoc is the source shape of a page-by-page text extraction.
type PaginatedDoc struct {
	FileName string          `json:"file_name"`
	Pages    []ExtractedPage `json:"pages"`
}

type ExtractedPage struct {
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// ReportDoc is the default source shape: a titled report with named
// sections and optional introduction and conclusion.
type ReportDoc struct {
	Title        string          `json:"title"`
	Introduction string          `json:"introduction"`
	Sections     []ReportSection `json:"sections"`
	Conclusion   string          `json:"conclusion"`
}

type ReportSection struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
