package types

// SearchResult is a single hit from the external search service.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// WebPage is a fetched and cleaned page. Pages whose extracted content is
// shorter than MinPageContent are discarded.
type WebPage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// WebSource attributes a summary statement to the page it came from.
type WebSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// WebSummary is the condensed, attributed synthesis of the fetched pages
// for one request.
type WebSummary struct {
	Text    string      `json:"text"`
	Sources []WebSource `json:"sources"`
}

const (
	// MinPageContent is the minimum extracted length for a page to count.
	MinPageContent = 100
	// MaxPageContent truncates extracted page text.
	MaxPageContent = 8000
)
