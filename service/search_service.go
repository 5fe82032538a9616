package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/tawjihai/tawjih-be/types"
)

// maxSearchResults caps how many URLs the web pipeline fetches per request.
const maxSearchResults = 3

// excludedDomains filters low-signal hosts (video and social platforms)
// out of the search results before fetching.
var excludedDomains = []string{
	"youtube.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"tiktok.com",
	"pinterest.com",
}

// SearchService handles Google Custom Search operations.
type SearchService struct {
	apiKey   string
	engineID string
}

func NewSearchService(apiKey, engineID string) *SearchService {
	return &SearchService{
		apiKey:   apiKey,
		engineID: engineID,
	}
}

// Search performs a Google Custom Search and returns at most
// maxSearchResults results with low-signal domains removed.
func (s *SearchService) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	opts := []option.ClientOption{}
	if s.apiKey != "" {
		opts = append(opts, option.WithAPIKey(s.apiKey))
	}
	searchService, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	search := searchService.Cse.List().Context(ctx)
	search.Q(query)
	search.Cx(s.engineID)
	search.Num(5)

	result, err := search.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	searchResults := make([]types.SearchResult, 0, maxSearchResults)
	for _, item := range result.Items {
		if isExcludedDomain(item.Link) {
			continue
		}
		searchResults = append(searchResults, types.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
		if len(searchResults) == maxSearchResults {
			break
		}
	}

	return searchResults, nil
}

func isExcludedDomain(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range excludedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
