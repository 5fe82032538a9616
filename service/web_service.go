package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/types"
	"github.com/tawjihai/tawjih-be/utils"
)

const (
	defaultFetchTimeout = 10 * time.Second
	summarizeTimeout    = 30 * time.Second
	excerptLength       = 2000
	maxQueryKeywords    = 5
)

// boilerplateSelector lists the elements stripped from every page before
// text extraction.
const boilerplateSelector = "script, style, nav, header, footer, aside, noscript, iframe, form"

// mainContentSelector is tried first; when no such container exists the
// whole body is scanned for paragraph, heading and list-item text.
const mainContentSelector = "main, article, [role=main], #content, #main, .content, .main-content"

// institutionQueryTemplates build the search query for a named school in
// the student's language: country term, institution, then generic
// school/admission terms.
var institutionQueryTemplates = map[string]string{
	"en": "Morocco %s school information admission requirements",
	"fr": "Maroc %s école information inscription admission",
	"ar": "المغرب %s مدرسة معلومات التسجيل القبول",
	"es": "Marruecos %s escuela información inscripción admisión",
}

// generalQueryTemplates build the fallback query from extracted keywords.
var generalQueryTemplates = map[string]string{
	"en": "Morocco education system %s",
	"fr": "Maroc système éducatif %s",
	"ar": "المغرب نظام التعليم %s",
	"es": "Marruecos sistema educativo %s",
}

var stopwords = map[string]map[string]bool{
	"en": wordSet("the", "and", "for", "with", "about", "from", "what", "how", "when", "where", "why", "who", "which", "can", "could", "are", "you", "your", "this", "that", "tell"),
	"fr": wordSet("les", "des", "une", "pour", "avec", "que", "qui", "quoi", "comment", "est", "sont", "dans", "sur", "mes", "mon", "par", "pas", "vous", "moi"),
	"ar": wordSet("في", "من", "على", "إلى", "عن", "هل", "ما", "كيف", "لماذا", "متى", "أين", "هذا", "هذه"),
	"es": wordSet("los", "las", "una", "para", "con", "que", "como", "donde", "cuando", "por", "qué", "cómo", "dónde", "este", "esta"),
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Searcher is the slice of SearchService the pipeline depends on.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
}

// WebService runs the search, fetch, clean and summarize pipeline for
// queries the classifier flagged as needing live information.
type WebService struct {
	searcher     Searcher
	ai           AIService
	client       *http.Client
	fetchTimeout time.Duration
	logger       *zap.Logger
}

func NewWebService(searcher Searcher, ai AIService, fetchTimeout time.Duration, log *zap.Logger) *WebService {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &WebService{
		searcher:     searcher,
		ai:           ai,
		client:       &http.Client{Timeout: fetchTimeout},
		fetchTimeout: fetchTimeout,
		logger:       log,
	}
}

// Retrieve runs the whole pipeline. It returns nil when no page yielded
// usable content or summarization failed; partial failure degrades by
// omission, never by error.
func (s *WebService) Retrieve(ctx context.Context, query string, c types.Classification) *types.WebSummary {
	searchQuery := BuildSearchQuery(query, c)

	results, err := s.searcher.Search(ctx, searchQuery)
	if err != nil {
		s.logger.Warn("web search failed", zap.Error(err), zap.String("query", searchQuery))
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	pages := s.fetchAll(ctx, results)
	if len(pages) == 0 {
		return nil
	}

	summary, err := s.summarize(ctx, pages, c.Language)
	if err != nil {
		s.logger.Warn("web summarization failed", zap.Error(err))
		return nil
	}

	sources := make([]types.WebSource, 0, len(pages))
	for _, page := range pages {
		sources = append(sources, types.WebSource{Title: page.Title, URL: page.URL})
	}
	return &types.WebSummary{Text: summary, Sources: sources}
}

// fetchAll fans out over the result URLs concurrently, each fetch bounded
// by its own timeout; a failed or thin page is dropped without blocking
// the others.
func (s *WebService) fetchAll(ctx context.Context, results []types.SearchResult) []types.WebPage {
	fetched := make([]*types.WebPage, len(results))
	var wg sync.WaitGroup
	for i, result := range results {
		wg.Add(1)
		go func(i int, result types.SearchResult) {
			defer wg.Done()
			page, err := s.fetchPage(ctx, result)
			if err != nil {
				s.logger.Warn("page fetch failed",
					zap.String("url", result.Link),
					zap.Error(err))
				return
			}
			fetched[i] = page
		}(i, result)
	}
	wg.Wait()

	pages := make([]types.WebPage, 0, len(results))
	for _, page := range fetched {
		if page != nil {
			pages = append(pages, *page)
		}
	}
	return pages
}

func (s *WebService) fetchPage(ctx context.Context, result types.SearchResult) (*types.WebPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.Link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "tawjih-be/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	content := ExtractContent(doc)
	if len(content) < types.MinPageContent {
		return nil, fmt.Errorf("content too short (%d chars)", len(content))
	}

	title := result.Title
	if title == "" {
		title = utils.NormalizeWhitespace(doc.Find("title").First().Text())
	}
	return &types.WebPage{
		URL:     result.Link,
		Title:   title,
		Content: content,
	}, nil
}

// ExtractContent strips boilerplate elements, prefers a recognized main
// content container and falls back to body paragraphs, headings and list
// items, then truncates.
func ExtractContent(doc *goquery.Document) string {
	doc.Find(boilerplateSelector).Remove()

	var text string
	if main := doc.Find(mainContentSelector).First(); main.Length() > 0 {
		text = main.Text()
	} else {
		var parts []string
		doc.Find("body").Find("p, h1, h2, h3, h4, h5, h6, li").Each(func(_ int, sel *goquery.Selection) {
			if t := strings.TrimSpace(sel.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		text = strings.Join(parts, " ")
	}

	return utils.Truncate(utils.NormalizeWhitespace(text), types.MaxPageContent)
}

func (s *WebService) summarize(ctx context.Context, pages []types.WebPage, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, summarizeTimeout)
	defer cancel()

	var b strings.Builder
	b.WriteString("Summarize the following web pages for a student asking about the Moroccan education system.\n")
	fmt.Fprintf(&b, "Write a concise, structured, factual summary in %s. ", languageName(language))
	b.WriteString("If the sources contradict each other, say so explicitly.\n")
	for i, page := range pages {
		fmt.Fprintf(&b, "\n--- Source %d ---\nURL: %s\nTitle: %s\nContent: %s\n",
			i+1, page.URL, page.Title, utils.Truncate(page.Content, excerptLength))
	}

	return s.ai.Complete(ctx,
		"You summarize web content for an academic guidance assistant.",
		b.String())
}

// BuildSearchQuery constructs the external search query: a localized
// institution template when the classifier captured a school name, else a
// localized education-system query built from content keywords.
func BuildSearchQuery(query string, c types.Classification) string {
	lang := c.Language
	if _, ok := institutionQueryTemplates[lang]; !ok {
		lang = "en"
	}

	if c.Institution != "" {
		return fmt.Sprintf(institutionQueryTemplates[lang], c.Institution)
	}

	keywords := extractKeywords(query, lang)
	return strings.TrimSpace(fmt.Sprintf(generalQueryTemplates[lang], strings.Join(keywords, " ")))
}

// extractKeywords keeps up to maxQueryKeywords content tokens: longer than
// two runes, punctuation stripped, not a stopword of the language.
func extractKeywords(query, language string) []string {
	stops := stopwords[language]
	var keywords []string
	for _, field := range strings.Fields(query) {
		token := utils.StripPunctuation(field)
		if len([]rune(token)) <= 2 {
			continue
		}
		if stops[strings.ToLower(token)] {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) == maxQueryKeywords {
			break
		}
	}
	return keywords
}

func languageName(code string) string {
	switch code {
	case "fr":
		return "French"
	case "ar":
		return "Arabic"
	case "es":
		return "Spanish"
	default:
		return "English"
	}
}
