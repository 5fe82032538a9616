package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/config"
	"github.com/tawjihai/tawjih-be/types"
)

// ErrEmptyCorpus means no knowledge document could be loaded in any
// language. The server must not start in that state.
var ErrEmptyCorpus = errors.New("knowledge corpus is empty")

// catalogFileName is the one format-special-cased source document: the
// catalog of orientation centers, identified by filename rather than shape.
const catalogFileName = "orientation_centers.json"

// noTextMarker flags extracted pages that carry no usable text.
const noTextMarker = "no text content"

// KnowledgeService holds the normalized per-language corpus. It is built
// once at startup and read-only afterwards, so no locking is needed.
type KnowledgeService struct {
	byLanguage map[string]string
	languages  []string // load order, for deterministic fallback
	documents  []types.KnowledgeDocument
}

// NewKnowledgeService loads and normalizes every configured source.
// A missing file is skipped with a warning; an empty resulting corpus is
// an error.
func NewKnowledgeService(sources []config.KnowledgeSource, log *zap.Logger) (*KnowledgeService, error) {
	s := &KnowledgeService{byLanguage: make(map[string]string)}

	for _, src := range sources {
		raw, err := os.ReadFile(src.Path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn("knowledge source missing, skipping",
					zap.String("path", src.Path))
				continue
			}
			return nil, fmt.Errorf("read knowledge source %s: %w", src.Path, err)
		}

		text, err := normalizeDocument(src, raw)
		if err != nil {
			return nil, fmt.Errorf("normalize knowledge source %s: %w", src.Path, err)
		}

		if _, ok := s.byLanguage[src.Language]; !ok {
			s.languages = append(s.languages, src.Language)
		}
		s.documents = append(s.documents, types.KnowledgeDocument{
			Language:    src.Language,
			Description: src.Description,
			Text:        text,
		})
		// Later documents for the same language append.
		if existing := s.byLanguage[src.Language]; existing != "" {
			s.byLanguage[src.Language] = existing + "\n\n" + text
		} else {
			s.byLanguage[src.Language] = text
		}

		log.Info("knowledge source loaded",
			zap.String("path", src.Path),
			zap.String("language", src.Language),
			zap.Int("chars", len(text)))
	}

	empty := true
	for _, text := range s.byLanguage {
		if strings.TrimSpace(text) != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil, ErrEmptyCorpus
	}
	return s, nil
}

// Text returns the normalized corpus text for a language.
func (s *KnowledgeService) Text(language string) (string, bool) {
	text, ok := s.byLanguage[language]
	return text, ok
}

// Languages lists the loaded languages in load order.
func (s *KnowledgeService) Languages() []string {
	out := make([]string, len(s.languages))
	copy(out, s.languages)
	return out
}

// Documents lists the loaded documents in load order.
func (s *KnowledgeService) Documents() []types.KnowledgeDocument {
	out := make([]types.KnowledgeDocument, len(s.documents))
	copy(out, s.documents)
	return out
}

// normalizeDocument resolves the source shape once and dispatches to the
// matching normalizer. The catalog is recognized by filename; a document
// with a pages array is a paginated extraction; everything else is a
// generic report.
func normalizeDocument(src config.KnowledgeSource, raw []byte) (string, error) {
	if filepath.Base(src.Path) == catalogFileName {
		var doc types.CatalogDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return "", err
		}
		return normalizeCatalog(src.Description, doc), nil
	}

	var paginated types.PaginatedDoc
	if err := json.Unmarshal(raw, &paginated); err != nil {
		return "", err
	}
	if len(paginated.Pages) > 0 {
		return normalizePaginated(src.Description, paginated), nil
	}

	var report types.ReportDoc
	if err := json.Unmarshal(raw, &report); err != nil {
		return "", err
	}
	return normalizeReport(src.Description, report), nil
}

func normalizeCatalog(description string, doc types.CatalogDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", description)

	// Group by category, preserving first-seen order.
	var categories []string
	grouped := make(map[string][]types.CatalogEntry)
	for _, entry := range doc.Centers {
		if _, ok := grouped[entry.Category]; !ok {
			categories = append(categories, entry.Category)
		}
		grouped[entry.Category] = append(grouped[entry.Category], entry)
	}

	for _, category := range categories {
		fmt.Fprintf(&b, "\n## %s\n", category)
		for _, entry := range grouped[category] {
			fmt.Fprintf(&b, "- %s", entry.Name)
			if entry.Website != "" {
				fmt.Fprintf(&b, " | %s", entry.Website)
			}
			if entry.Location != "" {
				fmt.Fprintf(&b, " | %s", entry.Location)
			}
			if len(entry.Languages) > 0 {
				fmt.Fprintf(&b, " | %s", strings.Join(entry.Languages, ", "))
			}
			if entry.Description != "" {
				fmt.Fprintf(&b, " | %s", entry.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func normalizePaginated(description string, doc types.PaginatedDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", description)
	if doc.FileName != "" {
		fmt.Fprintf(&b, "Document: %s\n", doc.FileName)
	}

	for _, page := range doc.Pages {
		content := strings.TrimSpace(page.Content)
		if content == "" || strings.Contains(strings.ToLower(content), noTextMarker) {
			continue
		}
		fmt.Fprintf(&b, "\n## Page %d\n%s\n", page.Page, content)
	}
	return b.String()
}

func normalizeReport(description string, doc types.ReportDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", description)
	if doc.Title != "" {
		fmt.Fprintf(&b, "%s\n", doc.Title)
	}
	if doc.Introduction != "" {
		fmt.Fprintf(&b, "\n%s\n", doc.Introduction)
	}
	for _, section := range doc.Sections {
		if strings.TrimSpace(section.Content) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n%s\n", section.Name, section.Content)
	}
	if doc.Conclusion != "" {
		fmt.Fprintf(&b, "\n## Conclusion\n%s\n", doc.Conclusion)
	}
	return b.String()
}
