package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/types"
)

const classifyTimeout = 15 * time.Second

// internationalKeywords and psychologicalKeywords are matched against the
// raw query across every language, not only the detected one: students
// code-switch, and a French "bourse" inside an English sentence still
// means the international-study instructions apply.
var internationalKeywords = map[string][]string{
	"en": {"study abroad", "abroad", "international", "scholarship", "visa", "foreign university", "exchange program"},
	"fr": {"étranger", "bourse", "international", "visa", "campus france", "échange universitaire"},
	"ar": {"الخارج", "منحة", "دولية", "تأشيرة", "السفر للدراسة", "جامعة أجنبية"},
	"es": {"extranjero", "beca", "internacional", "visado", "intercambio", "estudiar fuera"},
}

var psychologicalKeywords = map[string][]string{
	"en": {"stress", "anxiety", "anxious", "depressed", "overwhelmed", "afraid", "worried", "pressure"},
	"fr": {"stress", "anxiété", "angoisse", "déprimé", "peur", "inquiet", "pression"},
	"ar": {"قلق", "خوف", "اكتئاب", "ضغط", "توتر", "حزين"},
	"es": {"estrés", "ansiedad", "deprimido", "miedo", "agobiado", "presión"},
}

// institutionPatterns capture the institution name from "tell me about X"
// style questions in the four supported languages. Qualifier tails such as
// "admission requirements" are not part of the name.
var institutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btell me about\s+(.+?)(?:\s+(?:admissions?|requirements?|school|info(?:rmation)?|fees?)\b.*)?$`),
	regexp.MustCompile(`(?i)\bparle[sz]?(?:-| )moi de\s+(.+?)(?:\s+(?:admissions?|inscriptions?|conditions?|frais)\b.*)?$`),
	regexp.MustCompile(`(?i)\bh[áa]blame de\s+(.+?)(?:\s+(?:admisi[óo]n(?:es)?|requisitos|inscripci[óo]n)\b.*)?$`),
	regexp.MustCompile(`أخبرني عن\s+(.+)$`),
}

var englishInterrogatives = map[string]bool{
	"what": true, "how": true, "when": true, "where": true, "why": true,
	"who": true, "which": true, "can": true, "could": true, "is": true,
	"are": true, "do": true, "does": true, "should": true, "will": true,
}

var frenchChars = "àâäæçéèêëîïôöùûüÿœÀÂÄÆÇÉÈÊËÎÏÔÖÙÛÜŸŒ"
var spanishChars = "¿¡ñÑáíóúÁÍÓÚ"

// ClassifierService decides language, topical domains and whether a query
// needs live web retrieval.
type ClassifierService struct {
	ai     AIService
	logger *zap.Logger
}

func NewClassifierService(ai AIService, log *zap.Logger) *ClassifierService {
	return &ClassifierService{ai: ai, logger: log}
}

// Classify runs the full classification for one query. The generation
// service is consulted for the web-search decision; when that call fails
// the heuristic verdict stands and the turn continues.
func (s *ClassifierService) Classify(ctx context.Context, query string) types.Classification {
	c := types.Classification{
		Language:           DetectLanguage(query),
		InternationalTopic: matchesAnyLanguage(query, internationalKeywords),
		PsychologicalTopic: matchesAnyLanguage(query, psychologicalKeywords),
		Institution:        MatchInstitution(query),
	}

	heuristic := c.Institution != "" || looksLikeInformationQuery(query)
	c.NeedsWebSearch = heuristic

	verdict, err := s.askSearchVerdict(ctx, query)
	if err != nil {
		s.logger.Warn("search-need classification failed, using heuristic",
			zap.Error(err),
			zap.Bool("heuristic", heuristic))
		return c
	}
	c.NeedsWebSearch = verdict
	return c
}

func (s *ClassifierService) askSearchVerdict(ctx context.Context, query string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Answer with exactly \"yes\" or \"no\". Is the following student question "+
			"likely to require information outside a standard knowledge base about "+
			"the Moroccan education system, such as details about a specific school, "+
			"recent changes, or foreign institutions?\n\nQuestion: %s", query)

	answer, err := s.ai.Complete(ctx,
		"You are a strict yes/no classifier for an academic guidance assistant.",
		prompt)
	if err != nil {
		return false, err
	}

	switch t := strings.ToLower(strings.TrimSpace(answer)); {
	case strings.HasPrefix(t, "yes"):
		return true, nil
	case strings.HasPrefix(t, "no"):
		return false, nil
	default:
		return false, fmt.Errorf("unparseable verdict %q", answer)
	}
}

// DetectLanguage applies the fixed priority order: Arabic codepoints, then
// French accented characters, then Spanish ones, else English. First match
// wins, no scoring.
func DetectLanguage(query string) string {
	for _, r := range query {
		if r >= 0x0600 && r <= 0x06FF {
			return "ar"
		}
	}
	if strings.ContainsAny(query, frenchChars) {
		return "fr"
	}
	if strings.ContainsAny(query, spanishChars) {
		return "es"
	}
	return "en"
}

// MatchInstitution returns the institution name when the query follows a
// specific-institution phrase, empty otherwise.
func MatchInstitution(query string) string {
	for _, pattern := range institutionPatterns {
		if m := pattern.FindStringSubmatch(strings.TrimSpace(query)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func matchesAnyLanguage(query string, dict map[string][]string) bool {
	lowered := strings.ToLower(query)
	for _, keywords := range dict {
		for _, kw := range keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

// looksLikeInformationQuery is the general half of the heuristic: an
// explicit question mark, or an English interrogative lead word.
func looksLikeInformationQuery(query string) bool {
	if strings.Contains(query, "?") || strings.Contains(query, "؟") {
		return true
	}
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return false
	}
	return englishInterrogatives[fields[0]]
}
