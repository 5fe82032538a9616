package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/types"
)

const generateTimeout = 60 * time.Second

const personaPreamble = `You are Tawjih, an academic guidance counselor for students in the Moroccan education system. You explain orientation paths, admission procedures, exams and programs clearly and accurately, and you always answer in the language of the student's question.`

const internationalInstructions = `The student is asking about studying abroad. Cover recognized exchange and scholarship programs, visa and application timelines, and degree equivalence where relevant. Be precise about which steps happen in Morocco and which at the destination.`

const psychologicalInstructions = `The student may be under emotional strain. Use active listening: acknowledge the feeling before giving guidance, stay neutral and non-judgmental, and never diagnose. Encourage the student to talk to a counselor or trusted adult for persistent distress.`

// apologies are the pre-written localized fallbacks returned when the
// final generation call fails. They are normal return values, never errors.
var apologies = map[string]string{
	"en": "Sorry, I am unable to answer right now. Please try again in a moment.",
	"fr": "Désolé, je ne peux pas répondre pour le moment. Veuillez réessayer dans un instant.",
	"ar": "عذرًا، لا يمكنني الإجابة في الوقت الحالي. يرجى المحاولة مرة أخرى بعد قليل.",
	"es": "Lo siento, no puedo responder en este momento. Inténtalo de nuevo en un momento.",
}

const translationNote = "(Note: the reference information above is not in the student's language; translate the relevant parts when answering.)"

// AssistantService composes the final instruction context and produces the
// answer. It is the single entry point the transport layer talks to.
type AssistantService struct {
	knowledge  *KnowledgeService
	memory     *MemoryService
	classifier *ClassifierService
	web        *WebService
	ai         AIService
	now        func() time.Time
	logger     *zap.Logger
}

func NewAssistantService(
	knowledge *KnowledgeService,
	memory *MemoryService,
	classifier *ClassifierService,
	web *WebService,
	ai AIService,
	log *zap.Logger,
) *AssistantService {
	return &AssistantService{
		knowledge:  knowledge,
		memory:     memory,
		classifier: classifier,
		web:        web,
		ai:         ai,
		now:        time.Now,
		logger:     log,
	}
}

// Respond runs the full pipeline for one query. Failures in enrichment
// stages degrade silently; only total generation failure surfaces, as a
// localized apology.
func (s *AssistantService) Respond(ctx context.Context, query, language, sessionID string) types.ChatResponse {
	id, isNew := s.memory.GetOrCreate(sessionID)

	classification := s.classifier.Classify(ctx, query)
	if language != "" {
		// An explicit client language overrides detection.
		classification.Language = language
	}

	var summary *types.WebSummary
	if classification.NeedsWebSearch {
		summary = s.web.Retrieve(ctx, query, classification)
	}

	instructions := s.buildInstructions(id, classification, summary)

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	answer, err := s.ai.Complete(genCtx, instructions, query)
	cancel()
	if err != nil {
		s.logger.Error("generation failed", zap.Error(err), zap.String("sessionId", id))
		return types.ChatResponse{
			Response:     apology(classification.Language),
			SessionID:    id,
			IsNewSession: isNew,
		}
	}

	answer = appendSources(answer, summary)

	// Memory writes are best-effort and never block the answer.
	if err := s.memory.AppendExchange(id, query, answer, classification.Language, s.now()); err != nil {
		s.logger.Warn("failed to record exchange", zap.Error(err), zap.String("sessionId", id))
	}

	return types.ChatResponse{
		Response:     answer,
		SessionID:    id,
		IsNewSession: isNew,
	}
}

// MemoryStatus reports a session's stored history.
func (s *AssistantService) MemoryStatus(sessionID string) (types.MemoryStatus, error) {
	return s.memory.Status(sessionID)
}

// ClearMemory drops a session's conversation history.
func (s *AssistantService) ClearMemory(sessionID string) types.ClearMemoryResponse {
	if err := s.memory.Clear(sessionID); err != nil {
		return types.ClearMemoryResponse{Success: false, Message: err.Error()}
	}
	return types.ClearMemoryResponse{Success: true, Message: "conversation memory cleared"}
}

// buildInstructions assembles the combined instruction block: persona,
// knowledge text (with language fallback), domain instructions, recent
// session context and the web summary with its sources.
func (s *AssistantService) buildInstructions(sessionID string, c types.Classification, summary *types.WebSummary) string {
	var b strings.Builder
	b.WriteString(personaPreamble)

	if knowledge, note := s.knowledgeFor(c.Language); knowledge != "" {
		b.WriteString("\n\n# Reference information\n")
		b.WriteString(knowledge)
		if note != "" {
			b.WriteString("\n" + note)
		}
	}

	if c.InternationalTopic {
		b.WriteString("\n\n# International study\n")
		b.WriteString(internationalInstructions)
	}
	if c.PsychologicalTopic {
		b.WriteString("\n\n# Emotional support\n")
		b.WriteString(psychologicalInstructions)
	}

	if recent := s.memory.RecentContext(sessionID, DefaultContextExchanges); recent != "" {
		b.WriteString("\n\n# Recent conversation\n")
		b.WriteString(recent)
	}

	if summary != nil {
		b.WriteString("\n\n# Current web information\n")
		b.WriteString(summary.Text)
		if len(summary.Sources) > 0 {
			b.WriteString("\nSources:\n")
			for i, src := range summary.Sources {
				fmt.Fprintf(&b, "%d. %s — %s\n", i+1, src.Title, src.URL)
			}
		}
	}

	return b.String()
}

// knowledgeFor picks the corpus text for a language, falling back to
// English and then to the first loaded language; the second return is a
// translation note when a fallback was used.
func (s *AssistantService) knowledgeFor(language string) (string, string) {
	if text, ok := s.knowledge.Text(language); ok {
		return text, ""
	}
	if text, ok := s.knowledge.Text("en"); ok {
		return text, translationNote
	}
	if languages := s.knowledge.Languages(); len(languages) > 0 {
		text, _ := s.knowledge.Text(languages[0])
		return text, translationNote
	}
	return "", ""
}

// appendSources adds a numbered source list when the answer does not
// already mention its sources.
func appendSources(answer string, summary *types.WebSummary) string {
	if summary == nil || len(summary.Sources) == 0 {
		return answer
	}
	if strings.Contains(strings.ToLower(answer), "source") {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\nSources:\n")
	for i, src := range summary.Sources {
		fmt.Fprintf(&b, "%d. %s\n", i+1, src.URL)
	}
	return b.String()
}

func apology(language string) string {
	if msg, ok := apologies[language]; ok {
		return msg
	}
	return apologies["en"]
}
