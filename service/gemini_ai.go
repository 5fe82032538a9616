package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiService is the Gemini-backed generation adapter. It rotates
// through the configured API keys when a call fails, which rides out
// per-key quota exhaustion.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	modelName  string
	client     *genai.Client
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	s := &GeminiService{
		apiKeys:   apiKeys,
		modelName: modelName,
	}
	if err := s.initClient(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := s.generate(ctx, system, prompt)
	if err != nil {
		// Try the next API key once before giving up.
		if rerr := s.rotateAPIKey(); rerr != nil {
			return "", rerr
		}
		resp, err = s.generate(ctx, system, prompt)
		if err != nil {
			return "", err
		}
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}

func (s *GeminiService) generate(ctx context.Context, system, prompt string) (*genai.GenerateContentResponse, error) {
	s.mu.Lock()
	model := s.client.GenerativeModel(s.modelName)
	s.mu.Unlock()

	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	return model.GenerateContent(ctx, genai.Text(prompt))
}
