package service

import "context"

// AIService abstracts the generation backend. Implementations are expected
// to fail occasionally; callers absorb errors and degrade rather than
// propagate them to the student.
type AIService interface {
	// Complete sends one prompt under the given system instructions and
	// returns the generated text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}
