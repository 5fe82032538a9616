package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/config"
	"github.com/tawjihai/tawjih-be/types"
)

// mockAI scripts the generation service for tests. The reply function
// receives the system and user prompt of each call in order.
type mockAI struct {
	mu    sync.Mutex
	calls []string
	reply func(call int, system, prompt string) (string, error)
}

func (m *mockAI) Complete(_ context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	call := len(m.calls)
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()
	if m.reply == nil {
		return "ok", nil
	}
	return m.reply(call, system, prompt)
}

func (m *mockAI) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// stubSearcher returns fixed search results.
type stubSearcher struct {
	results []types.SearchResult
	err     error
}

func (s *stubSearcher) Search(_ context.Context, _ string) ([]types.SearchResult, error) {
	return s.results, s.err
}

// writeKnowledgeFile drops a JSON document into dir and returns its source
// entry.
func writeKnowledgeFile(t *testing.T, dir, name, language, description, content string) config.KnowledgeSource {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return config.KnowledgeSource{Path: path, Language: language, Description: description}
}

func testKnowledgeService(t *testing.T) *KnowledgeService {
	t.Helper()
	dir := t.TempDir()
	src := writeKnowledgeFile(t, dir, "system_report.json", "en", "Education system overview",
		`{"title":"The Moroccan education system","introduction":"An overview.","sections":[{"name":"Primary","content":"Six years of primary school."}]}`)
	ks, err := NewKnowledgeService([]config.KnowledgeSource{src}, zap.NewNop())
	require.NoError(t, err)
	return ks
}
