package service

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/config"
)

func TestKnowledgeService_CatalogShape(t *testing.T) {
	dir := t.TempDir()
	src := writeKnowledgeFile(t, dir, "orientation_centers.json", "fr", "Centres d'orientation",
		`{"centers":[
			{"name":"Centre A","category":"Public","website":"https://a.ma","location":"Rabat","languages":["fr","ar"],"description":"Orientation scolaire"},
			{"name":"Centre B","category":"Privé","location":"Casablanca"},
			{"name":"Centre C","category":"Public","website":"https://c.ma"}
		]}`)

	s, err := NewKnowledgeService([]config.KnowledgeSource{src}, zap.NewNop())
	require.NoError(t, err)

	text, ok := s.Text("fr")
	require.True(t, ok)
	assert.Contains(t, text, "# Centres d'orientation")
	assert.Contains(t, text, "## Public")
	assert.Contains(t, text, "## Privé")
	assert.Contains(t, text, "- Centre A | https://a.ma | Rabat | fr, ar | Orientation scolaire")
	assert.Contains(t, text, "- Centre B | Casablanca")
	// Entries of the same category stay grouped under one heading.
	assert.Equal(t, 1, strings.Count(text, "## Public"))
}

func TestKnowledgeService_PaginatedShape(t *testing.T) {
	dir := t.TempDir()
	src := writeKnowledgeFile(t, dir, "guide_extract.json", "en", "Orientation guide",
		`{"file_name":"guide2026.pdf","pages":[
			{"page":1,"content":"First page text."},
			{"page":2,"content":"[no text content]"},
			{"page":3,"content":""},
			{"page":4,"content":"Fourth page text."}
		]}`)

	s, err := NewKnowledgeService([]config.KnowledgeSource{src}, zap.NewNop())
	require.NoError(t, err)

	text, ok := s.Text("en")
	require.True(t, ok)
	assert.Contains(t, text, "Document: guide2026.pdf")
	assert.Contains(t, text, "## Page 1")
	assert.Contains(t, text, "First page text.")
	assert.Contains(t, text, "## Page 4")
	assert.NotContains(t, text, "## Page 2", "pages without text are skipped")
	assert.NotContains(t, text, "## Page 3")
}

func TestKnowledgeService_ReportShape(t *testing.T) {
	dir := t.TempDir()
	src := writeKnowledgeFile(t, dir, "system_report.json", "en", "System report",
		`{"title":"Education in Morocco","introduction":"Intro text.","sections":[
			{"name":"Primary","content":"Primary content."},
			{"name":"Empty",  "content":"  "}
		],"conclusion":"Final remarks."}`)

	s, err := NewKnowledgeService([]config.KnowledgeSource{src}, zap.NewNop())
	require.NoError(t, err)

	text, ok := s.Text("en")
	require.True(t, ok)
	assert.Contains(t, text, "Education in Morocco")
	assert.Contains(t, text, "Intro text.")
	assert.Contains(t, text, "## Primary")
	assert.Contains(t, text, "## Conclusion")
	assert.NotContains(t, text, "## Empty", "empty sections are skipped")
}

func TestKnowledgeService_MissingFileSkipped(t *testing.T) {
	dir := t.TempDir()
	present := writeKnowledgeFile(t, dir, "system_report.json", "en", "Report",
		`{"title":"T","introduction":"Some text."}`)
	missing := config.KnowledgeSource{
		Path:     filepath.Join(dir, "not_there.json"),
		Language: "fr",
	}

	s, err := NewKnowledgeService([]config.KnowledgeSource{missing, present}, zap.NewNop())
	require.NoError(t, err)

	_, ok := s.Text("fr")
	assert.False(t, ok)
	assert.Equal(t, []string{"en"}, s.Languages())
}

func TestKnowledgeService_EmptyCorpusFatal(t *testing.T) {
	dir := t.TempDir()
	missing := config.KnowledgeSource{Path: filepath.Join(dir, "nope.json"), Language: "en"}

	_, err := NewKnowledgeService([]config.KnowledgeSource{missing}, zap.NewNop())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestKnowledgeService_SameLanguageAppends(t *testing.T) {
	dir := t.TempDir()
	first := writeKnowledgeFile(t, dir, "a.json", "en", "First",
		`{"title":"A","introduction":"Alpha."}`)
	second := writeKnowledgeFile(t, dir, "b.json", "en", "Second",
		`{"title":"B","introduction":"Beta."}`)

	s, err := NewKnowledgeService([]config.KnowledgeSource{first, second}, zap.NewNop())
	require.NoError(t, err)

	text, _ := s.Text("en")
	assert.Contains(t, text, "Alpha.")
	assert.Contains(t, text, "Beta.", "later documents append, not overwrite")
	assert.Equal(t, []string{"en"}, s.Languages())

	docs := s.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "First", docs[0].Description)
	assert.Equal(t, "Second", docs[1].Description)
}
