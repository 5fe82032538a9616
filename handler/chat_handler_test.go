package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/config"
	"github.com/tawjihai/tawjih-be/service"
	"github.com/tawjihai/tawjih-be/types"
)

type cannedAI struct{ answer string }

func (a *cannedAI) Complete(_ context.Context, _, _ string) (string, error) {
	return a.answer, nil
}

type emptySearcher struct{}

func (emptySearcher) Search(_ context.Context, _ string) ([]types.SearchResult, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	dir := t.TempDir()
	path := filepath.Join(dir, "system_report.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"title":"Overview","introduction":"Corpus text."}`), 0o644))
	knowledge, err := service.NewKnowledgeService([]config.KnowledgeSource{
		{Path: path, Language: "en", Description: "Overview"},
	}, log)
	require.NoError(t, err)

	ai := &cannedAI{answer: "no, an answer"}
	memory := service.NewMemoryService(log)
	classifier := service.NewClassifierService(ai, log)
	web := service.NewWebService(emptySearcher{}, ai, time.Second, log)
	assistant := service.NewAssistantService(knowledge, memory, classifier, web, ai, log)

	chat := NewChatHandler(assistant)
	mem := NewMemoryHandler(assistant)

	router := gin.New()
	router.POST("/api/v1/chat", chat.HandleChat)
	router.GET("/api/v1/memory/status", mem.HandleStatus)
	router.POST("/api/v1/memory/clear", mem.HandleClear)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHandler(t *testing.T) {
	router := newTestRouter(t)

	t.Run("rejects malformed body", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/chat", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects blank query", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/chat", `{"query":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("answers a valid query", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/chat", `{"query":"How do I apply?"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Status string             `json:"status"`
			Data   types.ChatResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Equal(t, "success", envelope.Status)
		assert.Equal(t, "no, an answer", envelope.Data.Response)
		assert.NotEmpty(t, envelope.Data.SessionID)
		assert.True(t, envelope.Data.IsNewSession)
	})
}

func TestMemoryHandler(t *testing.T) {
	router := newTestRouter(t)

	t.Run("status requires session_id", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/memory/status", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("status of unknown session is 404", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/memory/status?session_id=nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("status and clear after a chat turn", func(t *testing.T) {
		chat := doJSON(router, http.MethodPost, "/api/v1/chat", `{"query":"How do I apply?"}`)
		require.Equal(t, http.StatusOK, chat.Code)
		var envelope struct {
			Data types.ChatResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(chat.Body.Bytes(), &envelope))
		sessionID := envelope.Data.SessionID

		status := doJSON(router, http.MethodGet, "/api/v1/memory/status?session_id="+sessionID, "")
		require.Equal(t, http.StatusOK, status.Code)
		var statusEnvelope struct {
			Data types.MemoryStatus `json:"data"`
		}
		require.NoError(t, json.Unmarshal(status.Body.Bytes(), &statusEnvelope))
		assert.Equal(t, 1, statusEnvelope.Data.TotalExchanges)

		clear := doJSON(router, http.MethodPost, "/api/v1/memory/clear",
			`{"session_id":"`+sessionID+`"}`)
		assert.Equal(t, http.StatusOK, clear.Code)
	})

	t.Run("clearing an unknown session is 404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/memory/clear", `{"session_id":"nope"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
