package types

import "time"

type ChatRequest struct {
	Query     string `json:"query"`
	Language  string `json:"language,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Response     string `json:"response"`
	SessionID    string `json:"session_id"`
	IsNewSession bool   `json:"is_new_session"`
}

// MemoryStatus summarizes one session's stored history.
type MemoryStatus struct {
	ConversationCount int       `json:"conversation_count"`
	TotalExchanges    int       `json:"total_exchanges"`
	LastUpdated       time.Time `json:"last_updated"`
}

type ClearMemoryRequest struct {
	SessionID string `json:"session_id"`
}

type ClearMemoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
