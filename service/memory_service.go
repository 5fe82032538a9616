package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/types"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultContextExchanges is how many recent exchanges RecentContext
// surfaces by default.
const DefaultContextExchanges = 5

// MemoryService keeps per-session conversation history in memory for the
// process lifetime. The store map is guarded by its own mutex; every
// session additionally carries a mutex so that appends and reads for one
// session id are serialized while different sessions stay independent.
type MemoryService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	logger   *zap.Logger
}

type sessionEntry struct {
	mu      sync.Mutex
	session *types.ConversationSession
}

func NewMemoryService(log *zap.Logger) *MemoryService {
	return &MemoryService{
		sessions: make(map[string]*sessionEntry),
		logger:   log,
	}
}

// GetOrCreate returns the canonical session id for the given identifier,
// minting a fresh session when the id is empty or unknown. The second
// return reports whether a new session was created.
func (s *MemoryService) GetOrCreate(sessionID string) (string, bool) {
	if sessionID != "" {
		s.mu.RLock()
		_, ok := s.sessions[sessionID]
		s.mu.RUnlock()
		if ok {
			return sessionID, false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sessionID != "" {
		// Re-check under the write lock.
		if _, ok := s.sessions[sessionID]; ok {
			return sessionID, false
		}
	}

	id := uuid.NewString()
	s.sessions[id] = &sessionEntry{
		session: &types.ConversationSession{ID: id},
	}
	s.logger.Debug("session created", zap.String("sessionId", id))
	return id, true
}

func (s *MemoryService) entry(sessionID string) (*sessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	return entry, ok
}

// AppendExchange records one query/response pair in the daily conversation
// matching now's calendar date, creating the bucket when absent. When the
// session exceeds the daily-conversation cap, the oldest buckets are
// evicted in their original order.
func (s *MemoryService) AppendExchange(sessionID, query, response, language string, now time.Time) error {
	entry, ok := s.entry(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Calendar date is the date prefix of the ISO timestamp.
	date := now.UTC().Format(time.RFC3339)[:10]
	session := entry.session

	var daily *types.DailyConversation
	for i := range session.DailyConversations {
		if session.DailyConversations[i].Date == date {
			daily = &session.DailyConversations[i]
			break
		}
	}
	if daily == nil {
		session.DailyConversations = append(session.DailyConversations, types.DailyConversation{
			Date:     date,
			Language: language,
		})
		daily = &session.DailyConversations[len(session.DailyConversations)-1]
	}

	daily.Exchanges = append(daily.Exchanges, types.Exchange{
		Timestamp: now,
		Query:     query,
		Response:  response,
	})
	session.LastUpdated = now

	if excess := len(session.DailyConversations) - types.MaxDailyConversations; excess > 0 {
		session.DailyConversations = session.DailyConversations[excess:]
	}
	return nil
}

// RecentContext renders up to max recent exchanges as alternating
// User/Agent lines. Conversations are walked newest date first and each
// conversation's exchanges newest first; ordering across conversations is
// per-conversation only, not globally monotonic by timestamp.
func (s *MemoryService) RecentContext(sessionID string, max int) string {
	if max <= 0 {
		max = DefaultContextExchanges
	}
	entry, ok := s.entry(sessionID)
	if !ok {
		return ""
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	conversations := make([]types.DailyConversation, len(entry.session.DailyConversations))
	copy(conversations, entry.session.DailyConversations)
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].Date > conversations[j].Date
	})

	var lines []string
	taken := 0
	for _, conv := range conversations {
		if taken == max {
			break
		}
		exchanges := make([]types.Exchange, len(conv.Exchanges))
		copy(exchanges, conv.Exchanges)
		sort.SliceStable(exchanges, func(i, j int) bool {
			return exchanges[i].Timestamp.After(exchanges[j].Timestamp)
		})
		for _, ex := range exchanges {
			if taken == max {
				break
			}
			lines = append(lines, fmt.Sprintf("User: %s\nAgent: %s", ex.Query, ex.Response))
			taken++
		}
	}
	return strings.Join(lines, "\n")
}

// Status reports the stored history of one session. It performs no writes,
// so repeated calls without intervening exchanges return identical counts.
func (s *MemoryService) Status(sessionID string) (types.MemoryStatus, error) {
	entry, ok := s.entry(sessionID)
	if !ok {
		return types.MemoryStatus{}, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	total := 0
	for _, conv := range entry.session.DailyConversations {
		total += len(conv.Exchanges)
	}
	return types.MemoryStatus{
		ConversationCount: len(entry.session.DailyConversations),
		TotalExchanges:    total,
		LastUpdated:       entry.session.LastUpdated,
	}, nil
}

// Clear drops a session's conversation history. The session itself stays
// registered so its id remains valid.
func (s *MemoryService) Clear(sessionID string) error {
	entry, ok := s.entry(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.session.DailyConversations = nil
	return nil
}
