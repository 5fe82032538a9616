package types

import "time"

// Exchange is a single question/answer pair in a session's history.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
}

// DailyConversation groups the exchanges of one calendar date (YYYY-MM-DD).
type DailyConversation struct {
	Date      string     `json:"date"`
	Language  string     `json:"language"`
	Exchanges []Exchange `json:"exchanges"`
}

// ConversationSession is the in-memory conversational scope for one
// session identifier. At most one DailyConversation exists per date, and
// the list holds at most MaxDailyConversations entries, oldest first.
type ConversationSession struct {
	ID                 string              `json:"id"`
	DailyConversations []DailyConversation `json:"daily_conversations"`
	LastUpdated        time.Time           `json:"last_updated"`
}

// MaxDailyConversations caps how many dated buckets a session retains.
const MaxDailyConversations = 10
