package model

import "time"

// MemoryType discriminates the shape of a memory's content payload.
type MemoryType string

const (
	TypeLearningProgress  MemoryType = "learning_progress"
	TypeLearningChallenge MemoryType = "learning_challenge"
	TypeCommitment        MemoryType = "commitment"
	TypeEmotionalState    MemoryType = "emotional_state"
	TypeMilestone         MemoryType = "milestone"
	TypeCustom            MemoryType = "custom"
)

// AllTypes lists every valid memory type.
var AllTypes = []MemoryType{
	TypeLearningProgress,
	TypeLearningChallenge,
	TypeCommitment,
	TypeEmotionalState,
	TypeMilestone,
	TypeCustom,
}

// Valid reports whether t is one of the known memory types.
func (t MemoryType) Valid() bool {
	for _, k := range AllTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Memory is the persisted unit: one structured fact extracted from a chat
// message, owned by a single user.
type Memory struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	SessionID    string     `json:"sessionId,omitempty"`
	Type         MemoryType `json:"type"`
	Content      Content    `json:"content"`
	Timestamp    time.Time  `json:"timestamp"`
	Relevance    float64    `json:"relevance"`
	Accessed     int        `json:"accessed"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
	Tags         []string   `json:"tags"`
	Expired      bool       `json:"expired"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// IsExpired reports whether the memory is expired at the given instant:
// either explicitly flagged, or past its expiresAt deadline.
func (m *Memory) IsExpired(now time.Time) bool {
	if m.Expired {
		return true
	}
	return m.ExpiresAt != nil && !m.ExpiresAt.After(now)
}

// SaveDecision is the classification verdict for one incoming message.
type SaveDecision struct {
	ShouldSave    bool       `json:"shouldSave"`
	Type          MemoryType `json:"type,omitempty"`
	Confidence    float64    `json:"confidence"`
	Reason        string     `json:"reason,omitempty"`
	SuggestedTags []string   `json:"suggestedTags,omitempty"`
}

// SearchCriteria filters a user's collection. UserID is mandatory; every
// other predicate is optional and AND-combined.
type SearchCriteria struct {
	UserID       string       `json:"userId"`
	Types        []MemoryType `json:"types,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	FromDate     *time.Time   `json:"fromDate,omitempty"`
	ToDate       *time.Time   `json:"toDate,omitempty"`
	MinRelevance *float64     `json:"minRelevance,omitempty"`
	NotExpired   bool         `json:"notExpired,omitempty"`
	Limit        int          `json:"limit,omitempty"`
}

// RetrievalResult is what the retrieval engine hands back to the caller
// before reply generation: at most three memories with their match scores.
type RetrievalResult struct {
	Memories []*Memory          `json:"memories"`
	Scores   map[string]float64 `json:"scores"`
	Reason   string             `json:"reason"`
}

// Stats summarizes one user's collection.
type Stats struct {
	Total            int                `json:"total"`
	ByType           map[MemoryType]int `json:"byType"`
	Expired          int                `json:"expired"`
	RecentlyAccessed int                `json:"recentlyAccessed"`
}
