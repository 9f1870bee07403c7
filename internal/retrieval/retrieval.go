// Package retrieval selects the few stored memories most relevant to a new
// chat message, using time, keyword and recency heuristics.
package retrieval

import (
	"context"
	"sort"
	"time"

	"github.com/kaiwa-coach/memory-service/internal/classify"
	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/store"
)

// maxResults caps how many memories a single retrieval returns.
const maxResults = 3

// Pass scores.
const (
	scoreCommitmentDue    = 0.9
	scoreRelatedChallenge = 0.8
	scoreSameEmotion      = 0.7
	scoreFallback         = 0.3
)

// Engine gathers retrieval candidates from one user's collection.
type Engine struct {
	store store.Store
}

// New returns a retrieval engine over the given store.
func New(s store.Store) *Engine {
	return &Engine{store: s}
}

type candidate struct {
	memory *model.Memory
	score  float64
	order  int // first-insertion order, used as the stable tie-break
}

// Decide runs the four candidate-gathering passes, merges them keeping the
// highest score per id, and returns the top three. When nothing matches it
// falls back to the three most recently stored not-expired memories at a
// flat weak score, so a user with any history always gets something back.
func (e *Engine) Decide(ctx context.Context, message, userID string, now time.Time) (*model.RetrievalResult, error) {
	if userID == "" {
		return nil, model.ErrUserIDRequired
	}
	memories, err := e.store.LoadAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := map[string]*candidate{}
	order := 0
	add := func(m *model.Memory, score float64) {
		if c, ok := byID[m.ID]; ok {
			if score > c.score {
				c.score = score
			}
			return
		}
		byID[m.ID] = &candidate{memory: m, score: score, order: order}
		order++
	}

	e.gatherDueCommitments(memories, now, add)
	e.gatherRelatedChallenges(memories, message, add)
	e.gatherEmotionalContinuity(memories, message, now, add)
	e.gatherApproachingMilestones(memories, now, add)

	if len(byID) == 0 {
		return fallbackRecent(memories, now), nil
	}

	cands := make([]*candidate, 0, len(byID))
	for _, c := range byID {
		cands = append(cands, c)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].order < cands[j].order
	})
	if len(cands) > maxResults {
		cands = cands[:maxResults]
	}

	res := &model.RetrievalResult{
		Memories: make([]*model.Memory, 0, len(cands)),
		Scores:   map[string]float64{},
		Reason:   "contextual match",
	}
	for _, c := range cands {
		res.Memories = append(res.Memories, c.memory)
		res.Scores[c.memory.ID] = c.score
	}
	return res, nil
}

// gatherDueCommitments keeps not-completed, not-expired commitments whose
// deadline falls within [-1, +3] days of now.
func (e *Engine) gatherDueCommitments(memories []*model.Memory, now time.Time, add func(*model.Memory, float64)) {
	for _, m := range memories {
		if m.Type != model.TypeCommitment || m.IsExpired(now) {
			continue
		}
		c, ok := m.Content.(*model.Commitment)
		if !ok || c.Completed {
			continue
		}
		deadline, ok := parseDay(c.Deadline)
		if !ok {
			continue
		}
		days := daysBetween(now, deadline)
		if days >= -1 && days <= 3 {
			add(m, scoreCommitmentDue)
		}
	}
}

// gatherRelatedChallenges keeps unresolved challenges whose description
// shares at least two significant words with the message, but only when the
// message itself sounds like a struggle.
func (e *Engine) gatherRelatedChallenges(memories []*model.Memory, message string, add func(*model.Memory, float64)) {
	if !classify.HasChallengeKeyword(message) {
		return
	}
	msgWords := classify.SignificantWords(message)
	for _, m := range memories {
		if m.Type != model.TypeLearningChallenge {
			continue
		}
		c, ok := m.Content.(*model.LearningChallenge)
		if !ok || c.Resolved {
			continue
		}
		if classify.SharedWordCount(classify.SignificantWords(c.Description), msgWords) >= 2 {
			add(m, scoreRelatedChallenge)
		}
	}
}

// gatherEmotionalContinuity keeps emotional states from the last 7 days
// matching the emotion the message expresses. Anxious and stressed are
// treated as the same state.
func (e *Engine) gatherEmotionalContinuity(memories []*model.Memory, message string, now time.Time, add func(*model.Memory, float64)) {
	emotion, ok := classify.DetectEmotion(message)
	if !ok {
		return
	}
	weekAgo := now.AddDate(0, 0, -7)
	for _, m := range memories {
		if m.Type != model.TypeEmotionalState || m.Timestamp.Before(weekAgo) {
			continue
		}
		c, ok := m.Content.(*model.EmotionalState)
		if !ok {
			continue
		}
		if c.Emotion == emotion || equivalentEmotions(c.Emotion, emotion) {
			add(m, scoreSameEmotion)
		}
	}
}

// gatherApproachingMilestones keeps not-expired milestones whose event date
// is within the next 14 days, scored by importance.
func (e *Engine) gatherApproachingMilestones(memories []*model.Memory, now time.Time, add func(*model.Memory, float64)) {
	for _, m := range memories {
		if m.Type != model.TypeMilestone || m.IsExpired(now) {
			continue
		}
		c, ok := m.Content.(*model.Milestone)
		if !ok {
			continue
		}
		eventDate, ok := parseDay(c.EventDate)
		if !ok {
			continue
		}
		days := daysBetween(now, eventDate)
		if days < 0 || days > 14 {
			continue
		}
		switch c.Importance {
		case model.ImportanceCritical:
			add(m, 1.0)
		case model.ImportanceHigh:
			add(m, 0.9)
		default:
			add(m, 0.8)
		}
	}
}

// fallbackRecent returns the up-to-three most recently stored not-expired
// memories at a flat weak score. Precision is traded for continuity: the
// caller always gets something when the user has history.
func fallbackRecent(memories []*model.Memory, now time.Time) *model.RetrievalResult {
	res := &model.RetrievalResult{
		Memories: []*model.Memory{},
		Scores:   map[string]float64{},
		Reason:   "no contextual match; falling back to most recent",
	}
	for i := len(memories) - 1; i >= 0 && len(res.Memories) < maxResults; i-- {
		m := memories[i]
		if m.IsExpired(now) {
			continue
		}
		res.Memories = append(res.Memories, m)
		res.Scores[m.ID] = scoreFallback
	}
	if len(res.Memories) == 0 {
		res.Reason = "no memories stored"
	}
	return res
}

func equivalentEmotions(a, b model.Emotion) bool {
	return (a == model.EmotionAnxious && b == model.EmotionStressed) ||
		(a == model.EmotionStressed && b == model.EmotionAnxious)
}

var dayLayouts = []string{"2006-01-02", time.RFC3339}

func parseDay(s string) (time.Time, bool) {
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween returns the whole-day distance from now's date to target's date.
func daysBetween(now, target time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
