// Package search filters and ranks one user's memory collection against a
// multi-predicate criteria object.
package search

import (
	"context"
	"sort"
	"time"

	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/store"
)

// Engine evaluates search criteria over a freshly loaded collection. It
// always re-reads from the store; there is no cache layer.
type Engine struct {
	store store.Store
	now   func() time.Time
}

// New returns a search engine over the given store.
func New(s store.Store) *Engine {
	return &Engine{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Search loads the user's collection and applies the criteria's filters in
// order: types, tags, date range, minRelevance, notExpired. Results are
// sorted by descending relevance; ties keep insertion order (stable sort),
// then truncated to Limit when given.
func (e *Engine) Search(ctx context.Context, c model.SearchCriteria) ([]*model.Memory, error) {
	if c.UserID == "" {
		return nil, model.ErrUserIDRequired
	}
	memories, err := e.store.LoadAll(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	out := []*model.Memory{}
	for _, m := range memories {
		if len(c.Types) > 0 && !typeIn(m.Type, c.Types) {
			continue
		}
		if len(c.Tags) > 0 && !tagsIntersect(m.Tags, c.Tags) {
			continue
		}
		if c.FromDate != nil && m.Timestamp.Before(*c.FromDate) {
			continue
		}
		if c.ToDate != nil && m.Timestamp.After(*c.ToDate) {
			continue
		}
		if c.MinRelevance != nil && m.Relevance < *c.MinRelevance {
			continue
		}
		if c.NotExpired && m.IsExpired(now) {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})

	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out, nil
}

func typeIn(t model.MemoryType, set []model.MemoryType) bool {
	for _, k := range set {
		if t == k {
			return true
		}
	}
	return false
}

// tagsIntersect applies OR semantics: any shared tag is a match.
func tagsIntersect(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
