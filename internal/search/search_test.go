package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/store/jsonl"
)

func seedStore(t *testing.T) *jsonl.Store {
	t.Helper()
	s, err := jsonl.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	memories := []*model.Memory{
		{
			UserID: "alice", Type: model.TypeCommitment, Relevance: 0.9,
			Tags: []string{"commitment"},
			Content: &model.Commitment{
				Date: "2026-03-10", Deadline: "2026-03-11",
				Task: "listening homework", Frequency: model.FrequencyOnce,
			},
		},
		{
			UserID: "alice", Type: model.TypeEmotionalState, Relevance: 0.75,
			Tags: []string{"emotion", "anxious"},
			Content: &model.EmotionalState{
				Date: "2026-03-10", Emotion: model.EmotionAnxious, Intensity: 3,
			},
		},
		{
			UserID: "alice", Type: model.TypeCustom, Relevance: 0.4,
			Tags:    []string{"misc"},
			Content: model.CustomContent{"note": "likes podcasts"},
			Expired: true,
		},
	}
	for _, m := range memories {
		_, err := s.Append(ctx, m)
		require.NoError(t, err)
	}
	return s
}

func TestSearchRequiresUserID(t *testing.T) {
	e := New(seedStore(t))
	_, err := e.Search(context.Background(), model.SearchCriteria{})
	assert.ErrorIs(t, err, model.ErrUserIDRequired)
}

func TestSearchSortsByRelevanceDescending(t *testing.T) {
	e := New(seedStore(t))
	out, err := e.Search(context.Background(), model.SearchCriteria{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Relevance, out[i].Relevance)
	}
}

func TestSearchFilters(t *testing.T) {
	e := New(seedStore(t))
	ctx := context.Background()

	byType, err := e.Search(ctx, model.SearchCriteria{
		UserID: "alice",
		Types:  []model.MemoryType{model.TypeCommitment},
	})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, model.TypeCommitment, byType[0].Type)

	byTag, err := e.Search(ctx, model.SearchCriteria{
		UserID: "alice",
		Tags:   []string{"anxious", "unused"},
	})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, model.TypeEmotionalState, byTag[0].Type)

	minRel := 0.7
	byRelevance, err := e.Search(ctx, model.SearchCriteria{
		UserID:       "alice",
		MinRelevance: &minRel,
	})
	require.NoError(t, err)
	assert.Len(t, byRelevance, 2)
}

func TestSearchNotExpired(t *testing.T) {
	e := New(seedStore(t))
	out, err := e.Search(context.Background(), model.SearchCriteria{
		UserID:     "alice",
		NotExpired: true,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, m := range out {
		assert.False(t, m.IsExpired(time.Now().UTC()))
	}
}

func TestSearchLimit(t *testing.T) {
	e := New(seedStore(t))
	out, err := e.Search(context.Background(), model.SearchCriteria{UserID: "alice", Limit: 1})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.9, out[0].Relevance, 1e-9)
}

func TestSearchDateRange(t *testing.T) {
	e := New(seedStore(t))
	future := time.Now().UTC().Add(time.Hour)
	out, err := e.Search(context.Background(), model.SearchCriteria{
		UserID:   "alice",
		FromDate: &future,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}
