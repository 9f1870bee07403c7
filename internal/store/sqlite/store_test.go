package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwa-coach/memory-service/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func progressMemory(userID string) *model.Memory {
	score := 50.0
	return &model.Memory{
		UserID:    userID,
		SessionID: "s1",
		Type:      model.TypeLearningProgress,
		Content: &model.LearningProgress{
			Date: "2026-03-10", Subject: model.SubjectVocabulary,
			Achievement: "memorized 50 words", Score: &score,
		},
		Relevance: 0.85,
		Tags:      []string{"learning", "vocabulary"},
	}
}

func TestSqliteAppendThenLoadAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Append(ctx, progressMemory("alice"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, 0, saved.Accessed)

	loaded, err := s.LoadAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, saved.ID, loaded[0].ID)
	assert.Equal(t, saved.Content, loaded[0].Content)
	assert.Equal(t, saved.Tags, loaded[0].Tags)
	assert.True(t, saved.Timestamp.Equal(loaded[0].Timestamp))
}

func TestSqliteLoadAllEmptyUser(t *testing.T) {
	s := newTestStore(t)
	loaded, err := s.LoadAll(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSqliteTouchAndExpire(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Append(ctx, progressMemory("alice"))
	require.NoError(t, err)

	require.NoError(t, s.Touch(ctx, "alice", saved.ID))
	require.NoError(t, s.Touch(ctx, "alice", saved.ID))
	require.NoError(t, s.Expire(ctx, "alice", saved.ID))

	loaded, err := s.LoadAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 2, loaded[0].Accessed)
	require.NotNil(t, loaded[0].LastAccessed)
	assert.True(t, loaded[0].Expired)
}

func TestSqliteDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Append(ctx, progressMemory("alice"))
	require.NoError(t, err)

	found, err := s.Delete(ctx, "alice", saved.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.Delete(ctx, "alice", saved.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSqliteCleanupKeepsMilestones(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -120)
	s.now = func() time.Time { return old }

	_, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeCustom,
		Content: model.CustomContent{"note": "small talk"}, Relevance: 0.2,
	})
	require.NoError(t, err)
	_, err = s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeMilestone,
		Content: &model.Milestone{
			DateMentioned: "2025-11-01", EventDate: "2025-12-01",
			Event: "first JLPT attempt", Importance: model.ImportanceLow,
		},
		Relevance: 0.1,
	})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().UTC() }

	removed, err := s.Cleanup(ctx, "alice", 90)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	loaded, err := s.LoadAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, model.TypeMilestone, loaded[0].Type)
}

func TestSqliteStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Append(ctx, progressMemory("alice"))
	require.NoError(t, err)
	_, err = s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeCustom,
		Content: model.CustomContent{"note": "x"}, Relevance: 0.4, Expired: true,
	})
	require.NoError(t, err)
	require.NoError(t, s.Touch(ctx, "alice", first.ID))

	st, err := s.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.ByType[model.TypeLearningProgress])
	assert.Equal(t, 1, st.Expired)
	assert.Equal(t, 1, st.RecentlyAccessed)
}
