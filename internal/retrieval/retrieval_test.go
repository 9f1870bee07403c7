package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/store/jsonl"
)

const day = "2006-01-02"

func newEngine(t *testing.T) (*Engine, *jsonl.Store) {
	t.Helper()
	s, err := jsonl.New(t.TempDir())
	require.NoError(t, err)
	return New(s), s
}

func TestDecideEmptyUser(t *testing.T) {
	e, _ := newEngine(t)
	res, err := e.Decide(context.Background(), "こんにちは", "alice", time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, res.Memories)
	assert.Empty(t, res.Scores)
}

func TestDecideRequiresUserID(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Decide(context.Background(), "hello", "", time.Now().UTC())
	assert.ErrorIs(t, err, model.ErrUserIDRequired)
}

func TestDecideUpcomingCommitment(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()
	now := time.Now().UTC()

	saved, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeCommitment, Relevance: 0.9,
		Content: &model.Commitment{
			Date:     now.Format(day),
			Deadline: now.AddDate(0, 0, 1).Format(day),
			Task:     "listening homework", Frequency: model.FrequencyOnce,
		},
	})
	require.NoError(t, err)

	res, err := e.Decide(ctx, "こんにちは", "alice", now)
	require.NoError(t, err)
	require.Len(t, res.Memories, 1)
	assert.Equal(t, saved.ID, res.Memories[0].ID)
	assert.InDelta(t, 0.9, res.Scores[saved.ID], 1e-9)
}

func TestDecideIgnoresCompletedAndFarCommitments(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeCommitment, Relevance: 0.9,
		Content: &model.Commitment{
			Date:     now.Format(day),
			Deadline: now.AddDate(0, 0, 1).Format(day),
			Task:     "done already", Frequency: model.FrequencyOnce, Completed: true,
		},
	})
	require.NoError(t, err)
	_, err = s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeCommitment, Relevance: 0.9,
		Content: &model.Commitment{
			Date:     now.Format(day),
			Deadline: now.AddDate(0, 0, 30).Format(day),
			Task:     "far away", Frequency: model.FrequencyOnce,
		},
	})
	require.NoError(t, err)

	res, err := e.Decide(ctx, "こんにちは", "alice", now)
	require.NoError(t, err)
	// Neither commitment qualifies, so the recency fallback kicks in.
	require.Len(t, res.Memories, 2)
	for _, score := range res.Scores {
		assert.InDelta(t, 0.3, score, 1e-9)
	}
}

func TestDecideRelatedChallenge(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()
	now := time.Now().UTC()

	saved, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeLearningChallenge, Relevance: 0.8,
		Content: &model.LearningChallenge{
			Date: now.Format(day), Category: model.CategoryListening,
			Description: "リスニングの宿題が難しい", Resolved: false,
		},
	})
	require.NoError(t, err)

	res, err := e.Decide(ctx, "リスニングの宿題がまだ難しい", "alice", now)
	require.NoError(t, err)
	require.Len(t, res.Memories, 1)
	assert.Equal(t, saved.ID, res.Memories[0].ID)
	assert.InDelta(t, 0.8, res.Scores[saved.ID], 1e-9)
}

func TestDecideEmotionalContinuity(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Stored as stressed; the message expresses anxiety. The pair counts
	// as the same state.
	saved, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeEmotionalState, Relevance: 0.75,
		Content: &model.EmotionalState{
			Date: now.Format(day), Emotion: model.EmotionStressed, Intensity: 4,
		},
	})
	require.NoError(t, err)

	res, err := e.Decide(ctx, "不安です", "alice", now)
	require.NoError(t, err)
	require.Len(t, res.Memories, 1)
	assert.Equal(t, saved.ID, res.Memories[0].ID)
	assert.InDelta(t, 0.7, res.Scores[saved.ID], 1e-9)
}

func TestDecideApproachingMilestoneScoredByImportance(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()
	now := time.Now().UTC()

	critical, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeMilestone, Relevance: 0.95,
		Content: &model.Milestone{
			DateMentioned: now.Format(day),
			EventDate:     now.AddDate(0, 0, 10).Format(day),
			Event:         "JLPT exam", Importance: model.ImportanceCritical,
		},
	})
	require.NoError(t, err)
	medium, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeMilestone, Relevance: 0.95,
		Content: &model.Milestone{
			DateMentioned: now.Format(day),
			EventDate:     now.AddDate(0, 0, 5).Format(day),
			Event:         "trip to Osaka", Importance: model.ImportanceMedium,
		},
	})
	require.NoError(t, err)
	_, err = s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeMilestone, Relevance: 0.95,
		Content: &model.Milestone{
			DateMentioned: now.Format(day),
			EventDate:     now.AddDate(0, 0, 60).Format(day),
			Event:         "too far out", Importance: model.ImportanceCritical,
		},
	})
	require.NoError(t, err)

	res, err := e.Decide(ctx, "こんにちは", "alice", now)
	require.NoError(t, err)
	require.Len(t, res.Memories, 2)
	assert.Equal(t, critical.ID, res.Memories[0].ID)
	assert.InDelta(t, 1.0, res.Scores[critical.ID], 1e-9)
	assert.InDelta(t, 0.8, res.Scores[medium.ID], 1e-9)
}

func TestDecideFallbackToRecent(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()
	now := time.Now().UTC()

	var last *model.Memory
	for i := 0; i < 4; i++ {
		var err error
		last, err = s.Append(ctx, &model.Memory{
			UserID: "alice", Type: model.TypeCustom, Relevance: 0.4,
			Content: model.CustomContent{"note": "chitchat"},
		})
		require.NoError(t, err)
	}
	// An expired memory is never part of the fallback.
	expired, err := s.Append(ctx, &model.Memory{
		UserID: "alice", Type: model.TypeCustom, Relevance: 0.4,
		Content: model.CustomContent{"note": "stale"}, Expired: true,
	})
	require.NoError(t, err)

	res, err := e.Decide(ctx, "こんにちは", "alice", now)
	require.NoError(t, err)
	require.Len(t, res.Memories, 3)
	assert.Equal(t, last.ID, res.Memories[0].ID)
	for _, m := range res.Memories {
		assert.NotEqual(t, expired.ID, m.ID)
		assert.InDelta(t, 0.3, res.Scores[m.ID], 1e-9)
	}
}

func TestDecideTopThreeAndDedupe(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		_, err := s.Append(ctx, &model.Memory{
			UserID: "alice", Type: model.TypeCommitment, Relevance: 0.9,
			Content: &model.Commitment{
				Date:     now.Format(day),
				Deadline: now.AddDate(0, 0, 1).Format(day),
				Task:     "homework", Frequency: model.FrequencyDaily,
			},
		})
		require.NoError(t, err)
	}

	res, err := e.Decide(ctx, "こんにちは", "alice", now)
	require.NoError(t, err)
	assert.Len(t, res.Memories, 3)
	assert.Len(t, res.Scores, 3)
}
