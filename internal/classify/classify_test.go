package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwa-coach/memory-service/internal/model"
)

// fakeJudge returns a canned reply or error.
type fakeJudge struct {
	reply string
	err   error
}

func (f *fakeJudge) Judge(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func TestDecideByKeywordsCommitment(t *testing.T) {
	e := New(nil, time.Second)
	dec := e.DecideByKeywords("明日までにリスニングの宿題をやる")
	assert.True(t, dec.ShouldSave)
	assert.Equal(t, model.TypeCommitment, dec.Type)
	assert.InDelta(t, 0.90, dec.Confidence, 1e-9)
}

func TestDecideByKeywordsProgress(t *testing.T) {
	e := New(nil, time.Second)
	dec := e.DecideByKeywords("単語を覚えた！50点取れた")
	assert.True(t, dec.ShouldSave)
	assert.Equal(t, model.TypeLearningProgress, dec.Type)
	assert.Contains(t, dec.SuggestedTags, string(model.SubjectVocabulary))
}

func TestDecideByKeywordsCascadeOrder(t *testing.T) {
	e := New(nil, time.Second)

	// Progress and commitment signals together: progress wins.
	dec := e.DecideByKeywords("文法が分かった、明日までに復習する")
	assert.Equal(t, model.TypeLearningProgress, dec.Type)

	// Challenge beats emotion.
	dec = e.DecideByKeywords("リスニングが難しい、不安です")
	assert.Equal(t, model.TypeLearningChallenge, dec.Type)
}

func TestDecideByKeywordsEmotion(t *testing.T) {
	e := New(nil, time.Second)
	dec := e.DecideByKeywords("不安でいっぱいです")
	assert.True(t, dec.ShouldSave)
	assert.Equal(t, model.TypeEmotionalState, dec.Type)
	assert.InDelta(t, 0.75, dec.Confidence, 1e-9)
}

func TestDecideByKeywordsMilestone(t *testing.T) {
	e := New(nil, time.Second)

	dec := e.DecideByKeywords("来週、試験があります")
	assert.True(t, dec.ShouldSave)
	assert.Equal(t, model.TypeMilestone, dec.Type)
	assert.InDelta(t, 0.95, dec.Confidence, 1e-9)

	// Milestone keyword without a date expression does not fire.
	dec = e.DecideByKeywords("試験のことを考えている")
	assert.False(t, dec.ShouldSave)
}

func TestDecideByKeywordsNoMatch(t *testing.T) {
	e := New(nil, time.Second)
	dec := e.DecideByKeywords("こんにちは")
	assert.False(t, dec.ShouldSave)
	assert.Zero(t, dec.Confidence)
}

func TestDecideHybridFallsBackOnError(t *testing.T) {
	message := "明日までにリスニングの宿題をやる"
	failing := New(&fakeJudge{err: errors.New("timeout")}, time.Second)
	keyword := New(nil, time.Second)

	got := failing.DecideHybrid(context.Background(), message, "alice")
	want := keyword.DecideByKeywords(message)
	assert.Equal(t, want, got)
}

func TestDecideHybridFallsBackOnMalformedReply(t *testing.T) {
	message := "単語を覚えた！"
	e := New(&fakeJudge{reply: "sure, saving that"}, time.Second)

	got := e.DecideHybrid(context.Background(), message, "alice")
	want := New(nil, time.Second).DecideByKeywords(message)
	assert.Equal(t, want, got)
}

func TestDecideHybridKeywordOverridesNegativeVerdict(t *testing.T) {
	e := New(&fakeJudge{
		reply: `{"shouldSave": false, "confidence": 0.9, "reason": "seems mundane"}`,
	}, time.Second)

	dec := e.DecideHybrid(context.Background(), "明日までに宿題をやる", "alice")
	require.True(t, dec.ShouldSave)
	assert.Equal(t, model.TypeCommitment, dec.Type)
	assert.InDelta(t, 0.54, dec.Confidence, 1e-9) // min(0.9*0.6, 0.6)
}

func TestDecideHybridOverrideConfidenceIsCapped(t *testing.T) {
	e := New(&fakeJudge{
		reply: `{"shouldSave": false, "confidence": 1.0, "reason": "no"}`,
	}, time.Second)

	dec := e.DecideHybrid(context.Background(), "明日までに宿題をやる", "alice")
	require.True(t, dec.ShouldSave)
	assert.InDelta(t, 0.6, dec.Confidence, 1e-9)
}

func TestDecideHybridBoostsPureContextualJudgment(t *testing.T) {
	e := New(&fakeJudge{
		reply: `{"shouldSave": true, "type": "custom", "confidence": 0.8, "reason": "notable preference"}`,
	}, time.Second)

	dec := e.DecideHybrid(context.Background(), "こんにちは", "alice")
	require.True(t, dec.ShouldSave)
	assert.Equal(t, model.TypeCustom, dec.Type)
	assert.InDelta(t, 0.88, dec.Confidence, 1e-9)
}

func TestDecideHybridAgreementPassesThrough(t *testing.T) {
	e := New(&fakeJudge{
		reply: `{"shouldSave": true, "type": "commitment", "confidence": 0.7, "reason": "promise with deadline", "suggestedTags": ["commitment"]}`,
	}, time.Second)

	dec := e.DecideHybrid(context.Background(), "明日までに宿題をやる", "alice")
	require.True(t, dec.ShouldSave)
	assert.Equal(t, model.TypeCommitment, dec.Type)
	assert.InDelta(t, 0.7, dec.Confidence, 1e-9)
}

func TestDecideHybridNilJudge(t *testing.T) {
	e := New(nil, time.Second)
	message := "単語を覚えた！"
	assert.Equal(t, e.DecideByKeywords(message), e.DecideHybrid(context.Background(), message, "alice"))
}
