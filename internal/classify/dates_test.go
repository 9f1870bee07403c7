package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDateExpression(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		message string
		want    time.Time
		ok      bool
	}{
		{"tomorrow ja", "明日までにやる", now.AddDate(0, 0, 1), true},
		{"day after tomorrow ja", "明後日テストがある", now.AddDate(0, 0, 2), true},
		{"next week ja", "来週から始める", now.AddDate(0, 0, 7), true},
		{"tomorrow en", "I'll do it tomorrow", now.AddDate(0, 0, 1), true},
		{"next week en", "exam next week", now.AddDate(0, 0, 7), true},
		{"absolute ja", "3月15日に試験", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"absolute ja past rolls over", "1月5日に試験", time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"relative days ja", "3日後に発表", now.AddDate(0, 0, 3), true},
		{"relative weeks ja", "2週間後に面接", now.AddDate(0, 0, 14), true},
		{"relative en", "interview in 2 weeks", now.AddDate(0, 0, 14), true},
		{"iso date", "the exam is on 2026-04-01", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"no date", "勉強が楽しい", time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveDateExpression(tc.message, now)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestSignificantWords(t *testing.T) {
	words := SignificantWords("リスニングの宿題をやる")
	assert.Contains(t, words, "リスニング")
	assert.Contains(t, words, "宿題")

	words = SignificantWords("The listening homework is hard")
	assert.Contains(t, words, "listening")
	assert.Contains(t, words, "homework")
	assert.NotContains(t, words, "the")
	assert.NotContains(t, words, "is")
}

func TestSharedWordCount(t *testing.T) {
	a := SignificantWords("リスニングの宿題が難しい")
	b := SignificantWords("リスニングと宿題で困っています")
	assert.GreaterOrEqual(t, SharedWordCount(a, b), 2)

	c := SignificantWords("文法の練習")
	assert.Less(t, SharedWordCount(a, c), 2)
}
