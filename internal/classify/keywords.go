package classify

import (
	"strings"

	"github.com/kaiwa-coach/memory-service/internal/model"
)

// The classifier is driven by the declarative tables below. Matching is a
// plain substring scan; within a table the first matching group wins, so
// order is part of the contract.

// progressKeywords signal a learning achievement.
var progressKeywords = []string{
	"覚えた", "できた", "取れた", "分かった", "わかった", "合格",
	"learned", "memorized", "mastered", "scored", "improved", "passed", "finished",
}

// subjectKeywords maps study-area keywords to a subject. Ordered; first
// matching group wins.
var subjectKeywords = []struct {
	Subject  model.Subject
	Keywords []string
}{
	{model.SubjectVocabulary, []string{"単語", "語彙", "vocabulary", "vocab", "words"}},
	{model.SubjectListening, []string{"リスニング", "聞き取り", "listening"}},
	{model.SubjectReading, []string{"読解", "リーディング", "reading"}},
	{model.SubjectWriting, []string{"作文", "ライティング", "writing"}},
	{model.SubjectGrammar, []string{"文法", "grammar"}},
	{model.SubjectSpeaking, []string{"会話", "スピーキング", "発音", "speaking", "pronunciation", "conversation"}},
}

// challengeKeywords signal a reported difficulty.
var challengeKeywords = []string{
	"難しい", "苦手", "できない", "わからない", "分からない", "困って", "うまくいかない",
	"difficult", "struggle", "struggling", "hard time", "can't", "cannot", "confused", "stuck",
}

// challengeCategoryKeywords maps difficulty keywords to a category. Ordered;
// first matching group wins.
var challengeCategoryKeywords = []struct {
	Category model.ChallengeCategory
	Keywords []string
}{
	{model.CategoryVocabulary, []string{"単語", "語彙", "vocabulary", "vocab", "words"}},
	{model.CategoryListening, []string{"リスニング", "聞き取り", "listening"}},
	{model.CategoryReading, []string{"読解", "リーディング", "reading"}},
	{model.CategoryWriting, []string{"作文", "ライティング", "writing"}},
	{model.CategoryGrammar, []string{"文法", "grammar"}},
	{model.CategorySpeaking, []string{"会話", "スピーキング", "発音", "speaking", "pronunciation"}},
	{model.CategoryMotivation, []string{"やる気", "モチベーション", "続かない", "motivation", "motivated"}},
	{model.CategoryTimeManagement, []string{"時間がない", "忙しい", "no time", "busy", "schedule"}},
}

// commitmentKeywords signal a promised task; a match alone suffices.
var commitmentKeywords = []string{
	"までに", "やります", "やる", "宿題", "約束", "予定", "復習する", "練習する",
	"will do", "i will", "promise", "homework", "going to", "plan to",
}

// emotionKeywords maps feeling keywords to an emotion. Ordered; first
// matching group wins.
var emotionKeywords = []struct {
	Emotion  model.Emotion
	Keywords []string
}{
	{model.EmotionAnxious, []string{"不安", "心配", "緊張", "anxious", "worried", "nervous"}},
	{model.EmotionStressed, []string{"ストレス", "プレッシャー", "stressed", "overwhelmed"}},
	{model.EmotionFrustrated, []string{"イライラ", "悔しい", "もどかしい", "frustrated", "annoyed"}},
	{model.EmotionMotivated, []string{"やる気が出", "頑張りたい", "motivated", "excited", "pumped"}},
	{model.EmotionHappy, []string{"嬉しい", "楽しい", "happy", "glad", "enjoyed"}},
	{model.EmotionConfident, []string{"自信", "confident"}},
	{model.EmotionTired, []string{"疲れ", "眠い", "tired", "exhausted", "sleepy"}},
}

// milestoneKeywords signal an upcoming event worth tracking.
var milestoneKeywords = []string{
	"試験", "テスト", "面接", "旅行", "留学", "発表", "引っ越し", "本番",
	"exam", "test", "interview", "trip", "presentation", "study abroad", "big day",
}

// frequencyKeywords maps repetition keywords to a commitment frequency.
var frequencyKeywords = []struct {
	Frequency model.Frequency
	Keywords  []string
}{
	{model.FrequencyDaily, []string{"毎日", "daily", "every day"}},
	{model.FrequencyWeekly, []string{"毎週", "weekly", "every week"}},
}

// importanceKeywords ranks a milestone by the kind of event mentioned.
var importanceKeywords = []struct {
	Importance model.Importance
	Keywords   []string
}{
	{model.ImportanceCritical, []string{"試験", "面接", "本番", "exam", "interview"}},
	{model.ImportanceHigh, []string{"テスト", "発表", "留学", "test", "presentation", "study abroad"}},
	{model.ImportanceMedium, []string{"旅行", "引っ越し", "trip"}},
}

func containsAny(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// DetectSubject scans the subject table; first matching group wins.
func DetectSubject(message string) (model.Subject, bool) {
	for _, g := range subjectKeywords {
		if containsAny(message, g.Keywords) {
			return g.Subject, true
		}
	}
	return "", false
}

// DetectChallengeCategory scans the challenge-category table.
func DetectChallengeCategory(message string) (model.ChallengeCategory, bool) {
	for _, g := range challengeCategoryKeywords {
		if containsAny(message, g.Keywords) {
			return g.Category, true
		}
	}
	return "", false
}

// DetectEmotion scans the emotion table.
func DetectEmotion(message string) (model.Emotion, bool) {
	for _, g := range emotionKeywords {
		if containsAny(message, g.Keywords) {
			return g.Emotion, true
		}
	}
	return "", false
}

// DetectFrequency scans the frequency table, defaulting to once.
func DetectFrequency(message string) model.Frequency {
	for _, g := range frequencyKeywords {
		if containsAny(message, g.Keywords) {
			return g.Frequency
		}
	}
	return model.FrequencyOnce
}

// DetectImportance ranks a milestone mention, defaulting to medium.
func DetectImportance(message string) model.Importance {
	for _, g := range importanceKeywords {
		if containsAny(message, g.Keywords) {
			return g.Importance
		}
	}
	return model.ImportanceMedium
}

// HasProgressKeyword reports whether the message mentions an achievement.
func HasProgressKeyword(message string) bool { return containsAny(message, progressKeywords) }

// HasChallengeKeyword reports whether the message mentions a difficulty.
func HasChallengeKeyword(message string) bool { return containsAny(message, challengeKeywords) }

// HasCommitmentKeyword reports whether the message mentions a promised task.
func HasCommitmentKeyword(message string) bool { return containsAny(message, commitmentKeywords) }

// HasMilestoneKeyword reports whether the message mentions a trackable event.
func HasMilestoneKeyword(message string) bool { return containsAny(message, milestoneKeywords) }
