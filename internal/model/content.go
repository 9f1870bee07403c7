package model

import (
	"encoding/json"
	"fmt"
)

// Subject is the study area of a learning-progress memory.
type Subject string

const (
	SubjectVocabulary Subject = "vocabulary"
	SubjectListening  Subject = "listening"
	SubjectReading    Subject = "reading"
	SubjectWriting    Subject = "writing"
	SubjectGrammar    Subject = "grammar"
	SubjectSpeaking   Subject = "speaking"
)

// ChallengeCategory classifies what kind of difficulty a learner reported.
type ChallengeCategory string

const (
	CategoryVocabulary     ChallengeCategory = "vocabulary"
	CategoryListening      ChallengeCategory = "listening"
	CategoryReading        ChallengeCategory = "reading"
	CategoryWriting        ChallengeCategory = "writing"
	CategoryGrammar        ChallengeCategory = "grammar"
	CategorySpeaking       ChallengeCategory = "speaking"
	CategoryMotivation     ChallengeCategory = "motivation"
	CategoryTimeManagement ChallengeCategory = "time_management"
)

// Frequency describes how often a commitment repeats.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyOnce   Frequency = "once"
	FrequencyCustom Frequency = "custom"
)

// Emotion is the closed set of emotional states the classifier recognizes.
type Emotion string

const (
	EmotionMotivated  Emotion = "motivated"
	EmotionAnxious    Emotion = "anxious"
	EmotionStressed   Emotion = "stressed"
	EmotionFrustrated Emotion = "frustrated"
	EmotionHappy      Emotion = "happy"
	EmotionConfident  Emotion = "confident"
	EmotionTired      Emotion = "tired"
)

// Importance ranks a milestone.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// Content is the variant payload of a Memory; the concrete type is
// discriminated by Memory.Type.
type Content interface {
	MemoryType() MemoryType
}

// LearningProgress records an achievement in one study area.
type LearningProgress struct {
	Date        string   `json:"date"`
	Subject     Subject  `json:"subject"`
	Achievement string   `json:"achievement"`
	Score       *float64 `json:"score,omitempty"`
	TimeSpent   *int     `json:"timeSpent,omitempty"`
}

func (LearningProgress) MemoryType() MemoryType { return TypeLearningProgress }

// LearningChallenge records a reported difficulty and whether it was resolved.
type LearningChallenge struct {
	Date         string            `json:"date"`
	Category     ChallengeCategory `json:"category"`
	Description  string            `json:"description"`
	Resolved     bool              `json:"resolved"`
	ResolvedDate string            `json:"resolvedDate,omitempty"`
}

func (LearningChallenge) MemoryType() MemoryType { return TypeLearningChallenge }

// Commitment records a task the learner promised to do by a deadline.
type Commitment struct {
	Date      string    `json:"date"`
	Deadline  string    `json:"deadline"`
	Task      string    `json:"task"`
	Frequency Frequency `json:"frequency"`
	Completed bool      `json:"completed"`
}

func (Commitment) MemoryType() MemoryType { return TypeCommitment }

// EmotionalState records how the learner felt, on a 1-5 intensity scale.
type EmotionalState struct {
	Date      string  `json:"date"`
	Emotion   Emotion `json:"emotion"`
	Intensity int     `json:"intensity"`
	Trigger   string  `json:"trigger,omitempty"`
}

func (EmotionalState) MemoryType() MemoryType { return TypeEmotionalState }

// Milestone records an upcoming event the learner mentioned (exam, trip, interview).
type Milestone struct {
	DateMentioned string     `json:"dateMentioned"`
	EventDate     string     `json:"eventDate"`
	Event         string     `json:"event"`
	Importance    Importance `json:"importance"`
}

func (Milestone) MemoryType() MemoryType { return TypeMilestone }

// CustomContent is the free-form payload for the "custom" type.
type CustomContent map[string]interface{}

func (CustomContent) MemoryType() MemoryType { return TypeCustom }

// DecodeContent unmarshals a raw content payload into the concrete variant
// for the given type.
func DecodeContent(t MemoryType, raw json.RawMessage) (Content, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("content is missing for type %q", t)
	}
	switch t {
	case TypeLearningProgress:
		var c LearningProgress
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode learning_progress content: %w", err)
		}
		return &c, nil
	case TypeLearningChallenge:
		var c LearningChallenge
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode learning_challenge content: %w", err)
		}
		return &c, nil
	case TypeCommitment:
		var c Commitment
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode commitment content: %w", err)
		}
		return &c, nil
	case TypeEmotionalState:
		var c EmotionalState
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode emotional_state content: %w", err)
		}
		return &c, nil
	case TypeMilestone:
		var c Milestone
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode milestone content: %w", err)
		}
		return &c, nil
	case TypeCustom:
		var c CustomContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode custom content: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown memory type %q", t)
	}
}

// UnmarshalJSON decodes a Memory, resolving the content payload into its
// typed variant based on the type field.
func (m *Memory) UnmarshalJSON(data []byte) error {
	type alias Memory
	aux := struct {
		*alias
		Content json.RawMessage `json:"content"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c, err := DecodeContent(m.Type, aux.Content)
	if err != nil {
		return err
	}
	m.Content = c
	return nil
}
