// Package classify turns a raw chat message into a save/no-save decision
// with a memory type, confidence and suggested tags. It combines a
// deterministic keyword cascade with an optional LLM judgment.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kaiwa-coach/memory-service/internal/llm"
	"github.com/kaiwa-coach/memory-service/internal/model"
)

// Fixed confidences for the keyword cascade, one per branch.
const (
	confProgress   = 0.85
	confChallenge  = 0.80
	confCommitment = 0.90
	confEmotional  = 0.75
	confMilestone  = 0.95
)

// Engine is the classification engine. judge may be nil, in which case
// DecideHybrid degrades to the keyword cascade.
type Engine struct {
	judge   llm.Judge
	timeout time.Duration
}

// New returns an engine. timeout bounds each LLM call.
func New(judge llm.Judge, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{judge: judge, timeout: timeout}
}

// hints collects every keyword signal in the message without branching.
type hints struct {
	subject     model.Subject
	hasProgress bool

	category     model.ChallengeCategory
	hasChallenge bool

	hasCommitment bool

	emotion    model.Emotion
	hasEmotion bool

	hasMilestone bool
}

func (h hints) any() bool {
	return h.hasProgress || h.hasChallenge || h.hasCommitment || h.hasEmotion || h.hasMilestone
}

// firstType returns the hint type in cascade priority order.
func (h hints) firstType() model.MemoryType {
	switch {
	case h.hasProgress:
		return model.TypeLearningProgress
	case h.hasChallenge:
		return model.TypeLearningChallenge
	case h.hasCommitment:
		return model.TypeCommitment
	case h.hasEmotion:
		return model.TypeEmotionalState
	default:
		return model.TypeMilestone
	}
}

func computeHints(message string) hints {
	var h hints
	if HasProgressKeyword(message) {
		if subject, ok := DetectSubject(message); ok {
			h.subject = subject
			h.hasProgress = true
		}
	}
	if HasChallengeKeyword(message) {
		if category, ok := DetectChallengeCategory(message); ok {
			h.category = category
			h.hasChallenge = true
		}
	}
	h.hasCommitment = HasCommitmentKeyword(message)
	if emotion, ok := DetectEmotion(message); ok {
		h.emotion = emotion
		h.hasEmotion = true
	}
	h.hasMilestone = HasMilestoneKeyword(message) && HasDateExpression(message)
	return h
}

// DecideByKeywords runs the fixed-priority rule cascade and returns on the
// first matching branch. The order is part of the contract:
// progress > challenge > commitment > emotional state > milestone.
func (e *Engine) DecideByKeywords(message string) model.SaveDecision {
	h := computeHints(message)

	switch {
	case h.hasProgress:
		return model.SaveDecision{
			ShouldSave:    true,
			Type:          model.TypeLearningProgress,
			Confidence:    confProgress,
			Reason:        "progress keyword with detectable subject",
			SuggestedTags: []string{"learning", string(h.subject)},
		}
	case h.hasChallenge:
		return model.SaveDecision{
			ShouldSave:    true,
			Type:          model.TypeLearningChallenge,
			Confidence:    confChallenge,
			Reason:        "challenge keyword with detectable category",
			SuggestedTags: []string{"challenge", string(h.category)},
		}
	case h.hasCommitment:
		return model.SaveDecision{
			ShouldSave:    true,
			Type:          model.TypeCommitment,
			Confidence:    confCommitment,
			Reason:        "commitment keyword",
			SuggestedTags: []string{"commitment"},
		}
	case h.hasEmotion:
		return model.SaveDecision{
			ShouldSave:    true,
			Type:          model.TypeEmotionalState,
			Confidence:    confEmotional,
			Reason:        "emotion keyword",
			SuggestedTags: []string{"emotion", string(h.emotion)},
		}
	case h.hasMilestone:
		return model.SaveDecision{
			ShouldSave:    true,
			Type:          model.TypeMilestone,
			Confidence:    confMilestone,
			Reason:        "milestone keyword with date expression",
			SuggestedTags: []string{"milestone"},
		}
	default:
		return model.SaveDecision{ShouldSave: false, Confidence: 0, Reason: "no keyword match"}
	}
}

// DecideHybrid computes the keyword hints, delegates the judgment to the
// LLM, then reconciles the two:
//   - LLM says no but a keyword fired: save anyway with confidence capped
//     at min(llm*0.6, 0.6); keyword evidence overrides a negative verdict.
//   - LLM says yes without any keyword: confidence boosted by ×1.1, capped
//     at 1.0; pure contextual judgment is rewarded.
//
// Any LLM failure falls back to DecideByKeywords.
func (e *Engine) DecideHybrid(ctx context.Context, message, userID string) model.SaveDecision {
	if e.judge == nil {
		return e.DecideByKeywords(message)
	}

	h := computeHints(message)

	jctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.judge.Judge(jctx, buildPrompt(message, h))
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("llm judge failed, using keyword decision")
		return e.DecideByKeywords(message)
	}

	dec, err := parseDecision(reply)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("malformed llm reply, using keyword decision")
		return e.DecideByKeywords(message)
	}

	switch {
	case !dec.ShouldSave && h.any():
		dec.ShouldSave = true
		dec.Type = h.firstType()
		dec.Confidence = min(dec.Confidence*0.6, 0.6)
		dec.Reason = "keyword evidence overrides negative llm verdict"
	case dec.ShouldSave && !h.any():
		dec.Confidence = min(dec.Confidence*1.1, 1.0)
	}
	return dec
}

func buildPrompt(message string, h hints) string {
	var sb strings.Builder
	sb.WriteString("You decide whether a coaching-chat message should be saved as a long-term memory.\n")
	sb.WriteString("Memory types: learning_progress, learning_challenge, commitment, emotional_state, milestone, custom.\n")
	sb.WriteString("Message:\n")
	sb.WriteString(message)
	sb.WriteString("\nKeyword hints: ")
	hintList := []string{}
	if h.hasProgress {
		hintList = append(hintList, "learning_progress(subject="+string(h.subject)+")")
	}
	if h.hasChallenge {
		hintList = append(hintList, "learning_challenge(category="+string(h.category)+")")
	}
	if h.hasCommitment {
		hintList = append(hintList, "commitment")
	}
	if h.hasEmotion {
		hintList = append(hintList, "emotional_state(emotion="+string(h.emotion)+")")
	}
	if h.hasMilestone {
		hintList = append(hintList, "milestone")
	}
	if len(hintList) == 0 {
		sb.WriteString("none")
	} else {
		sb.WriteString(strings.Join(hintList, ", "))
	}
	sb.WriteString("\nReply with exactly one JSON object: ")
	sb.WriteString(`{"shouldSave": bool, "type": string, "confidence": number, "reason": string, "suggestedTags": [string]}`)
	return sb.String()
}

// parseDecision extracts the first JSON object from the reply and validates
// the type field.
func parseDecision(reply string) (model.SaveDecision, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return model.SaveDecision{}, fmt.Errorf("no JSON object in llm reply")
	}
	var dec model.SaveDecision
	if err := json.Unmarshal([]byte(reply[start:end+1]), &dec); err != nil {
		return model.SaveDecision{}, fmt.Errorf("decode llm reply: %w", err)
	}
	if dec.ShouldSave {
		if dec.Type == "" {
			dec.Type = model.TypeCustom
		}
		if !dec.Type.Valid() {
			return model.SaveDecision{}, fmt.Errorf("llm returned unknown type %q", dec.Type)
		}
	}
	if dec.Confidence < 0 || dec.Confidence > 1 {
		return model.SaveDecision{}, fmt.Errorf("llm confidence %v out of range", dec.Confidence)
	}
	return dec, nil
}
