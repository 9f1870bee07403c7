package service

import (
	"regexp"
	"strconv"
	"time"

	"github.com/kaiwa-coach/memory-service/internal/classify"
	"github.com/kaiwa-coach/memory-service/internal/model"
)

const dayLayout = "2006-01-02"

var (
	scoreJaRx     = regexp.MustCompile(`(\d+)点`)
	scoreEnRx     = regexp.MustCompile(`scored (\d+)`)
	minutesJaRx   = regexp.MustCompile(`(\d+)分`)
	minutesEnRx   = regexp.MustCompile(`(\d+) ?minutes`)
	intensityUpRx = regexp.MustCompile(`とても|すごく|本当に|very|really|so `)
	intensityDnRx = regexp.MustCompile(`少し|ちょっと|a bit|a little|slightly`)
)

// BuildMemory constructs a memory-without-id from a positive save decision,
// filling the typed payload from what the keyword detectors can extract
// from the message. Relevance is taken from the decision confidence.
func BuildMemory(userID, sessionID, message string, dec model.SaveDecision, now time.Time) *model.Memory {
	m := &model.Memory{
		UserID:    userID,
		SessionID: sessionID,
		Type:      dec.Type,
		Relevance: dec.Confidence,
		Tags:      dec.SuggestedTags,
	}
	today := now.Format(dayLayout)

	switch dec.Type {
	case model.TypeLearningProgress:
		subject, _ := classify.DetectSubject(message)
		c := &model.LearningProgress{
			Date:        today,
			Subject:     subject,
			Achievement: message,
		}
		if score, ok := extractInt(message, scoreJaRx, scoreEnRx); ok {
			f := float64(score)
			c.Score = &f
		}
		if mins, ok := extractInt(message, minutesJaRx, minutesEnRx); ok {
			c.TimeSpent = &mins
		}
		m.Content = c

	case model.TypeLearningChallenge:
		category, _ := classify.DetectChallengeCategory(message)
		m.Content = &model.LearningChallenge{
			Date:        today,
			Category:    category,
			Description: message,
			Resolved:    false,
		}

	case model.TypeCommitment:
		deadline, ok := classify.ResolveDateExpression(message, now)
		if !ok {
			// No date expression: assume a one-week horizon.
			deadline = now.AddDate(0, 0, 7)
		}
		m.Content = &model.Commitment{
			Date:      today,
			Deadline:  deadline.Format(dayLayout),
			Task:      message,
			Frequency: classify.DetectFrequency(message),
			Completed: false,
		}

	case model.TypeEmotionalState:
		emotion, _ := classify.DetectEmotion(message)
		m.Content = &model.EmotionalState{
			Date:      today,
			Emotion:   emotion,
			Intensity: detectIntensity(message),
			Trigger:   message,
		}

	case model.TypeMilestone:
		eventDate, ok := classify.ResolveDateExpression(message, now)
		if !ok {
			eventDate = now
		}
		m.Content = &model.Milestone{
			DateMentioned: today,
			EventDate:     eventDate.Format(dayLayout),
			Event:         message,
			Importance:    classify.DetectImportance(message),
		}

	default:
		m.Type = model.TypeCustom
		m.Content = model.CustomContent{"message": message, "date": today}
	}
	return m
}

func extractInt(message string, patterns ...*regexp.Regexp) (int, bool) {
	for _, rx := range patterns {
		if m := rx.FindStringSubmatch(message); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// detectIntensity maps amplifier/softener wording onto the 1-5 scale,
// starting from the neutral midpoint.
func detectIntensity(message string) int {
	intensity := 3
	if intensityUpRx.MatchString(message) {
		intensity++
	}
	if intensityDnRx.MatchString(message) {
		intensity--
	}
	return intensity
}
