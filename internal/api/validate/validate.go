package validate

import (
	"fmt"
	"regexp"

	"github.com/kaiwa-coach/memory-service/internal/model"
)

// UserID must be lowercase letters, digits, underscore, 1-40 chars. It is
// also the per-user file name stem, so the charset is deliberately tight.
var userIdRx = regexp.MustCompile(`^[a-z0-9_]{1,40}$`)

// UserID validates the mandatory user identifier.
func UserID(v string) error {
	if v == "" {
		return model.ErrUserIDRequired
	}
	if !userIdRx.MatchString(v) {
		return fmt.Errorf("userId must match %s", userIdRx.String())
	}
	return nil
}

// NonEmpty rejects an empty required field.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Message validates a chat message passed to classify/retrieve.
func Message(v string) error {
	if err := NonEmpty("message", v); err != nil {
		return err
	}
	if len(v) > 9000 {
		return fmt.Errorf("message exceeds 9000 bytes")
	}
	return nil
}

// MemoryType validates the type discriminator on a save request.
func MemoryType(t model.MemoryType) error {
	if t == "" {
		return fmt.Errorf("type is required")
	}
	if !t.Valid() {
		return fmt.Errorf("unknown memory type %q", t)
	}
	return nil
}

// Relevance checks the [0,1] range.
func Relevance(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("relevance must be within [0,1], got %v", v)
	}
	return nil
}

// RetentionDays validates a cleanup window.
func RetentionDays(v int) error {
	if v <= 0 {
		return fmt.Errorf("retentionDays must be positive, got %d", v)
	}
	return nil
}
