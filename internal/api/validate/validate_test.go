package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaiwa-coach/memory-service/internal/model"
)

func TestUserID(t *testing.T) {
	assert.NoError(t, UserID("alice"))
	assert.NoError(t, UserID("user_42"))

	assert.ErrorIs(t, UserID(""), model.ErrUserIDRequired)
	assert.Error(t, UserID("Alice"))
	assert.Error(t, UserID("has space"))
	assert.Error(t, UserID("../escape"))
	assert.Error(t, UserID(strings.Repeat("a", 41)))
}

func TestMessage(t *testing.T) {
	assert.NoError(t, Message("こんにちは"))
	assert.Error(t, Message(""))
	assert.Error(t, Message(strings.Repeat("x", 9001)))
}

func TestMemoryType(t *testing.T) {
	assert.NoError(t, MemoryType(model.TypeCommitment))
	assert.Error(t, MemoryType(""))
	assert.Error(t, MemoryType(model.MemoryType("nonsense")))
}

func TestRelevance(t *testing.T) {
	assert.NoError(t, Relevance(0))
	assert.NoError(t, Relevance(1))
	assert.Error(t, Relevance(-0.1))
	assert.Error(t, Relevance(1.1))
}

func TestRetentionDays(t *testing.T) {
	assert.NoError(t, RetentionDays(90))
	assert.Error(t, RetentionDays(0))
	assert.Error(t, RetentionDays(-5))
}
