package store

import (
	"context"

	"github.com/kaiwa-coach/memory-service/internal/model"
)

// Store exposes the persistence operations required by the service layer.
// Implementations live under internal/store/<driver>/ (jsonl, sqlite).
//
// Every mutating operation is scoped to a single user's collection; an
// implementation must serialize mutations per user while letting different
// users proceed in parallel.
type Store interface {
	// Append assigns id, timestamp and accessed=0, persists the record and
	// returns the finalized copy.
	Append(ctx context.Context, m *model.Memory) (*model.Memory, error)

	// LoadAll returns the user's full collection, oldest first. A user with
	// no stored memories yields an empty slice, not an error.
	LoadAll(ctx context.Context, userID string) ([]*model.Memory, error)

	// Touch increments the access counter and stamps lastAccessed. Unknown
	// ids are a logged no-op.
	Touch(ctx context.Context, userID, id string) error

	// Expire flags the record as expired. Unknown ids are a logged no-op.
	Expire(ctx context.Context, userID, id string) error

	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, userID, id string) (bool, error)

	// Cleanup removes records that are older than retentionDays, have
	// relevance below 0.7, were accessed fewer than 3 times and are not
	// milestones. It returns the number of records removed.
	Cleanup(ctx context.Context, userID string, retentionDays int) (int, error)

	// Stats summarizes the user's collection.
	Stats(ctx context.Context, userID string) (*model.Stats, error)

	HealthCheck(ctx context.Context) error
}
