// Package service orchestrates the memory use cases the agent layer calls:
// classify, save, retrieve, touch, search, stats and housekeeping.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kaiwa-coach/memory-service/internal/classify"
	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/retrieval"
	"github.com/kaiwa-coach/memory-service/internal/search"
	"github.com/kaiwa-coach/memory-service/internal/store"
)

// MemoryService wires the store and the three engines behind the inbound
// contract used by the orchestration layer.
type MemoryService struct {
	store      store.Store
	classifier *classify.Engine
	searcher   *search.Engine
	retriever  *retrieval.Engine
}

// New assembles the service around a store and a classifier.
func New(s store.Store, classifier *classify.Engine) *MemoryService {
	return &MemoryService{
		store:      s,
		classifier: classifier,
		searcher:   search.New(s),
		retriever:  retrieval.New(s),
	}
}

// Classify runs the hybrid save decision for one incoming message.
func (s *MemoryService) Classify(ctx context.Context, message, userID string) model.SaveDecision {
	return s.classifier.DecideHybrid(ctx, message, userID)
}

// Save persists a memory-without-id. The store assigns id, timestamp and
// the access counter.
func (s *MemoryService) Save(ctx context.Context, m *model.Memory) (*model.Memory, error) {
	if !m.Type.Valid() {
		return nil, fmt.Errorf("invalid memory type %q", m.Type)
	}
	if m.Content == nil {
		return nil, fmt.Errorf("content is required")
	}
	if m.Content.MemoryType() != m.Type {
		return nil, fmt.Errorf("content payload is %q but type is %q", m.Content.MemoryType(), m.Type)
	}
	return s.store.Append(ctx, m)
}

// ClassifyAndSave classifies the message and, on a positive verdict,
// builds the typed content from the message and persists it in one step.
// The decision is returned either way; memory is nil when nothing was saved.
func (s *MemoryService) ClassifyAndSave(ctx context.Context, message, userID, sessionID string) (model.SaveDecision, *model.Memory, error) {
	dec := s.classifier.DecideHybrid(ctx, message, userID)
	if !dec.ShouldSave {
		return dec, nil, nil
	}
	m := BuildMemory(userID, sessionID, message, dec, time.Now().UTC())
	saved, err := s.store.Append(ctx, m)
	if err != nil {
		return dec, nil, err
	}
	return dec, saved, nil
}

// Retrieve selects up to three stored memories relevant to the message.
func (s *MemoryService) Retrieve(ctx context.Context, message, userID string, now time.Time) (*model.RetrievalResult, error) {
	return s.retriever.Decide(ctx, message, userID, now)
}

// Touch records a retrieval hit on one memory.
func (s *MemoryService) Touch(ctx context.Context, userID, id string) error {
	return s.store.Touch(ctx, userID, id)
}

// Expire flags one memory as expired.
func (s *MemoryService) Expire(ctx context.Context, userID, id string) error {
	return s.store.Expire(ctx, userID, id)
}

// Delete removes one memory and reports whether it existed.
func (s *MemoryService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.store.Delete(ctx, userID, id)
}

// List returns the user's full collection, oldest first.
func (s *MemoryService) List(ctx context.Context, userID string) ([]*model.Memory, error) {
	return s.store.LoadAll(ctx, userID)
}

// Search filters the collection against the criteria.
func (s *MemoryService) Search(ctx context.Context, c model.SearchCriteria) ([]*model.Memory, error) {
	return s.searcher.Search(ctx, c)
}

// Stats summarizes the collection.
func (s *MemoryService) Stats(ctx context.Context, userID string) (*model.Stats, error) {
	return s.store.Stats(ctx, userID)
}

// Cleanup applies the retention policy and returns how many records were
// removed.
func (s *MemoryService) Cleanup(ctx context.Context, userID string, retentionDays int) (int, error) {
	return s.store.Cleanup(ctx, userID, retentionDays)
}

// HealthCheck reports whether the backing store is usable.
func (s *MemoryService) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}
