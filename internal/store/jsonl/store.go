// Package jsonl implements the memory store as one newline-delimited JSON
// file per user. Appends are O(1); touch/expire/delete/cleanup rewrite the
// whole file through an atomic rename.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/store"
)

// maxLineBytes bounds a single stored record.
const maxLineBytes = 1 << 20

// Store keeps one append-only JSONL file per user under baseDir.
type Store struct {
	baseDir string

	// locks serializes mutations per user; different users never contend.
	locks sync.Map // userID -> *sync.Mutex

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates the base directory if needed and returns a Store over it.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	return &Store{baseDir: baseDir, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) userLock(userID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.baseDir, userID+".jsonl")
}

// Append assigns server-side fields and appends one line to the user's file.
func (s *Store) Append(ctx context.Context, m *model.Memory) (*model.Memory, error) {
	if m.UserID == "" {
		return nil, model.ErrUserIDRequired
	}
	mu := s.userLock(m.UserID)
	mu.Lock()
	defer mu.Unlock()

	rec := *m
	rec.ID = uuid.New().String()
	rec.Timestamp = s.now()
	rec.Accessed = 0
	rec.LastAccessed = nil
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	line, err := encodeLine(&rec)
	if err != nil {
		return nil, fmt.Errorf("encode memory: %w", err)
	}

	f, err := os.OpenFile(s.path(m.UserID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open memory file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return nil, fmt.Errorf("append memory: %w", err)
	}
	return &rec, nil
}

// LoadAll reads the user's collection, oldest first. A missing file is an
// empty collection; unparseable lines are skipped with a warning.
func (s *Store) LoadAll(ctx context.Context, userID string) ([]*model.Memory, error) {
	if userID == "" {
		return nil, model.ErrUserIDRequired
	}
	f, err := os.Open(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.Memory{}, nil
		}
		return nil, fmt.Errorf("open memory file: %w", err)
	}
	defer f.Close()

	memories := []*model.Memory{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		m, err := decodeLine(line)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Int("line", lineNo).
				Msg("skipping malformed memory line")
			continue
		}
		memories = append(memories, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read memory file: %w", err)
	}
	return memories, nil
}

// writeAll rewrites the user's file with the given records, or removes it
// when the collection is empty. The rewrite goes through a temp file and a
// rename so a crash never leaves a half-written collection.
func (s *Store) writeAll(userID string, memories []*model.Memory) error {
	path := s.path(userID)
	if len(memories) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove empty memory file: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	for _, m := range memories {
		line, err := encodeLine(m)
		if err != nil {
			return fmt.Errorf("encode memory %s: %w", m.ID, err)
		}
		buf.Write(line)
	}

	tmp, err := os.CreateTemp(s.baseDir, userID+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp memory file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp memory file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace memory file: %w", err)
	}
	return nil
}

// mutate loads the collection, applies fn, and rewrites the file when fn
// reports a change.
func (s *Store) mutate(ctx context.Context, userID string, fn func([]*model.Memory) ([]*model.Memory, bool, error)) error {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	memories, err := s.LoadAll(ctx, userID)
	if err != nil {
		return err
	}
	out, changed, err := fn(memories)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.writeAll(userID, out)
}

// Touch increments the access counter and stamps lastAccessed.
func (s *Store) Touch(ctx context.Context, userID, id string) error {
	if userID == "" {
		return model.ErrUserIDRequired
	}
	return s.mutate(ctx, userID, func(memories []*model.Memory) ([]*model.Memory, bool, error) {
		for _, m := range memories {
			if m.ID == id {
				m.Accessed++
				now := s.now()
				m.LastAccessed = &now
				return memories, true, nil
			}
		}
		log.Warn().Str("user_id", userID).Str("memory_id", id).Msg("touch: memory not found")
		return memories, false, nil
	})
}

// Expire flags the record as expired.
func (s *Store) Expire(ctx context.Context, userID, id string) error {
	if userID == "" {
		return model.ErrUserIDRequired
	}
	return s.mutate(ctx, userID, func(memories []*model.Memory) ([]*model.Memory, bool, error) {
		for _, m := range memories {
			if m.ID == id {
				m.Expired = true
				return memories, true, nil
			}
		}
		log.Warn().Str("user_id", userID).Str("memory_id", id).Msg("expire: memory not found")
		return memories, false, nil
	})
}

// Delete removes the record, deleting the file outright when the collection
// becomes empty. It reports whether the id existed.
func (s *Store) Delete(ctx context.Context, userID, id string) (bool, error) {
	if userID == "" {
		return false, model.ErrUserIDRequired
	}
	found := false
	err := s.mutate(ctx, userID, func(memories []*model.Memory) ([]*model.Memory, bool, error) {
		kept := memories[:0]
		for _, m := range memories {
			if m.ID == id {
				found = true
				continue
			}
			kept = append(kept, m)
		}
		if !found {
			log.Warn().Str("user_id", userID).Str("memory_id", id).Msg("delete: memory not found")
			return memories, false, nil
		}
		return kept, true, nil
	})
	return found, err
}

// Cleanup applies the retention policy: a record is removed only when it is
// old, low-relevance, rarely accessed and not a milestone; satisfying any
// one keep-condition is enough to survive.
func (s *Store) Cleanup(ctx context.Context, userID string, retentionDays int) (int, error) {
	if userID == "" {
		return 0, model.ErrUserIDRequired
	}
	removed := 0
	err := s.mutate(ctx, userID, func(memories []*model.Memory) ([]*model.Memory, bool, error) {
		cutoff := s.now().AddDate(0, 0, -retentionDays)
		kept := memories[:0]
		for _, m := range memories {
			if m.Type != model.TypeMilestone &&
				m.Timestamp.Before(cutoff) &&
				m.Relevance < 0.7 &&
				m.Accessed < 3 {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		if removed == 0 {
			return memories, false, nil
		}
		return kept, true, nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Info().Str("user_id", userID).Int("removed", removed).Msg("memory cleanup complete")
	}
	return removed, nil
}

// Stats summarizes the user's collection.
func (s *Store) Stats(ctx context.Context, userID string) (*model.Stats, error) {
	memories, err := s.LoadAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	st := &model.Stats{ByType: map[model.MemoryType]int{}}
	recentCutoff := now.AddDate(0, 0, -7)
	for _, m := range memories {
		st.Total++
		st.ByType[m.Type]++
		if m.IsExpired(now) {
			st.Expired++
		}
		if m.LastAccessed != nil && m.LastAccessed.After(recentCutoff) {
			st.RecentlyAccessed++
		}
	}
	return st, nil
}

// HealthCheck verifies the base directory is still present and writable.
func (s *Store) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("memory dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("memory path %s is not a directory", s.baseDir)
	}
	return nil
}
