// Package sqlite implements the memory store on an embedded SQLite
// database. It is the alternative to the default per-user JSONL files and
// honors the same contract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kaiwa-coach/memory-service/internal/model"
	"github.com/kaiwa-coach/memory-service/internal/store"
)

// Store persists memories in a single SQLite database, partitioned by user_id.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New opens the database at path and returns a Store over it.
func New(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wires a Store over an existing connection (used by tests and the
// storage factory).
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Append(ctx context.Context, m *model.Memory) (*model.Memory, error) {
	if m.UserID == "" {
		return nil, model.ErrUserIDRequired
	}
	rec := *m
	rec.ID = uuid.New().String()
	rec.Timestamp = s.now()
	rec.Accessed = 0
	rec.LastAccessed = nil
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	content, err := json.Marshal(rec.Content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO memories (user_id, id, session_id, type, content, timestamp, relevance, accessed, tags, expired, expires_at)
		 VALUES (?,?,?,?,?,?,?,0,?,?,?)`,
		rec.UserID, rec.ID, rec.SessionID, string(rec.Type), string(content),
		rec.Timestamp.Format(time.RFC3339Nano), rec.Relevance, string(tags),
		boolToInt(rec.Expired), timePtr(rec.ExpiresAt))
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	return &rec, nil
}

func (s *Store) LoadAll(ctx context.Context, userID string) ([]*model.Memory, error) {
	if userID == "" {
		return nil, model.ErrUserIDRequired
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, type, content, timestamp, relevance, accessed, last_accessed, tags, expired, expires_at
		 FROM memories WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	memories := []*model.Memory{}
	for rows.Next() {
		m, err := scanMemory(rows, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("skipping unreadable memory row")
			continue
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}
	return memories, nil
}

func scanMemory(rows *sql.Rows, userID string) (*model.Memory, error) {
	var (
		m            model.Memory
		typ          string
		content      string
		ts           string
		lastAccessed sql.NullString
		tags         string
		expired      int
		expiresAt    sql.NullString
	)
	if err := rows.Scan(&m.ID, &m.SessionID, &typ, &content, &ts, &m.Relevance,
		&m.Accessed, &lastAccessed, &tags, &expired, &expiresAt); err != nil {
		return nil, err
	}
	m.UserID = userID
	m.Type = model.MemoryType(typ)
	m.Expired = expired != 0

	c, err := model.DecodeContent(m.Type, json.RawMessage(content))
	if err != nil {
		return nil, err
	}
	m.Content = c

	if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if m.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	if lastAccessed.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastAccessed.String)
		if err != nil {
			return nil, fmt.Errorf("parse lastAccessed: %w", err)
		}
		m.LastAccessed = &t
	}
	if expiresAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, expiresAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse expiresAt: %w", err)
		}
		m.ExpiresAt = &t
	}
	return &m, nil
}

func (s *Store) Touch(ctx context.Context, userID, id string) error {
	if userID == "" {
		return model.ErrUserIDRequired
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE memories SET accessed = accessed + 1, last_accessed = ? WHERE user_id = ? AND id = ?`,
		s.now().Format(time.RFC3339Nano), userID, id)
	if err != nil {
		return fmt.Errorf("touch memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Warn().Str("user_id", userID).Str("memory_id", id).Msg("touch: memory not found")
	}
	return nil
}

func (s *Store) Expire(ctx context.Context, userID, id string) error {
	if userID == "" {
		return model.ErrUserIDRequired
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE memories SET expired = 1 WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("expire memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Warn().Str("user_id", userID).Str("memory_id", id).Msg("expire: memory not found")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, id string) (bool, error) {
	if userID == "" {
		return false, model.ErrUserIDRequired
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		log.Warn().Str("user_id", userID).Str("memory_id", id).Msg("delete: memory not found")
	}
	return n > 0, nil
}

func (s *Store) Cleanup(ctx context.Context, userID string, retentionDays int) (int, error) {
	if userID == "" {
		return 0, model.ErrUserIDRequired
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memories
		 WHERE user_id = ? AND type != ? AND timestamp < ? AND relevance < 0.7 AND accessed < 3`,
		userID, string(model.TypeMilestone), cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup memories: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Str("user_id", userID).Int64("removed", n).Msg("memory cleanup complete")
	}
	return int(n), nil
}

func (s *Store) Stats(ctx context.Context, userID string) (*model.Stats, error) {
	if userID == "" {
		return nil, model.ErrUserIDRequired
	}
	st := &model.Stats{ByType: map[model.MemoryType]int{}}
	now := s.now()

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM memories WHERE user_id = ? GROUP BY type`, userID)
	if err != nil {
		return nil, fmt.Errorf("stats by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		st.ByType[model.MemoryType(typ)] = n
		st.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memories WHERE user_id = ? AND (expired = 1 OR (expires_at IS NOT NULL AND expires_at <= ?))`,
		userID, now.Format(time.RFC3339Nano)).Scan(&st.Expired); err != nil {
		return nil, fmt.Errorf("stats expired: %w", err)
	}

	recentCutoff := now.AddDate(0, 0, -7).Format(time.RFC3339Nano)
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memories WHERE user_id = ? AND last_accessed IS NOT NULL AND last_accessed > ?`,
		userID, recentCutoff).Scan(&st.RecentlyAccessed); err != nil {
		return nil, fmt.Errorf("stats recently accessed: %w", err)
	}
	return st, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}
