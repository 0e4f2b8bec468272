package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/threatintel/client/internal/types"
)

// ErrNoState is returned by Get when a rule set was never synced.
var ErrNoState = errors.New("syncstate: no state for rule set")

// RuleFileState is what is remembered about the last downloaded file of a
// rule set.
type RuleFileState struct {
	Type         types.RuleSetType
	ETag         string
	LastModified *time.Time
	Filename     string
	Path         string
	Size         int64
	UpdatedTime  time.Time
}

// Request returns the conditional request that re-fetches the file only if
// it changed.
func (s *RuleFileState) Request() types.RuleFileRequest {
	return types.RuleFileRequest{Type: s.Type, ETag: s.ETag, LastModified: s.LastModified}
}

// Store reads and writes RuleFileState rows.
type Store struct {
	db *sql.DB
}

// NewStore wraps db, which must already carry the schema.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("syncstate: db cannot be nil")
	}
	return &Store{db: db}, nil
}

// Get returns the stored state for t, or ErrNoState.
func (s *Store) Get(ctx context.Context, t types.RuleSetType) (*RuleFileState, error) {
	row := s.db.QueryRowContext(ctx, `SELECT ETag, LastModified, Filename, Path, Size, UpdatedTime FROM RuleFiles WHERE RuleType = ?`, string(t))
	st := RuleFileState{Type: t}
	var lastModified sql.NullString
	var updated string
	if err := row.Scan(&st.ETag, &lastModified, &st.Filename, &st.Path, &st.Size, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("syncstate: get %s: %w", t, err)
	}
	if lastModified.Valid && lastModified.String != "" {
		lm, err := time.Parse(time.RFC3339, lastModified.String)
		if err != nil {
			return nil, fmt.Errorf("syncstate: parse last modified: %w", err)
		}
		st.LastModified = &lm
	}
	u, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("syncstate: parse updated time: %w", err)
	}
	st.UpdatedTime = u
	return &st, nil
}

// Put inserts or replaces the state of st.Type. UpdatedTime is set to now.
func (s *Store) Put(ctx context.Context, st *RuleFileState) error {
	if st == nil || st.Type == "" {
		return errors.New("syncstate: rule set type is required")
	}
	var lastModified sql.NullString
	if st.LastModified != nil {
		lastModified = sql.NullString{String: st.LastModified.UTC().Format(time.RFC3339), Valid: true}
	}
	st.UpdatedTime = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO RuleFiles (RuleType, ETag, LastModified, Filename, Path, Size, UpdatedTime) VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(RuleType) DO UPDATE SET ETag = excluded.ETag, LastModified = excluded.LastModified, Filename = excluded.Filename,
		Path = excluded.Path, Size = excluded.Size, UpdatedTime = excluded.UpdatedTime`,
		string(st.Type), st.ETag, lastModified, st.Filename, st.Path, st.Size, st.UpdatedTime.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("syncstate: put %s: %w", st.Type, err)
	}
	return nil
}

// Delete forgets t, so the next sync downloads unconditionally.
func (s *Store) Delete(ctx context.Context, t types.RuleSetType) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM RuleFiles WHERE RuleType = ?`, string(t))
	return err
}

// List returns all stored states ordered by rule set type.
func (s *Store) List(ctx context.Context) ([]RuleFileState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT RuleType FROM RuleFiles ORDER BY RuleType`)
	if err != nil {
		return nil, err
	}
	var names []types.RuleSetType
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, types.RuleSetType(name))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	out := make([]RuleFileState, 0, len(names))
	for _, n := range names {
		st, err := s.Get(ctx, n)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, nil
}
