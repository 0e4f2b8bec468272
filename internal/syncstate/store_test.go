package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatintel/client/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, EnsureSchema(db))
	s, err := NewStore(db)
	require.NoError(t, err)
	return s
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), types.RuleSetYaraMaster)
	assert.True(t, errors.Is(err, ErrNoState))
}

func TestStore_PutGetUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lm := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, &RuleFileState{
		Type:         types.RuleSetYaraMaster,
		ETag:         "v1",
		LastModified: &lm,
		Filename:     "yara.zip",
		Path:         "/tmp/yara.zip",
		Size:         10,
	}))

	got, err := s.Get(ctx, types.RuleSetYaraMaster)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.ETag)
	require.NotNil(t, got.LastModified)
	assert.True(t, got.LastModified.Equal(lm))
	assert.Equal(t, int64(10), got.Size)
	assert.False(t, got.UpdatedTime.IsZero())

	req := got.Request()
	assert.Equal(t, types.RuleSetYaraMaster, req.Type)
	assert.Equal(t, "v1", req.ETag)

	require.NoError(t, s.Put(ctx, &RuleFileState{Type: types.RuleSetYaraMaster, ETag: "v2"}))
	got, err = s.Get(ctx, types.RuleSetYaraMaster)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.ETag)
	assert.Nil(t, got.LastModified)
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Put(ctx, &RuleFileState{Type: types.RuleSetYaraMaster}))
	require.NoError(t, s.Put(ctx, &RuleFileState{Type: types.RuleSetCommonEventFormat}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, types.RuleSetCommonEventFormat, list[0].Type)

	require.NoError(t, s.Delete(ctx, types.RuleSetCommonEventFormat))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_PutRequiresType(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Put(context.Background(), &RuleFileState{}))
}

func TestOpen_CreatesFileWithSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "intel.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), &RuleFileState{Type: types.RuleSetNetWitness, ETag: "e"}))
}
