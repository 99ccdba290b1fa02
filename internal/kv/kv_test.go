package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/database"
)

func openTestSQLite(t *testing.T, path string) *SQLite {
	t.Helper()
	db, err := database.OpenLocal(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLite(db)
}

func testStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))
	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestMemory_Contract(t *testing.T) {
	testStoreContract(t, NewMemory())
}

func TestSQLite_Contract(t *testing.T) {
	testStoreContract(t, openTestSQLite(t, filepath.Join(t.TempDir(), "kv.db")))
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	db, err := database.OpenLocal(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, NewSQLite(db).Set(ctx, KeyPeopleCount, "1042"))
	require.NoError(t, db.Close())

	v, ok, err := openTestSQLite(t, path).Get(ctx, KeyPeopleCount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1042", v)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	type item struct {
		N int `json:"n"`
	}
	var got []item
	ok, err := GetJSON(ctx, s, "items", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	require.NoError(t, SetJSON(ctx, s, "items", []item{{1}, {2}}))
	ok, err = GetJSON(ctx, s, "items", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []item{{1}, {2}}, got)

	require.NoError(t, s.Set(ctx, "broken", "{"))
	_, err = GetJSON(ctx, s, "broken", &got)
	assert.Error(t, err)
}
