package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func exerciseStore(t *testing.T, kv KeyValueStore) {
	t.Helper()

	_, found, err := kv.Get("cart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set("cart", `[]`))
	require.NoError(t, kv.Set("cart", `[{"id":"a"}]`))

	value, found, err := kv.Get("cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, value)

	require.NoError(t, kv.Set("empty", ""))
	value, found, err = kv.Get("empty")
	require.NoError(t, err)
	assert.True(t, found, "an empty value is still a value")
	assert.Empty(t, value)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	kv, err := NewSQLiteStore(openSQLite(t))
	require.NoError(t, err)
	exerciseStore(t, kv)
}

func TestSQLiteStore_ReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	kv, err := NewSQLiteStore(db)
	require.NoError(t, err)
	require.NoError(t, kv.Set("favorites", `["p1"]`))
	require.NoError(t, db.Close())

	db, err = sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	kv, err = NewSQLiteStore(db)
	require.NoError(t, err)

	value, found, err := kv.Get("favorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["p1"]`, value)
}

func TestNewSQLiteStore_NilConn(t *testing.T) {
	_, err := NewSQLiteStore(nil)
	assert.Error(t, err)
}

func TestNamespaced(t *testing.T) {
	base := NewMemoryStore()
	a := Namespaced(base, "cart:a:")
	b := Namespaced(base, "cart:b:")
	exerciseStore(t, a)

	_, found, err := b.Get("cart")
	require.NoError(t, err)
	assert.False(t, found)

	value, found, err := base.Get("cart:a:cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, value)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(nil, context.Background(), 0)
	assert.Error(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	_, err = NewRedisStore(rdb, context.Background(), time.Hour)
	assert.Error(t, err)
}
