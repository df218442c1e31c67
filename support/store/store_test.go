package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

type storedDeposit struct {
	ID     string      `json:"id"`
	Amount model.Money `json:"amount"`
}

func makeTestStores(t *testing.T) map[string]api.Store {
	dir := t.TempDir()
	stores := map[string]api.Store{
		TypeMemory: MakeMemoryStore(),
	}

	pebbleStore, e := MakeStore(Config{Type: TypePebble, Path: filepath.Join(dir, "pebble")})
	require.NoError(t, e)
	stores[TypePebble] = pebbleStore

	sqliteStore, e := MakeStore(Config{Type: TypeSqlite, Path: filepath.Join(dir, "store.db")})
	require.NoError(t, e)
	stores[TypeSqlite] = sqliteStore

	return stores
}

func TestStoreContract(t *testing.T) {
	for name, s := range makeTestStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			var ts int64
			ok, e := s.Get("start_timestamp", &ts)
			require.NoError(t, e)
			assert.False(t, ok)

			require.NoError(t, s.Set("start_timestamp", int64(1700000000000)))
			ok, e = s.Get("start_timestamp", &ts)
			require.NoError(t, e)
			assert.True(t, ok)
			assert.Equal(t, int64(1700000000000), ts)

			// overwrite
			require.NoError(t, s.Set("start_timestamp", int64(5)))
			_, e = s.Get("start_timestamp", &ts)
			require.NoError(t, e)
			assert.Equal(t, int64(5), ts)

			require.NoError(t, s.Delete("start_timestamp"))
			ok, e = s.Get("start_timestamp", &ts)
			require.NoError(t, e)
			assert.False(t, ok)

			deposits := []storedDeposit{{ID: "d1", Amount: *model.MustMakeMoney("1.5", "BTC")}}
			require.NoError(t, s.HSet("deposits", "BTC", deposits))

			// hash fields do not collide with plain keys
			ok, e = s.Get("deposits", &deposits)
			require.NoError(t, e)
			assert.False(t, ok)

			var loaded []storedDeposit
			ok, e = s.HGet("deposits", "BTC", &loaded)
			require.NoError(t, e)
			assert.True(t, ok)
			require.Len(t, loaded, 1)
			assert.Equal(t, "d1", loaded[0].ID)
			assert.True(t, deposits[0].Amount.Equals(loaded[0].Amount))

			require.NoError(t, s.HDel("deposits", "BTC"))
			ok, e = s.HGet("deposits", "BTC", &loaded)
			require.NoError(t, e)
			assert.False(t, ok)
		})
	}
}

func TestPebbleStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pebble")

	s, e := MakeStore(Config{Type: TypePebble, Path: path})
	require.NoError(t, e)
	require.NoError(t, s.HSet("trades", "BTCUSD", []string{"a", "b"}))
	require.NoError(t, s.Close())

	s, e = MakeStore(Config{Type: TypePebble, Path: path})
	require.NoError(t, e)
	defer s.Close()

	var got []string
	ok, e := s.HGet("trades", "BTCUSD", &got)
	require.NoError(t, e)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestMakeStoreInvalid(t *testing.T) {
	_, e := MakeStore(Config{Type: "redis"})
	assert.Error(t, e)

	_, e = MakeStore(Config{Type: TypePostgres})
	assert.Error(t, e)
}

func TestSqliteStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "store.db")
	s, e := MakeStore(Config{Type: TypeSqlite, Path: path})
	require.NoError(t, e)
	defer s.Close()

	require.NoError(t, s.Set("start_timestamp", int64(1000)))
	var ts int64
	ok, e := s.Get("start_timestamp", &ts)
	require.NoError(t, e)
	assert.True(t, ok)
	assert.Equal(t, int64(1000), ts)
	assert.FileExists(t, path)
}
