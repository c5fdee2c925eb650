package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
)

func openSQLite(t *testing.T) *SQLite {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	stores := map[string]core.Storage{
		"memory": NewMemory(),
		"sqlite": openSQLite(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("cart_id")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("cart_id", "123456"))
			val, ok, err := s.Get("cart_id")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "123456", val)

			// overwrite
			require.NoError(t, s.Set("cart_id", "654321"))
			val, _, _ = s.Get("cart_id")
			assert.Equal(t, "654321", val)

			require.NoError(t, s.Delete("cart_id"))
			_, ok, err = s.Get("cart_id")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting a missing key is not an error
			assert.NoError(t, s.Delete("lol"))
		})
	}
}

func TestSQLite_persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("access_token", "tok"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	val, ok, err := s.Get("access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", val)
}
