package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, online func() bool) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), online)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGet_RoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, nil)

	type record struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	want := []record{{ID: "1", Name: "Maria"}, {ID: "2", Name: "João"}}
	require.NoError(t, s.Set("clients", want))

	var got []record
	found, err := s.Get("clients", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, want, got)
}

func TestGet_MissingKey(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, nil)

	var v []string
	found, err := s.Get("absent", &v)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, v)
}

func TestSet_Overwrites(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, nil)

	require.NoError(t, s.Set("k", "first"))
	require.NoError(t, s.Set("k", "second"))

	var got string
	found, err := s.Get("k", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "second", got)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, nil)

	require.NoError(t, s.Set("k", 42))
	require.NoError(t, s.Remove("k"))

	var got int
	found, err := s.Get("k", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Remove("k"))
}

func TestSet_MarksPendingWhileOffline(t *testing.T) {
	t.Parallel()
	online := false
	s := openTestStore(t, func() bool { return online })

	require.NoError(t, s.Set("events", []string{"a"}))
	pending, err := s.IsPending("events")
	require.NoError(t, err)
	require.True(t, pending)

	online = true
	require.NoError(t, s.ClearPending("events"))
	require.NoError(t, s.Set("events", []string{"a", "b"}))
	pending, err = s.IsPending("events")
	require.NoError(t, err)
	require.False(t, pending)
}

func TestPendingKeys(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, func() bool { return false })

	keys, err := s.PendingKeys()
	require.NoError(t, err)
	require.Empty(t, keys)

	require.NoError(t, s.Set("clients", 1))
	require.NoError(t, s.Set("events", 2))
	require.NoError(t, s.MarkPending("logs"))

	keys, err = s.PendingKeys()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"clients", "events", "logs"}, keys)

	require.NoError(t, s.ClearPending("events"))
	keys, err = s.PendingKeys()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"clients", "logs"}, keys)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path, func() bool { return false })
	require.NoError(t, err)
	require.NoError(t, s.Set("users", []string{"u1"}))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	var got []string
	found, err := s.Get("users", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"u1"}, got)

	pending, err := s.IsPending("users")
	require.NoError(t, err)
	require.True(t, pending)
}
