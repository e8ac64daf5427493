package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, namespace string) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := NewFileStore(path, namespace)
	require.NoError(t, err)
	return store, path
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, "test")

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Set("item", payload{Name: "sol", Count: 3}))

	var got payload
	found, err := store.Get("item", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, payload{Name: "sol", Count: 3}, got)
}

func TestFileStoreMissingKey(t *testing.T) {
	store, _ := newTestStore(t, "test")

	var out string
	found, err := store.Get("absent", &out)
	require.NoError(t, err)
	require.False(t, found)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	store, path := newTestStore(t, "test")
	require.NoError(t, store.Set("key", "value"))

	reopened, err := NewFileStore(path, "test")
	require.NoError(t, err)

	var got string
	found, err := reopened.Get("key", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value", got)
}

func TestFileStoreNamespacesIsolateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	first, err := NewFileStore(path, "ns-one")
	require.NoError(t, err)
	second, err := NewFileStore(path, "ns-two")
	require.NoError(t, err)

	require.NoError(t, first.Set("key", "one"))
	require.NoError(t, second.Set("key", "two"))

	var got string
	found, err := first.Get("key", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "one", got, "namespaces must not collide on the same file")
}

func TestFileStoreRemove(t *testing.T) {
	store, _ := newTestStore(t, "test")
	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, store.Remove("key"))

	var got string
	found, err := store.Get("key", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Remove("key"), "removing an absent key is not an error")
}
