package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestGetMissingKey(t *testing.T) {
	s, _ := openTestStore(t)
	v, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, v)
}

func TestPutOverwritesAndPersists(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)

	require.NoError(t, s.Put(ctx, "meta", []byte(`{"streak":1}`)))
	require.NoError(t, s.Put(ctx, "meta", []byte(`{"streak":2}`)))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "meta")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"streak":2}`, string(v))

	records, err := reopened.FetchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "meta", records[0].Key)
	require.False(t, records[0].UpdatedAt.IsZero())
}

func TestMemStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	buf := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", buf))
	buf[0] = 'x'

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", string(v))
}
