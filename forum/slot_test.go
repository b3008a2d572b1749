package forum

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend checks the contract every slot backend shares.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "unwritten slot should load as nil")

	require.NoError(t, b.Save(ctx, []byte(`[{"id":"a"}]`)))
	data, err = b.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(data))

	require.NoError(t, b.Save(ctx, []byte(`[]`)))
	data, err = b.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	store := NewStore(b)
	created, err := store.CreateTopic(ctx, NewTopic{Title: "Soil kits", Category: "Products"})
	require.NoError(t, err)
	got, err := store.GetTopic(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "forum_topics.json")
	b, err := NewFileBackend(path)
	require.NoError(t, err)
	exerciseBackend(t, b)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should not be left behind")

	// a second backend on the same path sees the same data
	other, err := NewFileBackend(path)
	require.NoError(t, err)
	topics, err := NewStore(other).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLiteBackend(":memory:")
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)
}

func TestSQLiteBackendPersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "forum.db")

	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, []byte(`[{"id":"kept"}]`)))
	require.NoError(t, b.Close())

	b, err = NewSQLiteBackend(path)
	require.NoError(t, err)
	defer b.Close()
	topics, err := NewStore(b).Load(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "kept", topics[0].ID)
}

func TestSQLiteBackendCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "forum_topics.db")
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := NewRedisBackend(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)

	raw, err := mr.Get(SlotKey)
	require.NoError(t, err)
	assert.Contains(t, raw, "Soil kits")
}

func TestRedisBackendUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisBackend(addr, "", 1)
	assert.Error(t, err)
}

func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("FORUM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FORUM_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	b, err := NewPostgresBackend(ctx, url)
	require.NoError(t, err)
	defer b.Close()
	b.key = "forum_topics_test_" + t.Name()
	t.Cleanup(func() {
		_, _ = b.pool.Exec(context.Background(), `DELETE FROM storage_slots WHERE key = $1`, b.key)
	})
	exerciseBackend(t, b)
}

func TestDecodeTopics(t *testing.T) {
	topics, err := decodeTopics(nil)
	require.NoError(t, err)
	assert.Empty(t, topics)

	topics, err = decodeTopics([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, topics)

	topics, err = decodeTopics([]byte(`[{"id":"x","replies":null}]`))
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.NotNil(t, topics[0].Replies)

	_, err = decodeTopics([]byte(`{"id":"x"}`))
	assert.ErrorIs(t, err, ErrCorruptSlot)
	_, err = decodeTopics([]byte(`[{`))
	assert.ErrorIs(t, err, ErrCorruptSlot)
}

func TestEncodeNilIsEmptyArray(t *testing.T) {
	data, err := encodeTopics(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
