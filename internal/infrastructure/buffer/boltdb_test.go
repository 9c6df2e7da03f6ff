package buffer

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndGetBatch_Ordered(t *testing.T) {
	store := openTestStore(t)

	base := time.Now()
	for i, op := range []string{OperationCreate, OperationUpdateStatus, OperationCreate} {
		require.NoError(t, store.Enqueue(Item{
			Operation: op,
			Data:      json.RawMessage(`{}`),
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, OperationCreate, items[0].Operation)
	assert.Equal(t, OperationUpdateStatus, items[1].Operation)
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Item{Operation: OperationCreate, Data: json.RawMessage(`{}`)}))

	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Remove(items[0]))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestRequeue_MovesToTail(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Item{ID: "first", Operation: OperationCreate, Data: json.RawMessage(`{}`)}))
	require.NoError(t, store.Enqueue(Item{ID: "second", Operation: OperationCreate, Data: json.RawMessage(`{}`)}))

	items, err := store.GetBatch(2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	head := items[0]
	head.Retries++
	require.NoError(t, store.Remove(head))
	require.NoError(t, store.Requeue(head))

	items, err = store.GetBatch(2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].ID)
	assert.Equal(t, "first", items[1].ID)
	assert.Equal(t, 1, items[1].Retries)
}

func TestCleanup(t *testing.T) {
	store := openTestStore(t)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.Enqueue(Item{Operation: OperationCreate, Data: json.RawMessage(`{}`), Timestamp: old}))
	require.NoError(t, store.Enqueue(Item{Operation: OperationCreate, Data: json.RawMessage(`{}`)}))

	require.NoError(t, store.Cleanup(time.Now().Add(-24*time.Hour)))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}
