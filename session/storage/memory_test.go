package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/massimiliano76/lapi/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()

	assert.False(t, store.Has("a"))
	_, err := store.Get("a")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := session.New("a", map[string]any{"user": "x"})
	require.NoError(t, store.Save(sess))
	assert.True(t, store.Has("a"))

	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Get("user", nil))

	require.NoError(t, store.Delete("a"))
	assert.False(t, store.Has("a"))

	require.NoError(t, store.Save(sess))
	require.NoError(t, store.Close())
	assert.False(t, store.Has("a"))
}

func TestMemorySessionStoreConcurrentAccess(t *testing.T) {
	store := NewMemorySessionStore()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%4)
			if !store.Has(id) {
				_ = store.Save(session.New(id, nil))
			}
			if sess, err := store.Get(id); err == nil {
				sess.Set("last", i)
			}
		}()
	}
	wg.Wait()

	for i := range 4 {
		assert.True(t, store.Has(fmt.Sprintf("s%d", i)))
	}
}
