package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, s.Record(ctx, "direct", fmt.Sprintf("q%d", i), "en", i, false))
	}
	require.NoError(t, s.Record(ctx, "synonyms", "q3", "ko", 1, false))
	require.NoError(t, s.Record(ctx, "direct", "", "en", 0, false))

	l, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, l, RecentLimit)
	assert.Equal(t, "q3", l[0].Query)
	assert.Equal(t, "synonyms", l[0].Kind)
	assert.Equal(t, "ko", l[0].Lang)
	assert.Equal(t, "q11", l[1].Query)

	seen := make(map[string]bool)
	for _, e := range l {
		assert.False(t, seen[e.Query], e.Query)
		seen[e.Query] = true
	}
}

func TestStats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "direct", "ok", "en", 1, false))
	require.NoError(t, s.Record(ctx, "direct", "ok", "ko", 1, false))
	require.NoError(t, s.Record(ctx, "predict", "ok", "", 0, true))
	require.NoError(t, s.Track(ctx, EventGitPull))
	require.NoError(t, s.Track(ctx, EventGitPull))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Searches)
	assert.Equal(t, map[string]int{"direct": 2, "predict": 1}, st.ByKind)
	assert.Equal(t, map[string]int{"en": 1, "ko": 1}, st.ByLang)
	assert.Equal(t, map[string]int{"predict": 1}, st.Failed)
	assert.Equal(t, 2, st.Events[EventGitPull])
	assert.False(t, st.FirstUsed.IsZero())

	require.NoError(t, s.Reset(ctx))
	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Searches)
}

func TestPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), "direct", "cancel", "en", 2, false))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	l, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, l, 1)
	assert.Equal(t, "cancel", l[0].Query)
}
