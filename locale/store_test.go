package locale

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSnapshotIsolation(t *testing.T) {
	dir, _ := fixture(t)
	st := NewStore(NewLoader(dir))
	_, err := st.Reload(context.Background())
	require.NoError(t, err)

	before := st.Snapshot()
	writeFile(t, dir, "ui_en.json", `{"OK": "Okay"}`)

	var swapped *Snapshot
	st.OnSwap(func(s *Snapshot) { swapped = s })
	after, err := st.Reload(context.Background())
	require.NoError(t, err)

	en, _ := before.Table("en")
	assert.Equal(t, "OK", en.Entries["OK"], "old snapshot must not change")
	en, _ = after.Table("en")
	assert.Equal(t, "Okay", en.Entries["OK"])
	assert.Same(t, after, st.Snapshot())
	assert.Same(t, after, swapped)
}

func TestStoreReloadErrorKeepsSnapshot(t *testing.T) {
	dir, _ := fixture(t)
	st := NewStore(NewLoader(dir))
	_, err := st.Reload(context.Background())
	require.NoError(t, err)
	cur := st.Snapshot()

	writeFile(t, dir, "ui_en.json", `{broken`)
	_, err = st.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, cur, st.Snapshot())
}

func TestTableLookup(t *testing.T) {
	tbl := &Table{Lang: "en", Entries: map[string]string{"OK_Button": "OK"}}
	id, v, ok := tbl.Lookup("ok_button")
	require.True(t, ok)
	assert.Equal(t, "OK_Button", id)
	assert.Equal(t, "OK", v)
	_, _, ok = tbl.Lookup("missing")
	assert.False(t, ok)
}

func TestTableLookupCaseVariants(t *testing.T) {
	tbl := &Table{Lang: "en", Entries: map[string]string{
		"ok": "lower",
		"Ok": "title",
	}}
	for i := 0; i < 20; i++ {
		id, v, ok := tbl.Lookup("oK")
		require.True(t, ok)
		assert.Equal(t, "Ok", id)
		assert.Equal(t, "title", v)
	}

	id, v, ok := tbl.Lookup("ok")
	require.True(t, ok)
	assert.Equal(t, "ok", id)
	assert.Equal(t, "lower", v)
}

func TestStoreReloadSerialized(t *testing.T) {
	dir, _ := fixture(t)
	st := NewStore(NewLoader(dir))
	_, err := st.Reload(context.Background())
	require.NoError(t, err)
	cur := st.Snapshot()

	writeFile(t, dir, "ui_en.json", `{"OK": "Okay"}`)
	st.reload.Lock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := st.Reload(context.Background())
		assert.NoError(t, err)
	}()

	select {
	case <-done:
		t.Fatal("reload did not wait for the running one")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Same(t, cur, st.Snapshot())

	st.reload.Unlock()
	<-done
	en, _ := st.Snapshot().Table("en")
	assert.Equal(t, "Okay", en.Entries["OK"])
}

func TestStoreConcurrentReloads(t *testing.T) {
	dir, _ := fixture(t)
	l := NewLoader(dir)
	st := NewStore(l)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Reload(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := l.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, v, st.Snapshot().Version)
}

func TestNilSnapshot(t *testing.T) {
	var s *Snapshot
	_, ok := s.Table("en")
	assert.False(t, ok)
	assert.Nil(t, s.PendingFor("en"))
}
