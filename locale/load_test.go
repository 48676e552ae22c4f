package locale

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
}

func fixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "ui_en.json", `{"OK": "OK", "Cancel": "Cancel", "Empty": ""}`)
	writeFile(t, dir, "ui_ko.json", `{"OK": "확인", "Cancel": "취소"}`)
	writeFile(t, dir, "ui_es-mx.json", `{"OK": "Aceptar"}`)
	writeFile(t, dir, "_do_not_use_ui_en_dev.json", `{"Dev": "dev only"}`)
	writeFile(t, dir, "readme.txt", `not json`)

	pending := filepath.Join(dir, "pending")
	require.NoError(t, os.Mkdir(pending, 0o755))
	writeFile(t, pending, "patch_en.json", `{"NewMode": {"text": "New Mode", "releaseDate": "2026-11-01"}, "Blank": {"text": ""}}`)
	return dir, pending
}

func TestLoad(t *testing.T) {
	dir, pending := fixture(t)
	l := NewLoader(dir)
	l.PendingDir = pending

	s, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ko", "en", "es-MX"}, s.Languages)

	en, ok := s.Table("en")
	require.True(t, ok)
	assert.Equal(t, "ui_en.json", en.File)
	assert.Equal(t, map[string]string{"OK": "OK", "Cancel": "Cancel"}, en.Entries)

	_, ok = s.Table("Dev")
	assert.False(t, ok)

	p := s.PendingFor("en")
	require.Len(t, p, 1)
	assert.Equal(t, "patch_en.json", p[0].File)
	assert.Equal(t, PendingEntry{Text: "New Mode", ReleaseDate: "2026-11-01"}, p[0].Entries["NewMode"])
	assert.NotContains(t, p[0].Entries, "Blank")
	assert.Empty(t, s.PendingFor("ko"))
	assert.NotZero(t, s.Version)
}

func TestLoadBadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ui_en.json", `{"OK": `)
	_, err := NewLoader(dir).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui_en.json")
}

func TestLoadMissingDir(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
	require.Error(t, err)
}

func TestFingerprintChanges(t *testing.T) {
	dir, _ := fixture(t)
	l := NewLoader(dir)
	a, err := l.Fingerprint(context.Background())
	require.NoError(t, err)
	writeFile(t, dir, "ui_en.json", `{"OK": "Okay"}`)
	b, err := l.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLoadCached(t *testing.T) {
	dir, _ := fixture(t)
	cache := filepath.Join(t.TempDir(), "snapshot.gob")
	l := NewLoader(dir)

	s, err := l.LoadCached(context.Background(), cache)
	require.NoError(t, err)
	_, err = os.Stat(cache)
	require.NoError(t, err)

	again, err := l.LoadCached(context.Background(), cache)
	require.NoError(t, err)
	assert.Equal(t, s.Version, again.Version)
	assert.Equal(t, s.Languages, again.Languages)

	writeFile(t, dir, "ui_en.json", `{"OK": "Okay"}`)
	changed, err := l.LoadCached(context.Background(), cache)
	require.NoError(t, err)
	en, _ := changed.Table("en")
	assert.Equal(t, "Okay", en.Entries["OK"])
}

func TestLangFromFile(t *testing.T) {
	tests := []struct {
		file string
		lang string
		ok   bool
	}{
		{"ui_ko.json", "ko", true},
		{"ui_zh-tw.json", "zh-TW", true},
		{"patch_2026_pt-BR.json", "pt-BR", true},
		{"ui_.json", "", false},
		{"nolang.json", "", false},
	}
	for _, tt := range tests {
		lang, ok := LangFromFile(tt.file)
		assert.Equal(t, tt.ok, ok, tt.file)
		assert.Equal(t, tt.lang, lang, tt.file)
	}
}

func TestRelevant(t *testing.T) {
	l := NewLoader("/data")
	l.PendingDir = "/data/pending"
	assert.True(t, l.Relevant("/data/ui_en.json"))
	assert.True(t, l.Relevant("/data/pending/patch_ko.json"))
	assert.False(t, l.Relevant("/data/readme.txt"))
	assert.False(t, l.Relevant("/data/_do_not_use_ui_en_dev.json"))
	assert.False(t, l.Relevant("/elsewhere/ui_en.json"))
}
