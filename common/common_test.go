package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frizinak/uiloc/config"
	"github.com/frizinak/uiloc/dict"
	"github.com/frizinak/uiloc/llm"
	"github.com/frizinak/uiloc/locale"
	"github.com/frizinak/uiloc/lookup"
	"github.com/frizinak/uiloc/predict"
)

func render(t *testing.T, color bool, name string, data any) string {
	t.Helper()
	tpl, err := GetTpl(color)
	require.NoError(t, err)
	buf := bytes.NewBuffer(nil)
	require.NoError(t, tpl.ExecuteTemplate(buf, name, data))
	return buf.String()
}

func TestTplDirect(t *testing.T) {
	r := lookup.Result{
		Kind:  lookup.KindDirect,
		Query: "cancel",
		Lang:  "en",
		Hits: dict.Hits{
			{ID: "Cancel", Value: "Cancel", Source: "ui_en.json", Length: 6, Width: 42},
			{ID: "NewCancel", Value: "Cancel queue", Source: "a_en.json", Length: 12, Pending: true, Release: "2024-02-01"},
		},
	}
	out := render(t, false, "result", r)
	assert.Contains(t, out, "Cancel [ui_en.json]\n  Cancel (6, 42.0px)\n")
	assert.Contains(t, out, "NewCancel [a_en.json pending 2024-02-01]\n  Cancel queue (12)\n")
	assert.NotContains(t, out, "\033[")

	r.Hits = nil
	assert.Contains(t, render(t, false, "result", r), "no results")
}

func TestTplSynonyms(t *testing.T) {
	r := lookup.Result{
		Kind:  lookup.KindSynonym,
		Query: "leave",
		Lang:  "en",
		Terms: []string{"quit", "abort"},
		Hits: dict.Hits{
			{ID: "Quit", Value: "Quit game", Source: "ui_en.json", Length: 9, Origin: dict.Synonym, Term: "quit"},
		},
	}
	out := render(t, false, "result", r)
	assert.Contains(t, out, "terms: quit, abort\n")
	assert.Contains(t, out, "Quit [ui_en.json ~quit]")
}

func TestTplTranslationsAndPredictions(t *testing.T) {
	r := lookup.Result{
		Kind:  lookup.KindCrossLanguage,
		Query: "Cancel",
		Hits:  dict.Hits{{ID: "Cancel", Value: "キャンセル", Source: "ja", Length: 5}},
	}
	assert.Equal(t, "ja     キャンセル (5)\n", render(t, false, "result", r))

	r.Hits = nil
	assert.Contains(t, render(t, false, "result", r), "no string with id Cancel")

	p := lookup.Result{
		Kind:         lookup.KindPredict,
		Query:        "Cancel",
		Translations: []predict.Translation{{Lang: "de", Text: "Abbrechen"}, {Lang: "ko", Text: "취소"}},
	}
	assert.Equal(t, "de     Abbrechen\nko     취소\n", render(t, false, "result", p))
}

func TestTplColor(t *testing.T) {
	tpl, err := GetTpl(true)
	require.NoError(t, err)
	tpl, err = tpl.New("x").Parse(`{{ highlight "cancel" "Cancel order" }}|{{ clrGreen }}a{{ clrYellow }}b{{ clrPop }}c{{ clrPop }}`)
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, tpl.Execute(buf, nil))
	assert.Equal(t, "\033[33mCancel\033[0m order|\033[32ma\033[33mb\033[0m\033[32mc\033[0m", buf.String())
}

func TestLanguages(t *testing.T) {
	s := locale.NewSnapshot(
		[]*locale.Table{
			{Lang: "en", Entries: map[string]string{"a": "A", "b": "B"}},
			{Lang: "ko", Entries: map[string]string{"a": "가"}},
		},
		[]*locale.PendingTable{{File: "x_en.json", Lang: "en", Entries: map[string]locale.PendingEntry{"c": {Text: "C"}}}},
		"ko",
	)
	l := Languages(s)
	require.Len(t, l, len(locale.SupportedLanguages))
	assert.Equal(t, Language{Code: "ko", Name: "Korean", Native: "한국어", Strings: 1, Supported: true}, l[0])
	assert.Equal(t, Language{Code: "en", Name: "English", Native: "English", Strings: 2, Pending: 1, Supported: true}, l[1])
	assert.Equal(t, "ar", l[2].Code)

	assert.Len(t, Languages(nil), len(locale.SupportedLanguages))
	out := render(t, false, "languages", l[:1])
	assert.Equal(t, fmt.Sprintf("%-6s %-22s %s 1 strings\n", "ko", "Korean", "한국어"), out)
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "just now", Ago(time.Now()))
	assert.Equal(t, "1 minute ago", Ago(time.Now().Add(-90*time.Second)))
	assert.Equal(t, "3 hours ago", Ago(time.Now().Add(-3*time.Hour-time.Minute)))
	old := time.Date(2020, 5, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2020-05-01", Ago(old))
}

func TestLogger(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l, err := Logger("warn", "json", buf)
	require.NoError(t, err)
	l.Info().Msg("hidden")
	l.Warn().Str("k", "v").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "v", line["k"])

	buf.Reset()
	StdLogger(l, "http").Printf("GET %s", "/")
	line = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET /", line["message"])
	assert.Equal(t, "http", line["component"])

	_, err = Logger("loud", "json", buf)
	assert.Error(t, err)
	_, err = Logger("info", "xml", buf)
	assert.Error(t, err)
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "ui_en.json"), map[string]string{"Cancel": "Cancel", "Quit": "Quit game"})
	writeJSON(t, filepath.Join(dir, "ui_ko.json"), map[string]string{"Cancel": "취소"})

	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.LLM.APIKey = ""
	cfg.Synonyms.Provider = config.ProviderLexicon
	cfg.History.Path = ":memory:"
	return cfg
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Data.Snapshot = filepath.Join(t.TempDir(), "snapshot.gob")

	app, err := Open(ctx, cfg, zeroLog())
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, []string{"ko", "en"}, app.Dict.Languages())
	_, err = os.Stat(cfg.Data.Snapshot)
	require.NoError(t, err)

	r, err := app.Engine.Run(ctx, lookup.Direct{Text: "cancel", Language: "en"})
	require.NoError(t, err)
	require.Len(t, r.Hits, 1)
	assert.Greater(t, r.Hits[0].Width, 0.0)

	r, err = app.Engine.Run(ctx, lookup.Synonym{Text: "quit", Language: "en"})
	require.NoError(t, err)
	assert.Contains(t, r.Hits.IDs(), "Quit")

	_, err = app.Engine.Run(ctx, lookup.Predict{Text: "Cancel"})
	assert.ErrorIs(t, err, llm.ErrCredentialMissing)

	recent, err := app.History.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "Cancel", recent[0].Query)
}

func TestOpenWithoutData(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Dir = ""
	cfg.History.Disabled = true
	cfg.Synonyms.Provider = config.ProviderNone

	app, err := Open(context.Background(), cfg, zeroLog())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.History)
	assert.Empty(t, app.Dict.Languages())
	_, err = app.Sync(context.Background())
	assert.ErrorIs(t, err, ErrNoDataDir)
	_, err = app.LastUpdate(context.Background())
	assert.ErrorIs(t, err, ErrNoDataDir)

	_, err = app.Engine.Run(context.Background(), lookup.Synonym{Text: "x", Language: "en"})
	assert.NoError(t, err)
}

func TestOpenWatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Watch = true
	app, err := Open(context.Background(), cfg, zeroLog())
	require.NoError(t, err)
	require.NotNil(t, app.watcher)
	require.NoError(t, app.Close())
}

func zeroLog() zerolog.Logger { return zerolog.Nop() }
