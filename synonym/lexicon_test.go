package synonym

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testThesaurus = `
lang "en" {
    group "cancel" "abort" "stop"
    group "match" "game" "battle"
    group "settings" "options"
    group "sign in" "log in"
}
lang "ja" {
    group "キャンセル" "中止"
}
`

func testLexicon(t *testing.T, max int) *Lexicon {
	x, err := ParseLexicon(strings.NewReader(testThesaurus), max)
	require.NoError(t, err)
	return x
}

func TestKeywords(t *testing.T) {
	x := testLexicon(t, 0)

	k, err := x.Keywords("Cancel the match!", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"cancel", "match"}, k)

	k, err = x.Keywords("one two three four five", "en")
	require.NoError(t, err)
	assert.Len(t, k, MaxKeywords)

	k, err = x.Keywords("Sign in", "en")
	require.NoError(t, err)
	assert.Equal(t, "sign in", k[0])

	k, err = x.Keywords("  ", "en")
	require.NoError(t, err)
	assert.Empty(t, k)
}

func TestSynonyms(t *testing.T) {
	x := testLexicon(t, 0)
	terms, err := x.Synonyms(context.Background(), "Cancel the match", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"cancel", "match", "abort", "stop", "game", "battle"}, terms)
}

func TestSynonymsStemAndFuzzy(t *testing.T) {
	x := testLexicon(t, 0)

	terms, err := x.Synonyms(context.Background(), "cancelled", "en")
	require.NoError(t, err)
	assert.Contains(t, terms, "abort")

	terms, err = x.Synonyms(context.Background(), "setings", "en")
	require.NoError(t, err)
	assert.Contains(t, terms, "options")

	terms, err = x.Synonyms(context.Background(), "zebra", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra"}, terms)
}

func TestSynonymsRegionFallback(t *testing.T) {
	x := testLexicon(t, 0)
	terms, err := x.Synonyms(context.Background(), "abort", "en-GB")
	require.NoError(t, err)
	assert.Contains(t, terms, "cancel")

	terms, err = x.Synonyms(context.Background(), "abort", "de")
	require.NoError(t, err)
	assert.Equal(t, []string{"abort"}, terms)
}

func TestSynonymsCap(t *testing.T) {
	x := testLexicon(t, 2)
	terms, err := x.Synonyms(context.Background(), "Cancel the match", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"cancel", "match"}, terms)
}

func TestSynonymsJapanese(t *testing.T) {
	x := testLexicon(t, 0)
	terms, err := x.Synonyms(context.Background(), "キャンセルする", "ja")
	require.NoError(t, err)
	assert.Contains(t, terms, "キャンセル")
	assert.Contains(t, terms, "中止")
}

func TestParseThesaurusErrors(t *testing.T) {
	_, err := ParseLexicon(strings.NewReader(`group "a" "b"`), 0)
	assert.Error(t, err)
	_, err = ParseLexicon(strings.NewReader(`lang { group "a" "b" }`), 0)
	assert.Error(t, err)
}

func TestDefaultLexicon(t *testing.T) {
	x, err := DefaultLexicon(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "ja", "ko"}, x.Languages())

	terms, err := x.Synonyms(context.Background(), "abort", "en")
	require.NoError(t, err)
	assert.Contains(t, terms, "cancel")
}
