package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	assert.Equal(t, "es-MX", Canonical("es-mx"))
	assert.Equal(t, "zh-CN", Canonical("zh_cn"))
	assert.Equal(t, "ga-IE", Canonical(" GA-ie "))
	assert.Equal(t, "en", Canonical("EN"))
	assert.Equal(t, "nl-BE", Canonical("nl-be"))
}

func TestSupported(t *testing.T) {
	assert.Len(t, SupportedLanguages, 26)
	assert.True(t, IsSupported("pt-BR"))
	assert.False(t, IsSupported("pt-br"))
	assert.False(t, IsSupported("xx"))
	assert.Equal(t, 0, SupportedIndex("ar"))
	assert.Equal(t, -1, SupportedIndex("xx"))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Korean", Name("ko"))
	assert.Equal(t, "日本語", NativeName("ja"))
	assert.Equal(t, "XX", Name("xx"))
}

func TestSortLanguages(t *testing.T) {
	l := []string{"en", "ja", "ko", "de"}
	SortLanguages(l, "ko")
	assert.Equal(t, []string{"ko", "de", "en", "ja"}, l)
}
