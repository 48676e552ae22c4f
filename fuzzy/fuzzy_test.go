package fuzzy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	ix := NewIndex(2, []string{
		"short fuzzy word",
		"long fuzzy word " + strings.Repeat("ab", 300),
	})

	ix.Search("short fuzy wod", func(index int, score, low, high uint8) {
		if index == 0 && (score != high || score < 5) {
			t.Error("fail 1")
		}
		if index == 1 && (score == high || score != low) {
			t.Error("fail 2")
		}
	})

	ix.Search(strings.Repeat("ab", 20), func(index int, score, low, high uint8) {
		if index == 0 && score != 0 {
			t.Error("fail 3")
		}
		if index == 1 && (score != high || score != 2) {
			t.Error("fail 4")
		}
	})
}

func TestCandidates(t *testing.T) {
	ix := NewIndex(2, []string{"cancel", "abort", "stop", "cancellation", "quit"})

	c := ix.Candidates("cancle", 2, 0)
	if assert.Len(t, c, 2) {
		assert.Equal(t, "cancel", c[0].Item)
		assert.Equal(t, "cancellation", c[1].Item)
	}

	c = ix.Candidates("cancle", 1, 1)
	assert.Len(t, c, 1)

	assert.Empty(t, ix.Candidates("zz", 1, 0))
	assert.Equal(t, 5, ix.Len())
	assert.Equal(t, "abort", ix.Item(1))
}

func TestParts(t *testing.T) {
	ix := NewIndex(2, nil)
	assert.Equal(t, []string{"ab", "ba"}, ix.parts("abab!"))
	assert.Equal(t, []string{"go"}, ix.parts("Go, a"))
	assert.Equal(t, []string{"キャ", "ャン", "ンセ", "セル"}, ix.parts("キャンセル"))
}
