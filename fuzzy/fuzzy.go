// Package fuzzy is an n-gram index used to find candidate strings close to
// a query before running a more expensive similarity measure on them.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

type Index struct {
	fuzzyLength int
	items       []string
	data        map[string][]int
}

func NewIndex(fuzzyLength int, items []string) *Index {
	if fuzzyLength < 2 {
		fuzzyLength = 2
	}
	ix := &Index{
		fuzzyLength: fuzzyLength,
		items:       items,
		data:        make(map[string][]int, len(items)),
	}

	for i, v := range items {
		for _, p := range ix.parts(v) {
			ix.data[p] = append(ix.data[p], i)
		}
	}

	return ix
}

func (index *Index) Len() int { return len(index.items) }

func (index *Index) Item(i int) string { return index.items[i] }

// Include is called for every item with its n-gram score and the lowest and
// highest score of the search.
type Include func(index int, score, low, high uint8)

const maxuint8 = 1<<8 - 1

func (index *Index) Search(q string, include Include) {
	scores := make([]uint8, len(index.items))
	var min, max uint8 = maxuint8, 0
	for _, q := range index.parts(q) {
		if b, ok := index.data[q]; ok {
			for _, ix := range b {
				v := scores[ix]
				if v != maxuint8 {
					v++
				}
				scores[ix] = v
			}
		}
	}

	for _, score := range scores {
		if score < min || min == maxuint8 {
			min = score
		}
		if score > max {
			max = score
		}
	}

	for i, score := range scores {
		include(i, score, min, max)
	}
}

type Candidate struct {
	Index int
	Item  string
	Score uint8
}

// Candidates returns at most n items sharing at least minScore n-grams with
// q, best first.
func (index *Index) Candidates(q string, minScore uint8, n int) []Candidate {
	if minScore == 0 {
		minScore = 1
	}
	c := make([]Candidate, 0, n)
	index.Search(q, func(i int, score, low, high uint8) {
		if score >= minScore {
			c = append(c, Candidate{Index: i, Item: index.items[i], Score: score})
		}
	})

	sort.Slice(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		return c[i].Index < c[j].Index
	})
	if n > 0 && len(c) > n {
		c = c[:n]
	}
	return c
}

func trim(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }

func (index *Index) parts(q string) []string {
	qs := make([]string, 0, len(q))
	dupes := make(map[string]struct{})
	add := func(s string) {
		if _, ok := dupes[s]; !ok {
			dupes[s] = struct{}{}
			qs = append(qs, s)
		}
	}

	for _, f := range strings.Fields(strings.ToLower(q)) {
		v := []rune(strings.TrimFunc(f, trim))
		if len(v) < 2 {
			continue
		}
		if len(v) <= index.fuzzyLength {
			add(string(v))
			continue
		}
		for j := 0; j < len(v)-index.fuzzyLength+1; j++ {
			add(string(v[j : j+index.fuzzyLength]))
		}
	}

	return qs
}
