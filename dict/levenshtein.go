package dict

import (
	"fmt"
	"strings"
)

func min3(a, b, c int) int {
	if a < b && a < c {
		return a
	} else if b < c {
		return b
	}

	return c
}

func levenshteinMatrix(s, t []rune) (func(int, int) int, []int) {
	d := make([]int, (len(s)+1)*(len(t)+1))
	stride := len(t) + 1
	offset := func(i, j int) int { return i*stride + j }

	for i := 1; i <= len(s); i++ {
		d[offset(i, 0)] = i
	}
	for j := 1; j <= len(t); j++ {
		d[offset(0, j)] = j
	}

	for j := 1; j <= len(t); j++ {
		for i := 1; i <= len(s); i++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}

			d[offset(i, j)] = min3(
				d[offset(i-1, j)]+1,
				d[offset(i, j-1)]+1,
				d[offset(i-1, j-1)]+cost,
			)
		}
	}

	return offset, d
}

// Levenshtein computes the edit distance between s and t using two rows.
func Levenshtein(s, t []rune) int {
	if len(s) < len(t) {
		s, t = t, s
	}
	prev := make([]int, len(t)+1)
	cur := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s); i++ {
		cur[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(t)]
}

// Distance is the rune-level Levenshtein distance between a and b with unit
// costs. It does not fold case.
func Distance(a, b string) int {
	return Levenshtein([]rune(a), []rune(b))
}

type EditType uint8

const (
	EditNone EditType = iota
	EditAdd
	EditDel
	EditChange
)

type Edit struct {
	Type EditType
	Rune rune
}

func (e Edit) String() string { return string(e.Rune) }

func (e Edit) DiffString() string {
	t := "="
	switch e.Type {
	case EditAdd:
		t = "+"
	case EditDel:
		t = "-"
	case EditChange:
		t = "~"
	}
	return fmt.Sprintf("%s%s", t, string(e.Rune))
}

type Edits []Edit

func (e Edits) String() string {
	l := make([]string, len(e))
	for i := range e {
		l[i] = e[i].String()
	}
	return strings.Join(l, " ")
}

func (e Edits) DiffString() string {
	l := make([]string, len(e))
	for i := range e {
		l[i] = e[i].DiffString()
	}
	return strings.Join(l, " ")
}

func (e Edits) HasEdits() bool {
	for i := range e {
		if e[i].Type != EditNone {
			return true
		}
	}
	return false
}

// Spans groups consecutive edits of the same type, ignoring deletions,
// so the target string can be printed with its changed runs highlighted.
func (e Edits) Spans() []Span {
	spans := make([]Span, 0, 4)
	for _, ed := range e {
		if ed.Type == EditDel {
			continue
		}
		changed := ed.Type != EditNone
		if n := len(spans); n != 0 && spans[n-1].Changed == changed {
			spans[n-1].Text += string(ed.Rune)
			continue
		}
		spans = append(spans, Span{Text: string(ed.Rune), Changed: changed})
	}
	return spans
}

type Span struct {
	Text    string
	Changed bool
}

// LevenshteinEdits returns the edit script that turns s into t.
func LevenshteinEdits(s, t []rune) Edits {
	offset, d := levenshteinMatrix(s, t)
	r := make(Edits, len(s)+len(t))

	ri := len(s) + len(t)
	var bt func(i, j int)
	bt = func(i, j int) {
		ri--
		if i == 0 && j == 0 {
			return
		} else if i == 0 && j > 0 {
			r[ri] = Edit{Type: EditAdd, Rune: t[j-1]}
			bt(i, j-1)
			return
		} else if j == 0 && i > 0 {
			r[ri] = Edit{Type: EditDel, Rune: s[i-1]}
			bt(i-1, j)
			return
		} else if s[i-1] == t[j-1] {
			r[ri] = Edit{Type: EditNone, Rune: t[j-1]}
			bt(i-1, j-1)
			return
		}

		n, w, nw := d[offset(i, j-1)], d[offset(i-1, j)], d[offset(i-1, j-1)]
		if n < w && n <= nw {
			r[ri] = Edit{Type: EditAdd, Rune: t[j-1]}
			bt(i, j-1)
			return
		} else if w <= nw {
			r[ri] = Edit{Type: EditDel, Rune: s[i-1]}
			bt(i-1, j)
			return
		}
		r[ri] = Edit{Type: EditChange, Rune: t[j-1]}
		bt(i-1, j-1)
	}

	bt(len(s), len(t))

	return r[ri+1:]
}

// Diff returns the case-insensitive edit script from query to value,
// carrying the runes of value as stored.
func Diff(query, value string) Edits {
	q := []rune(strings.ToLower(query))
	v := []rune(value)
	lv := []rune(strings.ToLower(value))
	if len(lv) != len(v) {
		return LevenshteinEdits(q, v)
	}
	e := LevenshteinEdits(q, lv)
	ix := 0
	for i := range e {
		if e[i].Type == EditDel {
			continue
		}
		e[i].Rune = v[ix]
		ix++
	}
	return e
}
