package dict

import (
	"testing"

	"github.com/hbollon/go-edlib"
	"github.com/stretchr/testify/assert"
)

func TestEdits(t *testing.T) {
	tests := []struct {
		a, b string
		e    string
	}{
		{
			"go cancel",
			"hej let's go cancal eh?",
			"+h +e +j +  +l +e +t +' +s +  =g =o =  =c =a =n =c ~a =l +  +e +h +?",
		},
		{
			"go cancel",
			"go cancel",
			"=g =o =  =c =a =n =c =e =l",
		},
		{
			"go cancel",
			"abc go canc",
			"+a +b +c +  =g =o =  =c =a =n =c -e -l",
		},
	}

	for _, d := range tests {
		res := LevenshteinEdits([]rune(d.a), []rune(d.b))
		diff := res.DiffString()
		if diff != d.e {
			t.Errorf("edits incorrect for %s - %s\nexp: %s\ngot: %s", d.a, d.b, d.e, diff)
		}
	}
}

func TestDistance(t *testing.T) {
	words := []string{"", "a", "ok", "OK", "cancel", "cancal", "キャンセル", "キャンセ", "취소", "kitten", "sitting"}
	for _, a := range words {
		assert.Zero(t, Distance(a, a), a)
		for _, b := range words {
			ab := Distance(a, b)
			assert.Equal(t, ab, Distance(b, a), "%s %s", a, b)
			assert.Equal(t, edlib.LevenshteinDistance(a, b), ab, "%s %s", a, b)
			assert.Equal(t, ab, len(LevenshteinEdits([]rune(a), []rune(b)).changes()), "%s %s", a, b)
			for _, c := range words {
				assert.LessOrEqual(t, Distance(a, c), ab+Distance(b, c))
			}
		}
	}

	assert.Equal(t, 3, Distance("kitten", "sitting"))
	assert.Equal(t, 1, Distance("キャンセル", "キャンセ"))
	assert.Equal(t, 2, Distance("ok", "OK"))
	assert.Equal(t, 6, Distance("", "cancel"))
}

func (e Edits) changes() Edits {
	n := make(Edits, 0, len(e))
	for _, ed := range e {
		if ed.Type != EditNone {
			n = append(n, ed)
		}
	}
	return n
}

func TestDiff(t *testing.T) {
	e := Diff("cancel", "Cancel Match")
	assert.Equal(t, "Cancel Match", e.target())
	spans := e.Spans()
	assert.Equal(t, []Span{{"Cancel", false}, {" Match", true}}, spans)
	assert.False(t, Diff("OK", "ok").HasEdits())
}

func (e Edits) target() string {
	s := make([]rune, 0, len(e))
	for _, ed := range e {
		if ed.Type != EditDel {
			s = append(s, ed.Rune)
		}
	}
	return string(s)
}

var benchS = []rune("キャンセルしますか")
var benchT = []rune("キャンセルしますかね")

func BenchmarkLevenshtein(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Levenshtein(benchS, benchT)
	}
}

func BenchmarkLevenshteinEdits(b *testing.B) {
	for i := 0; i < b.N; i++ {
		LevenshteinEdits(benchS, benchT)
	}
}
