package dict

import (
	"context"
	"unicode/utf8"

	"github.com/frizinak/uiloc/locale"
)

// Source hands out the snapshot to run a query against. *locale.Store
// implements it.
type Source interface {
	Snapshot() *locale.Snapshot
}

// Measurer reports the rendered width of a string.
type Measurer interface {
	Width(string) float64
}

type runeCount struct{}

func (runeCount) Width(s string) float64 { return float64(utf8.RuneCountInString(s)) }

// RuneCount measures width as the number of runes.
var RuneCount Measurer = runeCount{}

// SynonymProvider returns search terms semantically related to query in
// the target language.
type SynonymProvider interface {
	Synonyms(ctx context.Context, query, lang string) ([]string, error)
}

type Dict struct {
	src Source
	m   Measurer
	syn SynonymProvider
}

// New returns a Dict reading from src. A nil measurer falls back to
// RuneCount, a nil provider makes Synonyms fail.
func New(src Source, m Measurer, syn SynonymProvider) *Dict {
	if m == nil {
		m = RuneCount
	}
	return &Dict{src: src, m: m, syn: syn}
}

func (d *Dict) Snapshot() *locale.Snapshot { return d.src.Snapshot() }

func (d *Dict) Languages() []string {
	if s := d.src.Snapshot(); s != nil {
		return s.Languages
	}
	return nil
}

// Table returns the loaded table for lang or locale.ErrDataUnavailable.
func (d *Dict) Table(lang string) (*locale.Table, error) {
	t, ok := d.src.Snapshot().Table(lang)
	if !ok {
		return nil, locale.ErrDataUnavailable
	}
	return t, nil
}
