// Package lookup dispatches every kind of search through one entry point.
package lookup

import (
	"github.com/frizinak/uiloc/dict"
	"github.com/frizinak/uiloc/predict"
)

type Kind uint8

const (
	KindDirect Kind = iota
	KindCrossLanguage
	KindSynonym
	KindPredict
	KindAbbreviate
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindCrossLanguage:
		return "translations"
	case KindSynonym:
		return "synonyms"
	case KindPredict:
		return "predict"
	case KindAbbreviate:
		return "abbreviate"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Mode is one of Direct, CrossLanguage, Synonym, Predict or Abbreviate.
type Mode interface {
	Kind() Kind
	// Query is the text recorded in the search history.
	Query() string
	// Lang is the language the mode searches in, if any.
	Lang() string
}

type Direct struct {
	Text     string
	Language string
}

type CrossLanguage struct {
	ID string
}

type Synonym struct {
	Text     string
	Language string
}

type Predict struct {
	Text string
}

type Abbreviate struct {
	Original string
	Formal   []predict.Translation
	Langs    []string
}

func (Direct) Kind() Kind        { return KindDirect }
func (CrossLanguage) Kind() Kind { return KindCrossLanguage }
func (Synonym) Kind() Kind       { return KindSynonym }
func (Predict) Kind() Kind       { return KindPredict }
func (Abbreviate) Kind() Kind    { return KindAbbreviate }

func (m Direct) Query() string        { return m.Text }
func (m CrossLanguage) Query() string { return m.ID }
func (m Synonym) Query() string       { return m.Text }
func (m Predict) Query() string       { return m.Text }
func (m Abbreviate) Query() string    { return m.Original }

func (m Direct) Lang() string      { return m.Language }
func (CrossLanguage) Lang() string { return "" }
func (m Synonym) Lang() string     { return m.Language }
func (Predict) Lang() string       { return "" }
func (Abbreviate) Lang() string    { return "" }

// Result holds the output of a single run. Hits is set for the in-memory
// modes, Terms additionally for Synonym, Translations for Predict and
// Abbreviate.
type Result struct {
	Kind         Kind                  `json:"kind"`
	Query        string                `json:"query"`
	Lang         string                `json:"lang,omitempty"`
	Hits         dict.Hits             `json:"hits,omitempty"`
	Terms        []string              `json:"terms,omitempty"`
	Translations []predict.Translation `json:"translations,omitempty"`
}

func (r Result) Len() int {
	if r.Kind == KindPredict || r.Kind == KindAbbreviate {
		return len(r.Translations)
	}
	return len(r.Hits)
}

// Outcome is delivered on the channel returned by Engine.Go.
type Outcome struct {
	Mode   Mode
	Result Result
	Err    error
}
