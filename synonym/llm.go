// Package synonym provides the dict.SynonymProvider implementations: one
// backed by a language model and one backed by a local thesaurus.
package synonym

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/frizinak/uiloc/dict"
	"github.com/frizinak/uiloc/llm"
	"github.com/frizinak/uiloc/locale"
)

const DefaultMaxTerms = 8

type Completer interface {
	Complete(ctx context.Context, r llm.Request) (string, error)
}

// LLM asks a language model for keywords and synonyms of a query.
type LLM struct {
	c        Completer
	maxTerms int
	log      zerolog.Logger
}

func NewLLM(c Completer, maxTerms int, log zerolog.Logger) *LLM {
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}
	return &LLM{c: c, maxTerms: maxTerms, log: log}
}

type llmReply struct {
	Keywords []string `json:"keywords"`
	Synonyms []string `json:"synonyms"`
}

const llmSystem = "You help translators find existing strings in a game's UI text database."

func llmPrompt(query, lang string, max int) string {
	return fmt.Sprintf(
		"Search query: %q\nTarget language: %s (%s)\n\n"+
			"Extract 1 to 3 keywords from the query and list words or short phrases "+
			"a game UI would use for the same meaning. Write all terms in the target language. "+
			"Return at most %d terms in total as a JSON object: "+
			`{"keywords": [...], "synonyms": [...]}`,
		query, locale.Name(lang), lang, max,
	)
}

func (p *LLM) Synonyms(ctx context.Context, query, lang string) ([]string, error) {
	content, err := p.c.Complete(ctx, llm.Request{
		System:    llmSystem,
		User:      llmPrompt(query, lang, p.maxTerms),
		JSON:      true,
		MaxTokens: 300,
	})
	if err != nil {
		return nil, err
	}

	var r llmReply
	if err := llm.DecodeObject(content, &r); err != nil {
		return nil, err
	}

	terms := dict.CleanTerms(append(r.Keywords, r.Synonyms...))
	if len(terms) > p.maxTerms {
		terms = terms[:p.maxTerms]
	}
	p.log.Debug().Str("query", query).Str("lang", lang).Strs("terms", terms).Msg("llm synonyms")
	return terms, nil
}
