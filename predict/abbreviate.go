package predict

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frizinak/uiloc/llm"
)

const abbreviateSystem = "You shorten game UI translations so they fit small buttons and labels."

func abbreviatePrompt(original string, formal map[string]string) (string, error) {
	b, err := json.Marshal(formal)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"English source: %q\nTranslations: %s\n\n"+
			"Rewrite every translation as short as possible while keeping the meaning: "+
			"drop articles and auxiliary verbs, prefer symbols and common abbreviations, "+
			"and shorten more aggressively the longer the source is.\n"+
			"Reply with a single JSON object mapping each language code to its shortened text.",
		original,
		b,
	), nil
}

// Abbreviate shortens the translations in formal whose language is listed
// in langs. The result has the order and length of formal; languages that
// were not requested or that the model did not answer pass through as is.
func (p *Predictor) Abbreviate(ctx context.Context, original string, formal []Translation, langs []string) ([]Translation, error) {
	want := set(langs)
	targets := make(map[string]string, len(langs))
	for _, t := range formal {
		if _, ok := want[t.Lang]; ok {
			targets[t.Lang] = t.Text
		}
	}
	if len(targets) == 0 {
		return clone(formal), nil
	}

	prompt, err := abbreviatePrompt(original, targets)
	if err != nil {
		return nil, err
	}
	content, err := p.c.Complete(ctx, llm.Request{
		System:    abbreviateSystem,
		User:      prompt,
		JSON:      true,
		MaxTokens: 1000,
	})
	if err != nil {
		return nil, err
	}

	short, err := decode(content, set(keys(targets)))
	if err != nil {
		return nil, err
	}

	res := clone(formal)
	for i := range res {
		if _, ok := targets[res[i].Lang]; !ok {
			continue
		}
		if v, ok := short[res[i].Lang]; ok {
			res[i].Text = v
		}
	}
	p.log.Debug().Int("requested", len(targets)).Int("shortened", len(short)).Msg("abbreviated")
	return res, nil
}

func keys(m map[string]string) []string {
	l := make([]string, 0, len(m))
	for k := range m {
		l = append(l, k)
	}
	return l
}
